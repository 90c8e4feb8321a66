package service

import (
	"fmt"
	"os"
	"path/filepath"

	"commentbox/app/config"
	"commentbox/app/repositories"
	"commentbox/app/services"
)

// Configuration - variable to allow testing with different paths
var cfg = config.Load()

var osExit = os.Exit

// openStore opens the configured key/value store and returns it with its
// close function.
func openStore() (repositories.KeyValueStore, func() error, error) {
	if cfg.Backend == config.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %v", err)
		}
		store, err := repositories.NewSQLiteStore(cfg.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite store: %v", err)
		}
		return store, store.Close, nil
	}

	store, err := repositories.NewBadgerStore(cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Badger store: %v", err)
	}
	return store, store.Close, nil
}

// openWidget opens the store and loads the comment tree and the current
// identity from it.
func openWidget() (*services.CommentStore, *services.IdentityService, func() error, error) {
	store, closeFn, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	comments := services.NewCommentStore(store)
	identity := services.NewIdentityService(store)
	if err := comments.Load(); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	if err := identity.Load(); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return comments, identity, closeFn, nil
}

// confirm asks a yes/no question on stdin; anything but y/Y is a no.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}
