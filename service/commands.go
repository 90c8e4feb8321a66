package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"commentbox/app/config"
	"commentbox/app/repositories"
)

// HandleCommand handles db subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printDbHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "clean":
		clean()
		return 0
	case "init":
		initDb()
		return 0
	case "backup":
		backup()
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(args[1])
	case "help":
		printDbHelp()
		return 0
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDbHelp()
		osExit(1)
		return 1
	}
}

// printDbHelp prints help for db subcommands.
func printDbHelp() {
	helpText := `Usage: commentbox db

Commands:
  init                            Initialize a new empty data store
  clean                           Delete the data store
  backup                          Create a backup of the data store (badger only)
  restore [file]                  Restore the data store from a backup (badger only)
  help                            Display this help message
`
	fmt.Println(helpText)
}

// clean removes the data store.
func clean() {
	if _, err := os.Stat(cfg.DataPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(cfg.DataPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb initializes a new empty data store with an empty comment tree.
func initDb() {
	if _, err := os.Stat(cfg.DataPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	store, closeFn, err := openStore()
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}
	defer closeFn()

	if err := store.Set(repositories.CommentsKey, "[]"); err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}

	fmt.Println("Database initialized successfully")
}

// backup creates a backup of the badger data store.
func backup() {
	if cfg.Backend != config.BackendBadger {
		fmt.Printf("Backup is not supported for the %s backend\n", cfg.Backend)
		return
	}
	if _, err := os.Stat(cfg.DataPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return
	}

	backupDir := filepath.Join(filepath.Dir(cfg.DataPath), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return
	}

	store, err := repositories.NewBadgerStore(cfg.DataPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
}

// restore restores the badger data store from a backup.
func restore(backupFile string) int {
	if cfg.Backend != config.BackendBadger {
		fmt.Printf("Restore is not supported for the %s backend\n", cfg.Backend)
		return 1
	}
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(cfg.DataPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(cfg.DataPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	store, err := repositories.NewBadgerStore(cfg.DataPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.Restore(f)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
