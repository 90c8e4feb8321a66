package config

import (
	"os"
	"strconv"
)

const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Storage
	Backend  string
	DataPath string

	// Server
	Addr string

	// Avatars
	MaxAvatarBytes int64
}

func Load() *Config {
	backend := getEnv("COMMENTBOX_BACKEND", BackendBadger)
	if backend != BackendSQLite {
		backend = BackendBadger
	}
	defaultPath := "data/badger"
	if backend == BackendSQLite {
		defaultPath = "data/commentbox.db"
	}

	return &Config{
		Backend:        backend,
		DataPath:       getEnv("COMMENTBOX_DATA", defaultPath),
		Addr:           getEnv("COMMENTBOX_ADDR", ":8080"),
		MaxAvatarBytes: getEnvInt64("COMMENTBOX_MAX_AVATAR", 2<<20),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}
