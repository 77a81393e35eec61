package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultServerURL points at a locally running API, same as the mobile
// builds did.
const DefaultServerURL = "http://localhost:8000/api"

type Config struct {
	ServerURL string
	TokenPath string
	CachePath string
	LogPath   string
}

// New builds the configuration from flags, then lets environment variables
// win so deployments can override without touching the command line. A
// .env file in the working directory is honored when present.
func New() *Config {
	// optional; real env vars take precedence below
	_ = godotenv.Load()

	dir := stateDir()
	cfg := &Config{}

	flag.StringVar(&cfg.ServerURL, "server", DefaultServerURL, "base URL of the task API")
	flag.StringVar(&cfg.TokenPath, "token-file", filepath.Join(dir, "token"), "where the session token is stored")
	flag.StringVar(&cfg.CachePath, "cache-file", filepath.Join(dir, "cache.db"), "local task cache database")
	flag.StringVar(&cfg.LogPath, "log-file", filepath.Join(dir, "todo.log"), "log output file")
	flag.Parse()

	if v := os.Getenv("TODO_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("TODO_TOKEN_FILE"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("TODO_CACHE_FILE"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogPath = v
	}

	return cfg
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".todo-go")
}
