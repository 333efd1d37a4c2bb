package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the runtime dir before any config struct is
// parsed, so the .env file inside it can seed the environment.
func GetRuntimePath() string {
	path := os.Getenv("MATCHBOT_RUNTIME_PATH")
	if path == "" {
		path = ".matchbot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
