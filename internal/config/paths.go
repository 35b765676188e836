package config

import (
	"os"
	"path/filepath"
)

// Dir returns the config directory using XDG standard (~/.config/blockgrid/).
func Dir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the data directory using XDG standard (~/.local/share/blockgrid/).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
