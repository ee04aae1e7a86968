package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName     = "cc-toolgate"
	configFileName = "config.toml"
	logFileName    = "decisions.log"

	configPathEnvVar = "CC_TOOLGATE_CONFIG"
)

// DefaultPath returns the well-known configuration file path: the value of
// CC_TOOLGATE_CONFIG if set, otherwise $XDG_CONFIG_HOME/cc-toolgate/config.toml,
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	if p := os.Getenv(configPathEnvVar); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(appDirName, configFileName)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDirName, configFileName)
}

// DefaultLogPath returns the well-known decision log path:
// $XDG_STATE_HOME/cc-toolgate/decisions.log, falling back to ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(appDirName, logFileName)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, appDirName, logFileName)
}
