package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "DOMAINVERSE_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "domainverse.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "domainverse"
)

// SearchPaths lists the config candidates in priority order:
// $DOMAINVERSE_CONFIG, ./domainverse.yaml, $XDG_CONFIG_HOME/domainverse/config.yaml,
// ~/.config/domainverse/config.yaml, /etc/domainverse/config.yaml
func SearchPaths() []string {
	paths := make([]string, 0, 5)
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing candidate from SearchPaths, or ""
func FindConfigPath() string {
	for _, p := range SearchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
