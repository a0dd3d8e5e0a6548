// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when no explicit location is given.
const (
	DefaultConfigDirName = ".semilla"
	DefaultDataDirName   = ".semilla-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SEMILLA_CONFIG_DIR"
	EnvDataDir   = "SEMILLA_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/semilla (fallback ~/.config/semilla)
// macOS:   ~/Library/Application Support/semilla
// Windows: %APPDATA%/semilla
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "semilla"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "semilla"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "semilla"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/semilla (fallback ~/.local/share/semilla)
// macOS:   ~/Library/Application Support/semilla
// Windows: %APPDATA%/semilla
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "semilla"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "semilla"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "semilla"), nil
	}
}

// ResolveConfigDir applies the precedence flag > environment > CWD default.
func ResolveConfigDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v
	}
	return DefaultConfigDirName
}

// ResolveDataDir applies the precedence flag > environment > config value >
// CWD default. configValue comes from config.yaml and may be empty.
func ResolveDataDir(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		return v
	}
	if configValue != "" {
		return configValue
	}
	return DefaultDataDirName
}
