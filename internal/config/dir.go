// Package config resolves and loads worklog configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Dir returns the worklog configuration directory.
//
// Resolution:
//   - $WORKLOG_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/worklog if set (respects XDG on any platform)
//   - %AppData%/worklog on Windows
//   - ~/.config/worklog on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("WORKLOG_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "worklog")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "worklog")
		}
	}

	// macOS and Linux: ~/.config/worklog
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "worklog")
}

// Path returns the config file location inside Dir.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
