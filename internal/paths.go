package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chat-rotator"

// DataPaths holds the detected locations of the tool's own files
type DataPaths struct {
	DataDir string
}

// DetectDataPaths detects where the database and config live for this OS
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var dataDir string
	switch runtime.GOOS {
	case "darwin":
		dataDir = filepath.Join(home, "Library/Application Support", appName)
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, appName)
		} else {
			dataDir = filepath.Join(home, ".local/share", appName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			dataDir = filepath.Join(appData, appName)
		} else {
			dataDir = filepath.Join(home, "AppData/Roaming", appName)
		}
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return DataPaths{DataDir: dataDir}, nil
}

// DBPath returns the default database location
func (dp DataPaths) DBPath() string {
	return filepath.Join(dp.DataDir, "chat_rotator.db")
}

// ConfigPath returns the default config file location
func (dp DataPaths) ConfigPath() string {
	return filepath.Join(dp.DataDir, "config.yaml")
}

// DBExists checks if the database file exists
func (dp DataPaths) DBExists() bool {
	_, err := os.Stat(dp.DBPath())
	return err == nil
}
