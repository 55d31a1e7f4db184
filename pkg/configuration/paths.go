package configuration

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/alantheprice/exoshell/pkg/utils"
)

const (
	AppDirName        = "exoshell"
	HistoryDirName    = "history"
	DataDirEnv        = "EXOSHELL_DATA_DIR"
	HistoryDirEnv     = "EXOSHELL_HISTORY_DIR"
	ConfigFileEnv     = "EXOSHELL_CONFIG"
	ConfigFileName    = "config.yaml"
	LogFileName       = "exoshell.log"
	HistoryFileSuffix = ".yaml"
)

// DataDir returns the base directory for exoshell data. EXOSHELL_DATA_DIR takes
// precedence over the platform default and must be absolute.
func DataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		base, err := platformDataDir()
		if err != nil {
			return "", utils.NewPathError("could not find data directory, please set %s manually: %v", DataDirEnv, err)
		}
		dir = filepath.Join(base, AppDirName)
	}

	if !filepath.IsAbs(dir) {
		return "", utils.NewPathError("%s must be an absolute path", DataDirEnv)
	}
	return dir, nil
}

// HistoryDir returns the directory holding one history file per session.
// EXOSHELL_HISTORY_DIR overrides it independently of the data directory.
func HistoryDir() (string, error) {
	dir := os.Getenv(HistoryDirEnv)
	if dir == "" {
		base, err := DataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, HistoryDirName)
	}

	if !filepath.IsAbs(dir) {
		return "", utils.NewPathError("%s must be an absolute path", HistoryDirEnv)
	}
	return dir, nil
}

// HistoryPath returns the history file for a session name
func HistoryPath(session string) (string, error) {
	dir, err := HistoryDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, session+HistoryFileSuffix), nil
}

// DefaultLogPath returns the log file location inside the data directory
func DefaultLogPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// platformDataDir mirrors the usual per-user local data location
func platformDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return os.UserConfigDir()
	case "darwin", "ios":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}
