// Package paths provides centralized path handling for tidyup.
// It resolves rule paths (home expansion, root-relative resolution) and
// implements XDG Base Directory lookups for config, state and trash.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/tidyup/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvConfigFile points at an explicit configuration file
	EnvConfigFile = "TIDYUP_CONFIG"
)

// Default directories and files
const (
	// AppDirName is the directory name for tidyup-specific files
	AppDirName = "tidyup"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "tidyup.log"

	// JournalFileName is the name of the action journal
	JournalFileName = "journal.jsonl"

	// TrashDirName is the freedesktop.org trash directory under the data home
	TrashDirName = "Trash"
)

// HomeDir returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func HomeDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv(EnvHome)
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory")
}

// ExpandHome replaces a leading ~ with the user's home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := HomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// Resolve expands ~ and makes path absolute, interpreting relative paths
// against root. An empty root means the current working directory.
func Resolve(root, path string) (string, error) {
	path = ExpandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if root == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
		}
		return abs, nil
	}

	root = ExpandHome(root)
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", root)
		}
		root = absRoot
	}
	return filepath.Join(root, path), nil
}

// Collapse replaces the home directory prefix of path with ~, for display.
func Collapse(path string) string {
	homeDir, err := HomeDir()
	if err != nil || homeDir == "" {
		return path
	}
	if path == homeDir {
		return "~"
	}
	if strings.HasPrefix(path, homeDir+string(filepath.Separator)) {
		return "~" + path[len(homeDir):]
	}
	return path
}

// ConfigDir returns the tidyup configuration directory.
func ConfigDir() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", xdg.ConfigHome), AppDirName)
}

// ConfigFile returns the configuration file path, honoring TIDYUP_CONFIG.
func ConfigFile() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return ExpandHome(p)
	}
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the tidyup state directory (logs, journal).
func StateDir() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", xdg.StateHome), AppDirName)
}

// LogFilePath returns the log file path.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// JournalPath returns the default action journal path.
func JournalPath() string {
	return filepath.Join(StateDir(), JournalFileName)
}

// TrashDir returns the home trash directory ($XDG_DATA_HOME/Trash).
func TrashDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", xdg.DataHome), TrashDirName)
}

// xdgDir prefers the live environment so overrides made after process start
// (tests, wrappers) are respected; adrg/xdg resolves the platform default.
func xdgDir(env, fallback string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	return fallback
}
