// pkg/testutil/environment.go
// DEPENDENCIES: afero
// PURPOSE: Orchestrate test environments with an isolated home

package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// DefaultNow is the reference time of every environment. File ages in a
// FileTree are relative to it.
var DefaultNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// TestEnvironment provides a home directory, XDG directories and the
// filesystem they live on
type TestEnvironment struct {
	HomeDir    string
	ConfigHome string
	DataHome   string
	StateHome  string
	FS         afero.Fs
	Now        time.Time
	Type       EnvType
	t          *testing.T
}

// NewTestEnvironment creates a new test environment and points HOME and the
// XDG variables at it for the duration of the test
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType, Now: DefaultNow}
	switch envType {
	case EnvMemoryOnly:
		env.HomeDir = "/virtual/home"
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		env.HomeDir = filepath.Join(t.TempDir(), "home")
		env.FS = filesystem.NewOS()
	}
	env.ConfigHome = filepath.Join(env.HomeDir, ".config")
	env.DataHome = filepath.Join(env.HomeDir, ".local", "share")
	env.StateHome = filepath.Join(env.HomeDir, ".local", "state")

	if err := env.FS.MkdirAll(env.HomeDir, 0755); err != nil {
		t.Fatalf("Failed to create home directory: %v", err)
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv("XDG_DATA_HOME", env.DataHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	t.Setenv("TIDYUP_CONFIG", "")
	return env
}

// Home joins elements onto the home directory
func (env *TestEnvironment) Home(elem ...string) string {
	return filepath.Join(append([]string{env.HomeDir}, elem...)...)
}

// Clock returns a clock frozen at env.Now
func (env *TestEnvironment) Clock() func() time.Time {
	return func() time.Time { return env.Now }
}

// WithFileTree creates tree under the home directory
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.HomeDir, tree, env.Now)
}

// FileTree represents a directory structure for testing. Values are a
// string (file content), a File, or a nested FileTree (directory).
type FileTree map[string]interface{}

// File is a file whose modification and access times lie Age before the
// environment's reference time
type File struct {
	Content string
	Age     time.Duration
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs afero.Fs, basePath string, tree FileTree, now time.Time) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)
		if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
		}

		switch v := content.(type) {
		case string:
			writeFile(t, fs, fullPath, v, now)
		case File:
			writeFile(t, fs, fullPath, v.Content, now.Add(-v.Age))
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v, now)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	if err := fs.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set times on %s: %v", path, err)
	}
}
