// Package testutil provides utilities for testing tidyup components.
//
// Key components:
//   - TestEnvironment: isolated HOME and XDG directories over either an
//     in-memory or a real temporary filesystem
//   - FileTree: declarative setup of files, directories and file ages
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated only when the code under test
//     opens the real filesystem (CLI commands, extended attributes)
//   - Define test data inline, not in external files
package testutil
