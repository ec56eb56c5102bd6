// Package matchers expands glob patterns into the paths that currently exist.
//
// # Pattern Conventions
//
// Patterns follow doublestar syntax:
//
//   - `*` - any run of characters within one path segment (dotfiles included)
//   - `?` - one character within a segment
//   - `[a-z]` - a character class
//   - `**` - zero or more directories (recursive descent)
//   - `{mov,mp4}` - brace alternation, a union of the expanded patterns
//
// A leading `~` expands to the home directory and relative patterns are
// resolved against the matcher's root.
//
// # Results
//
// Match returns one PathRecord per existing path, sorted by path with
// duplicates removed. A base directory that does not exist yields no results
// rather than an error. Directory symlinks are followed during descent unless
// they lead back to a directory already on the current descent path.
package matchers
