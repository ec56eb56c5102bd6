// Package filesystem provides filesystem access for tidyup.
//
// All components operate on an afero.Fs so tests can substitute an in-memory
// filesystem. On top of afero this package adds what afero does not model:
// access and birth timestamps, provenance extended attributes, and a move
// that survives crossing filesystem boundaries.
package filesystem
