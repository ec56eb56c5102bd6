//go:build !linux

package filesystem

import "github.com/arthur-debert/tidyup/pkg/errors"

// SourceURLs is unsupported on this platform and always returns nil.
func SourceURLs(string) []string {
	return nil
}

// SetSourceURL is unsupported on this platform.
func SetSourceURL(path, _ string) error {
	return errors.New(errors.ErrNotImplemented, "provenance attributes are not supported on this platform").
		WithDetail("path", path)
}
