//go:build linux

package filesystem

import (
	"errors"
	"strings"

	"golang.org/x/sys/unix"
)

// Provenance attributes written by Chromium, Firefox and wget --xattr.
var provenanceAttrs = []string{
	"user.xdg.origin.url",
	"user.xdg.referrer.url",
}

// SourceURLs returns the download provenance URLs recorded for path.
// Missing attributes, unsupported filesystems and errors all yield nil.
func SourceURLs(path string) []string {
	var urls []string
	for _, attr := range provenanceAttrs {
		if v, ok := getxattr(path, attr); ok && v != "" {
			urls = append(urls, v)
		}
	}
	return urls
}

// SetSourceURL records an origin URL on path, as a browser would.
func SetSourceURL(path, url string) error {
	return unix.Setxattr(path, provenanceAttrs[0], []byte(url), 0)
}

func getxattr(path, attr string) (string, bool) {
	size, err := unix.Getxattr(path, attr, nil)
	if err != nil || size <= 0 {
		return "", false
	}
	buf := make([]byte, size)
	for {
		n, err := unix.Getxattr(path, attr, buf)
		if errors.Is(err, unix.ERANGE) {
			buf = make([]byte, len(buf)*2)
			continue
		}
		if err != nil {
			return "", false
		}
		return strings.TrimRight(string(buf[:n]), "\x00"), true
	}
}
