package trash

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
)

const (
	infoHeader     = "[Trash Info]"
	infoExt        = ".trashinfo"
	deletionLayout = "2006-01-02T15:04:05"
)

// info is the content of one .trashinfo file
type info struct {
	Path         string
	DeletionDate time.Time
}

func (i info) marshal() []byte {
	escaped := (&url.URL{Path: i.Path}).EscapedPath()
	return []byte(fmt.Sprintf("%s\nPath=%s\nDeletionDate=%s\n",
		infoHeader, escaped, i.DeletionDate.Local().Format(deletionLayout)))
}

func parseInfo(data []byte) (info, error) {
	var out info
	scanner := bufio.NewScanner(bytes.NewReader(data))
	inSection := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "["):
			inSection = line == infoHeader
			continue
		case !inSection:
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "Path":
			p, err := url.PathUnescape(value)
			if err != nil {
				return info{}, errors.Wrapf(err, errors.ErrTrash, "invalid Path %q", value)
			}
			out.Path = p
		case "DeletionDate":
			t, err := time.ParseInLocation(deletionLayout, value, time.Local)
			if err != nil {
				return info{}, errors.Wrapf(err, errors.ErrTrash, "invalid DeletionDate %q", value)
			}
			out.DeletionDate = t
		}
	}
	if out.Path == "" {
		return info{}, errors.New(errors.ErrTrash, "trashinfo has no Path")
	}
	return out, nil
}
