//go:build darwin

package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

func fileTimes(_ string, info fs.FileInfo) (accessed, created time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	return time.Unix(st.Atimespec.Unix()), time.Unix(st.Birthtimespec.Unix())
}
