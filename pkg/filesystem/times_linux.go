//go:build linux

package filesystem

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// fileTimes returns access and creation times. Creation is the statx birth
// time when the filesystem records one, else the inode change time.
func fileTimes(path string, info fs.FileInfo) (accessed, created time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}

	var stx unix.Statx_t
	mask := unix.STATX_ATIME | unix.STATX_CTIME | unix.STATX_BTIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, mask, &stx); err == nil {
		accessed = statxTime(stx.Atime)
		if stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec != 0 {
			created = statxTime(stx.Btime)
		} else {
			created = statxTime(stx.Ctime)
		}
		return accessed, created
	}

	return time.Unix(st.Atim.Unix()), time.Unix(st.Ctim.Unix())
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}
