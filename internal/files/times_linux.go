//go:build linux

package files

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// createdAt prefers the birth time reported by statx, then the inode change
// time. path is empty when the entry does not live on the OS filesystem.
func createdAt(path string, info os.FileInfo) time.Time {
	if path != "" {
		var stx unix.Statx_t
		err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
		if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
			return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Unix())
	}
	return info.ModTime()
}
