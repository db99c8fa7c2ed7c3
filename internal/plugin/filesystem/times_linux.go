//go:build linux

package filesystem

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// fileTimes returns access and birth times. Birth time comes from statx;
// where the kernel or filesystem does not report it, change time stands in.
func fileTimes(path string, fi fs.FileInfo) (atime, birthtime time.Time) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_ATIME|unix.STATX_CTIME|unix.STATX_BTIME, &stx)
	if err == nil {
		atime = statxTime(stx.Atime)
		if stx.Mask&unix.STATX_BTIME != 0 {
			return atime, statxTime(stx.Btime)
		}
		return atime, statxTime(stx.Ctime)
	}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime(), fi.ModTime()
	}
	return time.Unix(st.Atim.Unix()), time.Unix(st.Ctim.Unix())
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}
