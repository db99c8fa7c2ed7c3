//go:build darwin

package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

func fileTimes(path string, fi fs.FileInfo) (atime, birthtime time.Time) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime(), fi.ModTime()
	}
	return time.Unix(st.Atimespec.Unix()), time.Unix(st.Birthtimespec.Unix())
}
