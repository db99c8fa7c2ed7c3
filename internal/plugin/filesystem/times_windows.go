//go:build windows

package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

func fileTimes(path string, fi fs.FileInfo) (atime, birthtime time.Time) {
	d, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return fi.ModTime(), fi.ModTime()
	}
	return time.Unix(0, d.LastAccessTime.Nanoseconds()), time.Unix(0, d.CreationTime.Nanoseconds())
}
