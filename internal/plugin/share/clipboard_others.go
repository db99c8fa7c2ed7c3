//go:build !windows

package share

// writeFileList is only implemented on Windows; callers fall back to text.
func writeFileList(paths []string) error {
	return errFileListUnsupported
}
