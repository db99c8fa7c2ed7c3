//go:build windows

package share

import (
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procSetClipboardData = user32.NewProc("SetClipboardData")
	procGlobalAlloc      = kernel32.NewProc("GlobalAlloc")
	procGlobalLock       = kernel32.NewProc("GlobalLock")
	procGlobalUnlock     = kernel32.NewProc("GlobalUnlock")
	procGlobalFree       = kernel32.NewProc("GlobalFree")
)

const (
	cfHDrop = 15
	gHnd    = 0x0042 // GMEM_MOVEABLE | GMEM_ZEROINIT
)

// dropFiles mirrors the Win32 DROPFILES header that precedes the path list.
type dropFiles struct {
	pFiles uint32
	x, y   int32
	fNC    int32
	fWide  int32
}

// writeFileList puts the paths on the clipboard as CF_HDROP so that
// Explorer and most applications can paste them as files.
func writeFileList(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	// each path NUL terminated, the list terminated by an extra NUL
	var list []uint16
	for _, p := range paths {
		list = append(list, utf16.Encode([]rune(p))...)
		list = append(list, 0)
	}
	list = append(list, 0)

	header := unsafe.Sizeof(dropFiles{})
	size := header + uintptr(len(list)*2)

	if r, _, _ := procOpenClipboard.Call(0); r == 0 {
		return fmt.Errorf("failed to open clipboard")
	}
	defer procCloseClipboard.Call()
	procEmptyClipboard.Call()

	hMem, _, _ := procGlobalAlloc.Call(gHnd, size)
	if hMem == 0 {
		return fmt.Errorf("failed to allocate clipboard memory")
	}
	ptr, _, _ := procGlobalLock.Call(hMem)
	if ptr == 0 {
		procGlobalFree.Call(hMem)
		return fmt.Errorf("failed to lock clipboard memory")
	}

	df := (*dropFiles)(unsafe.Pointer(ptr))
	df.pFiles = uint32(header)
	df.fWide = 1
	dst := unsafe.Slice((*uint16)(unsafe.Pointer(ptr+header)), len(list))
	copy(dst, list)
	procGlobalUnlock.Call(hMem)

	// on success the system owns hMem
	if r, _, _ := procSetClipboardData.Call(cfHDrop, hMem); r == 0 {
		procGlobalFree.Call(hMem)
		return fmt.Errorf("failed to set clipboard data")
	}
	return nil
}
