//go:build windows

package platform

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procForegroundWnd  = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
	procIsIconic       = user32.NewProc("IsIconic")
)

// ForegroundWindowTitle returns the title of the current foreground window.
// Minimized windows report an empty title.
func ForegroundWindowTitle() (string, error) {
	hwnd, _, _ := procForegroundWnd.Call()
	if hwnd == 0 {
		return "", errors.New("no foreground window")
	}
	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		return "", nil
	}
	const maxChars = 256
	buf := make([]uint16, maxChars)
	r, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return "", nil
	}
	end := int(r)
	for i, v := range buf[:end] {
		if v == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(utf16.Decode(buf[:end]))), nil
}
