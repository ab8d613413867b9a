//go:build !windows

package platform

// ForegroundWindowTitle is not available on this platform; callers fall
// back to toolkit focus events.
func ForegroundWindowTitle() (string, error) { return "", ErrUnsupported }
