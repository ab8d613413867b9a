package camera

import (
	"errors"
	"image"
)

var (
	// ErrNoDevice is returned when no camera backend can be opened.
	ErrNoDevice = errors.New("camera not found")
	// ErrNotRunning is returned by TakePhoto while the viewfinder is stopped.
	ErrNotRunning = errors.New("camera not active")
)

// Source is a camera backend producing RGBA frames.
type Source interface {
	Name() string
	Open() error
	Grab() (*image.RGBA, error)
	Close() error
}

// FrameSource provides read-only access to viewfinder frames.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}
