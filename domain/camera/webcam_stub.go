//go:build !gocv

package camera

import (
	"errors"
	"image"
)

// WebcamSource is unavailable without the gocv build tag.
type WebcamSource struct{}

// NewWebcamSource reports that the binary was built without OpenCV support.
func NewWebcamSource(device int) (*WebcamSource, error) {
	return nil, errors.New("webcam: gocv build tag is not enabled")
}

func (w *WebcamSource) Name() string               { return "webcam" }
func (w *WebcamSource) Open() error                { return ErrNoDevice }
func (w *WebcamSource) Grab() (*image.RGBA, error) { return nil, ErrNotRunning }
func (w *WebcamSource) Close() error               { return nil }
