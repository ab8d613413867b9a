//go:build gocv

package camera

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"gocv.io/x/gocv"
)

// WebcamSource reads frames from a video capture device through OpenCV.
type WebcamSource struct {
	device int

	mu  sync.Mutex
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// NewWebcamSource returns a webcam backend for the given device index.
func NewWebcamSource(device int) (*WebcamSource, error) {
	return &WebcamSource{device: device}, nil
}

func (w *WebcamSource) Name() string { return fmt.Sprintf("webcam:%d", w.device) }

func (w *WebcamSource) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cap != nil {
		return nil
	}
	vc, err := gocv.OpenVideoCapture(w.device)
	if err != nil {
		return err
	}
	if !vc.IsOpened() {
		vc.Close()
		return errors.New("webcam: device not opened")
	}
	w.cap = vc
	w.mat = gocv.NewMat()
	return nil
}

func (w *WebcamSource) Grab() (*image.RGBA, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cap == nil {
		return nil, ErrNotRunning
	}
	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return nil, errors.New("webcam: empty frame")
	}
	img, err := w.mat.ToImage()
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

func (w *WebcamSource) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cap == nil {
		return nil
	}
	w.mat.Close()
	err := w.cap.Close()
	w.cap = nil
	return err
}
