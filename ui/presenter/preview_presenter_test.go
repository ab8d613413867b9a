package presenter

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/plant-cam-go/domain/camera"
	"github.com/soocke/plant-cam-go/domain/capture"
)

type stubFrames struct {
	running atomic.Bool
	seq     atomic.Uint64
}

func (s *stubFrames) Running() bool { return s.running.Load() }
func (s *stubFrames) LatestFrame() camera.FrameSnapshot {
	return camera.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 400, 300)), Sequence: s.seq.Load(), CapturedAt: time.Now()}
}

type stubPreviewView struct {
	mu      sync.Mutex
	frames  int
	reviews [][]byte
	resets  int
}

func (v *stubPreviewView) UpdatePreview(png []byte) { v.mu.Lock(); v.frames++; v.mu.Unlock() }
func (v *stubPreviewView) ShowReviewImage(png []byte) {
	v.mu.Lock()
	v.reviews = append(v.reviews, png)
	v.mu.Unlock()
}
func (v *stubPreviewView) ResetPreview() { v.mu.Lock(); v.resets++; v.mu.Unlock() }

type stubLoader struct{}

func (stubLoader) Load(path string, w, h int) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no path")
	}
	return []byte(path), nil
}

// pump calls ProcessFrame until cond holds.
func pump(t *testing.T, p *PreviewPresenter, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.ProcessFrame()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached")
}

func TestPreviewPresenter_RendersLiveFrames(t *testing.T) {
	src := &stubFrames{}
	src.running.Store(true)
	src.seq.Store(1)
	var enabled atomic.Bool
	enabled.Store(true)
	v := &stubPreviewView{}
	p := NewPreviewPresenter(enabled.Load, src, v, stubLoader{}, 200, 150, nil)
	pump(t, p, func() bool { v.mu.Lock(); defer v.mu.Unlock(); return v.frames >= 1 })

	enabled.Store(false)
	p.ProcessFrame()
	if v.resets != 1 {
		t.Fatalf("disabling must reset the preview once, got %d", v.resets)
	}
	p.ProcessFrame()
	if v.resets != 1 {
		t.Fatalf("reset must not repeat")
	}
}

func TestPreviewPresenter_ReviewDropsStaleResults(t *testing.T) {
	src := &stubFrames{}
	v := &stubPreviewView{}
	p := NewPreviewPresenter(func() bool { return false }, src, v, stubLoader{}, 200, 150, nil)
	p.ShowReview(capture.Photo{ID: "old", Path: "/tmp/old.jpg"})
	p.ShowReview(capture.Photo{ID: "new", Path: "/tmp/new.jpg"})
	pump(t, p, func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		for _, r := range v.reviews {
			if string(r) == "/tmp/new.jpg" {
				return true
			}
		}
		return false
	})
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.reviews {
		if string(r) == "/tmp/old.jpg" {
			t.Fatalf("stale review image shown")
		}
	}
}

func TestPreviewPresenter_CloseStopsWorker(t *testing.T) {
	src := &stubFrames{}
	src.running.Store(true)
	src.seq.Store(1)
	v := &stubPreviewView{}
	p := NewPreviewPresenter(func() bool { return true }, src, v, stubLoader{}, 200, 150, nil)
	pump(t, p, func() bool { v.mu.Lock(); defer v.mu.Unlock(); return v.frames >= 1 })

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatalf("close did not wait for the worker to exit")
	}
	p.Close()

	p.ShowReview(capture.Photo{ID: "late", Path: "/tmp/late.jpg"})
	time.Sleep(20 * time.Millisecond)
	p.ProcessFrame()
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.reviews) != 0 {
		t.Fatalf("closed presenter must not render, got %d review images", len(v.reviews))
	}
}

func TestPreviewPresenter_CloseWithoutWorker(t *testing.T) {
	p := NewPreviewPresenter(func() bool { return false }, &stubFrames{}, &stubPreviewView{}, stubLoader{}, 10, 10, nil)
	p.Close()
	p.ShowReview(capture.Photo{ID: "x", Path: "/tmp/x.jpg"})
	p.Close()
}
