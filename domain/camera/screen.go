package camera

import (
	"fmt"
	"image"
	"sync"

	"github.com/vova616/screenshot"
)

// ScreenSource grabs the desktop as a stand-in viewfinder. An optional
// region limits the grab to part of the screen.
type ScreenSource struct {
	mu     sync.Mutex
	region func() *image.Rectangle
	bounds image.Rectangle
}

// NewScreenSource returns a screen backend. region may be nil.
func NewScreenSource(region func() *image.Rectangle) *ScreenSource {
	return &ScreenSource{region: region}
}

func (s *ScreenSource) Name() string { return "screen" }

// SetRegion replaces the region provider.
func (s *ScreenSource) SetRegion(fn func() *image.Rectangle) {
	s.mu.Lock()
	s.region = fn
	s.mu.Unlock()
}

func (s *ScreenSource) Open() error {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return err
	}
	if r.Empty() {
		return fmt.Errorf("screen: empty bounds %v", r)
	}
	s.mu.Lock()
	s.bounds = r
	s.mu.Unlock()
	return nil
}

func (s *ScreenSource) Grab() (*image.RGBA, error) {
	s.mu.Lock()
	fn, bounds := s.region, s.bounds
	s.mu.Unlock()
	if fn != nil {
		if r := fn(); r != nil && !r.Empty() {
			sel := r.Intersect(bounds)
			if sel.Empty() {
				return nil, fmt.Errorf("screen: region out of bounds region=%v screen=%v", *r, bounds)
			}
			return screenshot.CaptureRect(sel)
		}
	}
	return screenshot.CaptureScreen()
}

func (s *ScreenSource) Close() error { return nil }
