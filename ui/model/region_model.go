package model

import (
	"image"
	"sync"
)

// RegionModel holds the screen rectangle used as viewfinder by the screen
// camera backend. The zero value means full screen and is usable. Read
// from the camera goroutine, so access is locked.
type RegionModel struct {
	mu     sync.RWMutex
	region image.Rectangle
}

func NewRegionModel(r image.Rectangle) *RegionModel {
	m := &RegionModel{}
	m.Set(r)
	return m
}

// Set stores r. Empty or degenerate rectangles clear the region.
func (m *RegionModel) Set(r image.Rectangle) {
	if m == nil {
		return
	}
	if r.Empty() {
		r = image.Rectangle{}
	}
	m.mu.Lock()
	m.region = r
	m.mu.Unlock()
}

// Region returns the current rectangle (may be empty).
func (m *RegionModel) Region() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.region
}

// Provider returns the region in the form the screen backend polls, nil
// when unset.
func (m *RegionModel) Provider() *image.Rectangle {
	r := m.Region()
	if r.Empty() {
		return nil
	}
	return &r
}
