package model

import (
	"sync/atomic"
)

// CameraModel mirrors whether the camera viewfinder is live. The zero value
// is inactive and usable. Written by the camera presenter, read by the
// session and preview presenters.
type CameraModel struct {
	active    atomic.Bool
	reviewing atomic.Bool
}

// Active reports whether the viewfinder is running.
func (m *CameraModel) Active() bool {
	if m == nil {
		return false
	}
	return m.active.Load()
}

func (m *CameraModel) SetActive(b bool) {
	if m == nil {
		return
	}
	m.active.Store(b)
}

// Reviewing reports whether a photo is pending review.
func (m *CameraModel) Reviewing() bool {
	if m == nil {
		return false
	}
	return m.reviewing.Load()
}

func (m *CameraModel) SetReviewing(b bool) {
	if m == nil {
		return
	}
	m.reviewing.Store(b)
}
