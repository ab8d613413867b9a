package camera

import (
	"image"
	"time"
)

// FrameSnapshot carries the latest viewfinder frame and metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Stats summarises frame loop behaviour for instrumentation.
type Stats struct {
	Frames         uint64
	Skipped        uint64
	Photos         uint64
	AvgGrab        time.Duration
	AvgGrabMicros  float64
	LastFrame      time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}
