package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// DeviceOptions configure where and how stills are written.
type DeviceOptions struct {
	PhotoDir    string
	JPEGQuality int
	Flash       FlashOptions
	FrameWait   time.Duration // max wait for a frame newer than the request
}

// Device is the camera collaborator: a viewfinder frame service plus a
// still writer.
type Device struct {
	svc    *Service
	logger *slog.Logger

	mu   sync.RWMutex
	opts DeviceOptions
}

// NewDevice wraps svc. Zero options fall back to defaults.
func NewDevice(logger *slog.Logger, svc *Service, opts DeviceOptions) *Device {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Device{svc: svc, logger: logger, opts: normalize(opts)}
}

func normalize(opts DeviceOptions) DeviceOptions {
	if opts.PhotoDir == "" {
		opts.PhotoDir = os.TempDir()
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 90
	}
	if opts.Flash == (FlashOptions{}) {
		opts.Flash = DefaultFlashOptions()
	}
	if opts.FrameWait <= 0 {
		opts.FrameWait = 500 * time.Millisecond
	}
	return opts
}

// Configure replaces the still options. Photos in flight keep the old ones.
func (d *Device) Configure(opts DeviceOptions) {
	opts = normalize(opts)
	d.mu.Lock()
	d.opts = opts
	d.mu.Unlock()
	d.logger.Debug("camera options", "dir", opts.PhotoDir, "quality", opts.JPEGQuality, "boost", opts.Flash.Boost)
}

// Options returns the current still options.
func (d *Device) Options() DeviceOptions {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts
}

// SetActive starts or stops the viewfinder. Stopping releases the backend.
func (d *Device) SetActive(active bool) error {
	if active {
		return d.svc.Start()
	}
	return d.svc.Stop()
}

// TakePhoto writes the next viewfinder frame to <PhotoDir>/<uuid>.jpg.
func (d *Device) TakePhoto(ctx context.Context, flash capture.FlashMode) (capture.Photo, error) {
	if !d.svc.Running() {
		return capture.Photo{}, ErrNotRunning
	}
	opts := d.Options()
	frame, err := d.nextFrame(ctx, opts.FrameWait)
	if err != nil {
		return capture.Photo{}, err
	}
	img := ApplyFlash(frame.Image, flash, opts.Flash)
	if err := os.MkdirAll(opts.PhotoDir, 0o755); err != nil {
		return capture.Photo{}, fmt.Errorf("photo dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return capture.Photo{}, err
	}
	id := uuid.NewString()
	path := filepath.Join(opts.PhotoDir, id+".jpg")
	if err := imaging.Save(img, path, imaging.JPEGQuality(opts.JPEGQuality)); err != nil {
		return capture.Photo{}, fmt.Errorf("save photo: %w", err)
	}
	d.svc.photos.Add(1)
	b := img.Bounds()
	var size uint64
	if fi, err := os.Stat(path); err == nil {
		size = uint64(fi.Size())
	}
	d.logger.Info("photo saved",
		"id", id,
		"path", path,
		"flash", flash.String(),
		"size", humanize.Bytes(size),
		"width", b.Dx(),
		"height", b.Dy(),
	)
	return capture.Photo{
		ID:      id,
		Path:    path,
		Source:  capture.SourceCamera,
		Width:   b.Dx(),
		Height:  b.Dy(),
		TakenAt: frame.CapturedAt,
	}, nil
}

// nextFrame waits up to wait for a frame grabbed after the request and
// falls back to the latest one.
func (d *Device) nextFrame(ctx context.Context, wait time.Duration) (FrameSnapshot, error) {
	start := d.svc.LatestFrame()
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for {
		if f := d.svc.LatestFrame(); f.Image != nil && f.Sequence > start.Sequence {
			return f, nil
		}
		select {
		case <-ctx.Done():
			return FrameSnapshot{}, ctx.Err()
		case <-deadline.C:
			if f := d.svc.LatestFrame(); f.Image != nil {
				return f, nil
			}
			return FrameSnapshot{}, fmt.Errorf("no frame within %s", wait)
		case <-tick.C:
		}
	}
}

func (d *Device) LatestFrame() FrameSnapshot { return d.svc.LatestFrame() }
func (d *Device) Running() bool              { return d.svc.Running() }
func (d *Device) Stats() Stats               { return d.svc.Stats() }

// Close stops the viewfinder.
func (d *Device) Close() error { return d.svc.Stop() }

var (
	_ capture.Camera = (*Device)(nil)
	_ FrameSource    = (*Device)(nil)
)
