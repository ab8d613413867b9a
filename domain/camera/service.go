package camera

import (
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const statsLogInterval = 5 * time.Second

// Service runs the viewfinder loop over a Source and exposes the latest
// frame alongside instrumentation data.
type Service struct {
	src      Source
	logger   *slog.Logger
	interval time.Duration

	mu   sync.Mutex // guards start/stop
	stop chan struct{}
	done chan struct{}

	running    atomic.Bool
	latest     atomic.Pointer[FrameSnapshot]
	frames     atomic.Uint64
	skipped    atomic.Uint64
	photos     atomic.Uint64
	grabNanos  atomic.Uint64
	sequence   atomic.Uint64
	lastErrLog atomic.Int64
}

// NewService constructs a stopped frame service. interval is the pause
// between grabs; zero selects roughly 30 frames per second.
func NewService(logger *slog.Logger, src Source, interval time.Duration) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &Service{src: src, logger: logger, interval: interval}
}

// Start opens the source and launches the frame loop. Starting a running
// service is a no-op. A loop that died on a panic is released first.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return nil
	}
	if s.done != nil {
		if err := s.stopLocked(); err != nil {
			s.logger.Warn("camera release after panic", "source", s.src.Name(), "error", err)
		}
	}
	if s.src == nil {
		return ErrNoDevice
	}
	if err := s.src.Open(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNoDevice, s.src.Name(), err)
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.loop(s.stop, s.done)
	s.logger.Info("camera started", "source", s.src.Name())
	return nil
}

// Stop ends the frame loop, waits for it to exit and releases the source.
// The source is released even when the loop already exited on a panic.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Service) stopLocked() error {
	if s.done == nil {
		return nil
	}
	s.running.Store(false)
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
	s.latest.Store(nil)
	s.logger.Info("camera stopped", "source", s.src.Name())
	return s.src.Close()
}

func (s *Service) Running() bool { return s.running.Load() }

func (s *Service) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *Service) Stats() Stats {
	frames := s.frames.Load()
	total := s.grabNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if frames > 0 && total > 0 {
		avg = time.Duration(total / frames)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return Stats{
		Frames:         frames,
		Skipped:        s.skipped.Load(),
		Photos:         s.photos.Load(),
		AvgGrab:        avg,
		AvgGrabMicros:  avgMicros,
		LastFrame:      snapshot.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snapshot.Sequence,
	}
}

func (s *Service) loop(stop <-chan struct{}, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.running.Store(false)
			s.logger.Error("camera loop panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	pause := time.NewTimer(s.interval)
	defer pause.Stop()
	for s.running.Load() {
		start := time.Now()
		img, err := s.src.Grab()
		if err != nil || img == nil {
			s.skipped.Add(1)
			s.logGrabError(err)
		} else {
			s.store(img, time.Since(start))
		}

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}
		pause.Reset(s.interval)
		select {
		case <-stop:
			return
		case <-pause.C:
		}
	}
}

func (s *Service) store(img *image.RGBA, elapsed time.Duration) {
	s.grabNanos.Add(uint64(elapsed.Nanoseconds()))
	s.frames.Add(1)
	seq := s.sequence.Add(1)
	s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})
}

// logGrabError rate limits grab failures to one line per stats interval.
func (s *Service) logGrabError(err error) {
	if err == nil {
		return
	}
	now := time.Now().UnixNano()
	last := s.lastErrLog.Load()
	if now-last < int64(statsLogInterval) || !s.lastErrLog.CompareAndSwap(last, now) {
		return
	}
	s.logger.Error("camera grab", "source", s.src.Name(), "error", err)
}

func (s *Service) logStats() {
	stats := s.Stats()
	s.logger.Debug("camera.stats",
		"frames", stats.Frames,
		"skipped", stats.Skipped,
		"photos", stats.Photos,
		"avg_grab", stats.AvgGrab,
		"age", stats.LatestFrameAge,
	)
}
