package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Controller owns the camera screen interaction: permission-gated camera
// activation, capture, flash cycling and the review/confirm/retake flow.
//
// All state is owned by a single event loop goroutine. Public methods only
// enqueue events, so they never block the caller on device or dialog I/O.
// Collaborator calls run on their own goroutines and post their result back
// into the loop.
type Controller struct {
	logger *slog.Logger
	deps   Collaborators
	opts   Options

	// loop-owned
	state          State
	permission     Permission
	flash          FlashMode
	photo          *Photo
	focused        bool
	active         bool
	activateFailed bool
	asking         bool
	busyOp         Op
	epoch          int // bumped by Reset; stale results are dropped
	listeners      []StateListener
	changes        []ChangeListener
	errListeners   []ErrorListener

	mu   sync.RWMutex
	snap Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	events chan any
	done   chan struct{}
}

// NewController constructs a controller and starts its event loop.
// A nil Permission collaborator means the host grants camera access implicitly.
func NewController(logger *slog.Logger, deps Collaborators, opts Options) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	perm := PermissionGranted
	if deps.Permission != nil {
		perm = deps.Permission.Status()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		logger:     logger,
		deps:       deps,
		opts:       opts,
		state:      StateAwaitingPermission,
		permission: perm,
		flash:      opts.InitialFlash,
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan any, 64),
		done:       make(chan struct{}),
	}
	c.snap = c.snapshot()
	go func() {
		defer close(c.done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("capture controller panic", "error", r, "stack", string(debug.Stack()))
			}
		}()
		c.loop()
	}()
	return c
}

// events
type (
	evtFocus             struct{}
	evtBlur              struct{}
	evtRequestPermission struct{}
	evtCapture           struct{}
	evtToggleFlash       struct{}
	evtGallery           struct{}
	evtConfirm           struct{}
	evtRetake            struct{}
	evtReset             struct{}
	evtSync              struct{ done chan struct{} }
	evtAddListener       struct{ l StateListener }
	evtAddChangeListener struct{ l ChangeListener }
	evtAddErrorListener  struct{ l ErrorListener }
	evtDone              struct {
		op    Op
		epoch int
		photo Photo
		perm  Permission
		size  int
		err   error
	}
)

func (c *Controller) loop() {
	defer c.shutdown()
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

func (c *Controller) handle(ev any) {
	prev := c.state
	switch e := ev.(type) {
	case evtFocus:
		c.focused = true
		c.activateFailed = false
		if c.permission == PermissionUnknown {
			c.askPermission()
		}
	case evtBlur:
		c.focused = false
	case evtRequestPermission:
		c.activateFailed = false
		if c.permission != PermissionGranted {
			c.askPermission()
		}
	case evtCapture:
		c.startCapture()
	case evtToggleFlash:
		if c.state == StateReviewing {
			c.reject(OpFlash, ErrInvalidState)
			break
		}
		c.flash = c.flash.Next()
		c.logger.Debug("flash mode changed", "mode", c.flash.String())
	case evtGallery:
		c.startGallery()
	case evtConfirm:
		c.startConfirm()
	case evtRetake:
		if c.state != StateReviewing {
			c.reject(OpRetake, ErrInvalidState)
			break
		}
		c.logger.Debug("photo dismissed", "id", c.photo.ID)
		c.photo = nil
	case evtReset:
		c.epoch++
		c.photo = nil
		c.focused = false
		c.busyOp = OpNone
		c.flash = c.opts.InitialFlash
		c.logger.Debug("camera screen reset")
	case evtDone:
		c.finish(e)
	case evtAddListener:
		c.listeners = append(c.listeners, e.l)
	case evtAddChangeListener:
		c.changes = append(c.changes, e.l)
		e.l(c.snapshot())
	case evtAddErrorListener:
		c.errListeners = append(c.errListeners, e.l)
	case evtSync:
		defer close(e.done)
	}
	c.reconcile(prev)
}

// reconcile derives the state and camera activation from the owned facts,
// publishes the snapshot and notifies transition listeners.
func (c *Controller) reconcile(prev State) {
	next := c.state
	switch {
	case c.photo != nil:
		next = StateReviewing
	case c.permission != PermissionGranted:
		next = StateAwaitingPermission
	case c.state == StateReviewing:
		next = StateLivePreview
	case c.state == StateAwaitingPermission && c.focused:
		next = StateLivePreview
	}
	c.state = next
	c.setActive(c.photo == nil && c.focused && c.permission == PermissionGranted)
	c.publish()
	if prev == next {
		return
	}
	c.logger.Debug("capture state transition", "from", prev.String(), "to", next.String())
	for _, l := range c.listeners {
		l(prev, next)
	}
}

func (c *Controller) setActive(want bool) {
	if want == c.active || (want && c.activateFailed) {
		return
	}
	if c.deps.Camera == nil {
		c.activateFailed = true
		c.fail(OpActivate, ErrNoCamera, "")
		return
	}
	if err := c.deps.Camera.SetActive(want); err != nil {
		if want {
			c.activateFailed = true
			c.fail(OpActivate, fmt.Errorf("%w: %w", ErrNoCamera, err), "")
			return
		}
		c.logger.Warn("camera release failed", "error", err)
	}
	c.active = want
	c.logger.Debug("camera activation", "active", want)
}

func (c *Controller) askPermission() {
	if c.asking {
		return
	}
	if c.deps.Permission == nil {
		c.permission = PermissionGranted
		return
	}
	c.asking = true
	prov := c.deps.Permission
	c.async(OpPermission, c.opts.PermissionTimeout, func(ctx context.Context) evtDone {
		p, err := prov.Request(ctx)
		return evtDone{perm: p, err: err}
	})
}

func (c *Controller) startCapture() {
	if c.state != StateLivePreview || !c.active {
		c.reject(OpCapture, ErrInvalidState)
		return
	}
	if c.busyOp != OpNone {
		c.reject(OpCapture, ErrBusy)
		return
	}
	c.busyOp = OpCapture
	cam, flash := c.deps.Camera, c.flash
	c.async(OpCapture, c.opts.CaptureTimeout, func(ctx context.Context) evtDone {
		p, err := cam.TakePhoto(ctx, flash)
		return evtDone{photo: p, err: err}
	})
}

func (c *Controller) startGallery() {
	if c.state != StateLivePreview {
		c.reject(OpGallery, ErrInvalidState)
		return
	}
	if c.busyOp != OpNone {
		c.reject(OpGallery, ErrBusy)
		return
	}
	if c.deps.Picker == nil {
		c.fail(OpGallery, fmt.Errorf("%w: no media picker", ErrPickerFailed), "")
		return
	}
	c.busyOp = OpGallery
	picker, opts := c.deps.Picker, c.opts.Pick
	c.async(OpGallery, c.opts.PickerTimeout, func(ctx context.Context) evtDone {
		p, err := picker.PickImage(ctx, opts)
		return evtDone{photo: p, err: err}
	})
}

func (c *Controller) startConfirm() {
	if c.state != StateReviewing || c.photo == nil {
		c.reject(OpConfirm, ErrInvalidState)
		return
	}
	if c.busyOp != OpNone {
		c.reject(OpConfirm, ErrBusy)
		return
	}
	if c.deps.Reader == nil || c.deps.Uploader == nil {
		c.fail(OpConfirm, fmt.Errorf("%w: no uploader", ErrUploadFailed), "Failed to upload photo.")
		return
	}
	c.busyOp = OpConfirm
	p := *c.photo
	reader, up := c.deps.Reader, c.deps.Uploader
	c.async(OpConfirm, c.opts.UploadTimeout, func(ctx context.Context) evtDone {
		data, err := reader.ReadPhoto(ctx, p)
		if err != nil {
			return evtDone{photo: p, err: fmt.Errorf("read photo: %w", err)}
		}
		if err := up.Upload(ctx, p, data); err != nil {
			return evtDone{photo: p, err: err}
		}
		return evtDone{photo: p, size: len(data)}
	})
}

func (c *Controller) finish(e evtDone) {
	if e.epoch != c.epoch && e.op != OpPermission {
		c.logger.Debug("stale result dropped", "op", e.op.String(), "error", e.err)
		return
	}
	switch e.op {
	case OpPermission:
		c.asking = false
		if e.err != nil {
			c.permission = PermissionDenied
			c.fail(OpPermission, fmt.Errorf("%w: %w", ErrPermissionDenied, e.err), "Camera permission denied.")
			return
		}
		c.permission = e.perm
		c.logger.Info("camera permission resolved", "permission", e.perm.String())
		if e.perm == PermissionDenied {
			c.fail(OpPermission, ErrPermissionDenied, "Camera permission denied.")
		}
	case OpCapture:
		c.busyOp = OpNone
		if e.err == nil && e.photo.Path == "" {
			e.err = errors.New("camera returned no photo path")
		}
		if e.err != nil {
			c.fail(OpCapture, fmt.Errorf("%w: %w", ErrCaptureFailed, e.err), "Failed to take photo.")
			return
		}
		c.accept(e.photo, SourceCamera)
	case OpGallery:
		c.busyOp = OpNone
		switch {
		case errors.Is(e.err, ErrPickerCancelled):
			c.logger.Debug("gallery selection cancelled")
		case e.err != nil:
			err := e.err
			if !errors.Is(err, ErrPickerFailed) {
				err = fmt.Errorf("%w: %w", ErrPickerFailed, err)
			}
			c.fail(OpGallery, err, "")
		case e.photo.Path == "":
			c.fail(OpGallery, fmt.Errorf("%w: empty asset path", ErrPickerFailed), "")
		default:
			c.accept(e.photo, SourceGallery)
		}
	case OpConfirm:
		c.busyOp = OpNone
		if e.err != nil {
			err := e.err
			if !errors.Is(err, ErrUploadFailed) {
				err = fmt.Errorf("%w: %w", ErrUploadFailed, err)
			}
			c.fail(OpConfirm, err, "Failed to upload photo.")
			return
		}
		c.logger.Info("photo confirmed", "id", e.photo.ID, "path", e.photo.Path, "bytes", e.size)
	}
}

func (c *Controller) accept(p Photo, src Source) {
	if c.state != StateLivePreview {
		c.logger.Info("photo discarded, screen left live preview", "path", p.Path, "state", c.state.String())
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TakenAt.IsZero() {
		p.TakenAt = time.Now()
	}
	p.Source = src
	c.photo = &p
	c.logger.Info("photo ready for review", "id", p.ID, "path", p.Path, "source", src.String())
}

// async runs fn on its own goroutine bounded by timeout (zero means none) and
// posts the result back to the loop. A collaborator ignoring ctx cannot
// stall the controller past the deadline; its late result is dropped.
func (c *Controller) async(op Op, timeout time.Duration, fn func(ctx context.Context) evtDone) {
	epoch := c.epoch
	ctx, cancel := c.ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, timeout)
	}
	go func() {
		defer cancel()
		res := make(chan evtDone, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("collaborator panic", "op", op.String(), "error", r, "stack", string(debug.Stack()))
					res <- evtDone{err: fmt.Errorf("panic: %v", r)}
				}
			}()
			res <- fn(ctx)
		}()
		var out evtDone
		select {
		case out = <-res:
		case <-ctx.Done():
			out = evtDone{err: ctx.Err()}
		}
		out.op, out.epoch = op, epoch
		c.post(out)
	}()
}

func (c *Controller) fail(op Op, err error, alert string) {
	c.logger.Warn("capture operation failed", "op", op.String(), "error", err)
	if alert != "" && c.deps.Notifier != nil {
		c.deps.Notifier.Alert("Error", alert)
	}
	for _, l := range c.errListeners {
		l(op, err)
	}
}

func (c *Controller) reject(op Op, err error) {
	c.logger.Debug("capture operation rejected", "op", op.String(), "state", c.state.String(), "error", err)
	for _, l := range c.errListeners {
		l(op, err)
	}
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		State:      c.state,
		Permission: c.permission,
		Flash:      c.flash,
		Photo:      c.photo,
		Focused:    c.focused,
		Active:     c.active,
		Busy:       c.busyOp != OpNone,
		BusyOp:     c.busyOp,
	}
}

func (c *Controller) publish() {
	s := c.snapshot()
	c.mu.Lock()
	changed := s != c.snap
	c.snap = s
	c.mu.Unlock()
	if !changed {
		return
	}
	for _, l := range c.changes {
		l(s)
	}
}

func (c *Controller) shutdown() {
	if c.active && c.deps.Camera != nil {
		if err := c.deps.Camera.SetActive(false); err != nil {
			c.logger.Warn("camera release failed", "error", err)
		}
	}
	c.active = false
	c.mu.Lock()
	c.snap = c.snapshot()
	c.mu.Unlock()
}

func (c *Controller) post(ev any) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

// Public API implements Handlers.
func (c *Controller) Focus()                             { c.post(evtFocus{}) }
func (c *Controller) Blur()                              { c.post(evtBlur{}) }
func (c *Controller) RequestPermission()                 { c.post(evtRequestPermission{}) }
func (c *Controller) RequestCapture()                    { c.post(evtCapture{}) }
func (c *Controller) ToggleFlash()                       { c.post(evtToggleFlash{}) }
func (c *Controller) SelectFromGallery()                 { c.post(evtGallery{}) }
func (c *Controller) ConfirmPhoto()                      { c.post(evtConfirm{}) }
func (c *Controller) Retake()                            { c.post(evtRetake{}) }
func (c *Controller) DismissReview()                     { c.post(evtRetake{}) }
func (c *Controller) AddListener(l StateListener)        { c.post(evtAddListener{l: l}) }
func (c *Controller) AddChangeListener(l ChangeListener) { c.post(evtAddChangeListener{l: l}) }
func (c *Controller) AddErrorListener(l ErrorListener)   { c.post(evtAddErrorListener{l: l}) }

// Reset ends the current screen instance: the photo is dropped, flash
// returns to its initial mode and results of calls in flight are ignored.
// The screen must Focus again to reactivate the camera.
func (c *Controller) Reset() { c.post(evtReset{}) }

// Snapshot returns the most recently published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Current returns the current interaction state.
func (c *Controller) Current() State { return c.Snapshot().State }

// Sync blocks until every event posted before the call has been handled.
// Results of collaborator calls still in flight are not awaited.
func (c *Controller) Sync() {
	done := make(chan struct{})
	c.post(evtSync{done: done})
	select {
	case <-done:
	case <-c.done:
	}
}

// Close stops the event loop and releases the camera. Safe to call twice.
func (c *Controller) Close() {
	c.cancel()
	<-c.done
}

// Ensure contract satisfaction
var _ Handlers = (*Controller)(nil)
