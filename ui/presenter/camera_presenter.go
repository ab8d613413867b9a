package presenter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// CameraControls narrows the controller to the actions the screen triggers.
type CameraControls interface {
	capture.PreviewActions
	capture.ReviewActions
}

// BackNavigator pops the current screen.
type BackNavigator interface{ GoBack() bool }

// CameraStateModel receives the mirrored activation flags.
type CameraStateModel interface {
	SetActive(bool)
	SetReviewing(bool)
}

// CameraView is the camera screen surface driven by the presenter.
type CameraView interface {
	SetReviewMode(review bool)
	SetFlashLabel(text string)
	SetCaptureEnabled(enabled bool)
	SetControlsEnabled(enabled bool)
	SetConfirmEnabled(enabled bool)
	SetNotice(text string, retry bool) // empty text hides the notice
	SetStatus(text string)
}

// CameraPresenter reflects controller snapshots on the camera screen and
// forwards button presses to the controller. Snapshots arrive on the
// controller goroutine and are flushed on Tick from the UI thread.
type CameraPresenter struct {
	ctrl   CameraControls
	nav    BackNavigator
	model  CameraStateModel
	view   CameraView
	logger *slog.Logger

	// OnReview is called on the UI thread when a new photo enters review.
	OnReview func(capture.Photo)

	mu       sync.Mutex
	pending  *capture.Snapshot
	message  string
	noCamera bool

	shown     capture.Snapshot
	hasShown  bool
	reviewID  string
	lastNote  string
	lastState string
}

func NewCameraPresenter(ctrl CameraControls, nav BackNavigator, model CameraStateModel, view CameraView, logger *slog.Logger) *CameraPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CameraPresenter{ctrl: ctrl, nav: nav, model: model, view: view, logger: logger}
}

// OnChange queues a snapshot from the controller change listener.
func (p *CameraPresenter) OnChange(s capture.Snapshot) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = &s
	if s.Active {
		p.noCamera = false
	}
	p.mu.Unlock()
}

// OnError queues a status message for reported failures. Alerts for the
// user-visible kinds are raised by the controller's notifier.
func (p *CameraPresenter) OnError(op capture.Op, err error) {
	if p == nil || err == nil {
		return
	}
	msg := ""
	switch {
	case errors.Is(err, capture.ErrNoCamera):
		p.mu.Lock()
		p.noCamera = true
		p.pending = p.pendingOrShown()
		p.mu.Unlock()
		return
	case errors.Is(err, capture.ErrBusy):
		msg = "Please wait…"
	case errors.Is(err, capture.ErrPickerFailed):
		msg = "Could not open that image."
	case errors.Is(err, capture.ErrCaptureFailed):
		msg = "Photo failed, try again."
	case errors.Is(err, capture.ErrUploadFailed):
		msg = "Upload failed."
	case errors.Is(err, capture.ErrInvalidState):
		return
	}
	if msg == "" {
		return
	}
	p.mu.Lock()
	p.message = msg
	p.pending = p.pendingOrShown()
	p.mu.Unlock()
}

// Redraw forces a full refresh on the next Tick. Call it on the UI thread
// after the camera screen widgets were rebuilt.
func (p *CameraPresenter) Redraw() {
	if p == nil {
		return
	}
	p.hasShown = false
	p.reviewID = ""
	p.mu.Lock()
	p.pending = p.pendingOrShown()
	p.mu.Unlock()
}

func (p *CameraPresenter) pendingOrShown() *capture.Snapshot {
	if p.pending != nil {
		return p.pending
	}
	s := p.shown
	return &s
}

// Tick flushes the latest queued snapshot to the view.
func (p *CameraPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	msg := p.message
	noCamera := p.noCamera
	p.mu.Unlock()
	if s == nil {
		return
	}
	p.apply(*s, msg, noCamera)
}

func (p *CameraPresenter) apply(s capture.Snapshot, msg string, noCamera bool) {
	review := s.State == capture.StateReviewing
	if !p.hasShown || review != (p.shown.State == capture.StateReviewing) {
		p.view.SetReviewMode(review)
	}
	p.view.SetFlashLabel("Flash: " + s.Flash.String())
	p.view.SetCaptureEnabled(s.CanCapture())
	p.view.SetControlsEnabled(s.Permission == capture.PermissionGranted && !s.Busy)
	p.view.SetConfirmEnabled(!s.Busy)

	note, retry := notice(s, noCamera)
	if note != p.lastNote || !p.hasShown {
		p.view.SetNotice(note, retry)
		p.lastNote = note
	}
	status := statusText(s, msg)
	if status != p.lastState || !p.hasShown {
		p.view.SetStatus(status)
		p.lastState = status
	}
	if p.model != nil {
		p.model.SetActive(s.Active)
		p.model.SetReviewing(review)
	}
	if review && s.Photo != nil && s.Photo.ID != p.reviewID {
		p.reviewID = s.Photo.ID
		if p.OnReview != nil {
			p.OnReview(*s.Photo)
		}
	}
	if !review {
		p.reviewID = ""
	}
	p.mu.Lock()
	p.shown = s
	p.mu.Unlock()
	p.hasShown = true
}

func notice(s capture.Snapshot, noCamera bool) (string, bool) {
	switch {
	case s.Permission == capture.PermissionDenied:
		return "Camera permission denied", true
	case s.State == capture.StateAwaitingPermission && s.Permission == capture.PermissionUnknown && s.Focused:
		return "Waiting for camera permission…", false
	case noCamera && s.State == capture.StateLivePreview && !s.Active:
		return "Camera not found", true
	}
	return "", false
}

func statusText(s capture.Snapshot, msg string) string {
	if s.Busy {
		switch s.BusyOp {
		case capture.OpCapture:
			return "Taking photo…"
		case capture.OpGallery:
			return "Choosing from gallery…"
		case capture.OpConfirm:
			return "Sending photo…"
		}
	}
	if s.State == capture.StateReviewing && s.Photo != nil {
		if s.Photo.Width > 0 {
			return fmt.Sprintf("%s photo %dx%d", s.Photo.Source, s.Photo.Width, s.Photo.Height)
		}
		return s.Photo.Source.String() + " photo"
	}
	return msg
}

// Button handlers, called from Tk commands.

func (p *CameraPresenter) Capture() { p.clearMessage(); p.ctrl.RequestCapture() }
func (p *CameraPresenter) Flash()   { p.ctrl.ToggleFlash() }
func (p *CameraPresenter) Gallery() { p.clearMessage(); p.ctrl.SelectFromGallery() }
func (p *CameraPresenter) Confirm() { p.clearMessage(); p.ctrl.ConfirmPhoto() }
func (p *CameraPresenter) Retake()  { p.clearMessage(); p.ctrl.Retake() }
func (p *CameraPresenter) Retry()   { p.ctrl.RequestPermission() }

// Close leaves the camera screen.
func (p *CameraPresenter) Close() {
	if p.nav != nil && !p.nav.GoBack() {
		p.logger.Debug("camera screen is the root route")
	}
}

func (p *CameraPresenter) clearMessage() {
	p.mu.Lock()
	p.message = ""
	p.mu.Unlock()
}
