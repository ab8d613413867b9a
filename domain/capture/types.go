package capture

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// State enumerates the interaction states of the camera screen.
type State int

const (
	StateAwaitingPermission State = iota
	StateLivePreview
	StateReviewing
)

func (s State) String() string {
	switch s {
	case StateAwaitingPermission:
		return "awaiting_permission"
	case StateLivePreview:
		return "live_preview"
	case StateReviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// Permission is the camera permission grant state.
type Permission int

const (
	PermissionUnknown Permission = iota
	PermissionDenied
	PermissionGranted
)

func (p Permission) String() string {
	switch p {
	case PermissionDenied:
		return "denied"
	case PermissionGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// FlashMode is the camera flash setting.
type FlashMode int

const (
	FlashOff FlashMode = iota
	FlashOn
	FlashAuto
)

// Next returns the mode following m in the Off -> On -> Auto -> Off cycle.
func (m FlashMode) Next() FlashMode {
	switch m {
	case FlashOff:
		return FlashOn
	case FlashOn:
		return FlashAuto
	default:
		return FlashOff
	}
}

func (m FlashMode) String() string {
	switch m {
	case FlashOn:
		return "on"
	case FlashAuto:
		return "auto"
	default:
		return "off"
	}
}

// ParseFlashMode parses "off", "on" or "auto" (case-insensitive). Empty means off.
func ParseFlashMode(s string) (FlashMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return FlashOff, nil
	case "on":
		return FlashOn, nil
	case "auto":
		return FlashAuto, nil
	}
	return FlashOff, fmt.Errorf("unknown flash mode %q", s)
}

// Source tells where a photo came from.
type Source int

const (
	SourceCamera Source = iota
	SourceGallery
)

func (s Source) String() string {
	if s == SourceGallery {
		return "gallery"
	}
	return "camera"
}

// Photo references a still image on local storage.
// A Photo held by the controller is never mutated.
type Photo struct {
	ID      string
	Path    string
	Source  Source
	Width   int
	Height  int
	TakenAt time.Time
}

// URI returns the file URI of the photo.
func (p Photo) URI() string { return "file://" + p.Path }

// Snapshot is a consistent copy of the controller's observable state.
type Snapshot struct {
	State      State
	Permission Permission
	Flash      FlashMode
	Photo      *Photo
	Focused    bool
	Active     bool
	Busy       bool
	BusyOp     Op
}

// Reviewing reports whether a photo is pending review.
func (s Snapshot) Reviewing() bool { return s.Photo != nil }

// CanCapture reports whether the capture affordance should be enabled.
func (s Snapshot) CanCapture() bool {
	return s.State == StateLivePreview && s.Active && !s.Busy
}

// Op identifies a controller operation in error reports.
type Op int

const (
	OpNone Op = iota
	OpPermission
	OpActivate
	OpCapture
	OpFlash
	OpGallery
	OpConfirm
	OpRetake
)

func (o Op) String() string {
	switch o {
	case OpPermission:
		return "permission"
	case OpActivate:
		return "activate"
	case OpCapture:
		return "capture"
	case OpFlash:
		return "flash"
	case OpGallery:
		return "gallery"
	case OpConfirm:
		return "confirm"
	case OpRetake:
		return "retake"
	default:
		return "none"
	}
}

// Camera is the device collaborator. SetActive starts or stops the live
// viewfinder and must release the underlying device when deactivated.
type Camera interface {
	SetActive(active bool) error
	TakePhoto(ctx context.Context, flash FlashMode) (Photo, error)
}

// PermissionProvider exposes the camera permission grant.
type PermissionProvider interface {
	Status() Permission
	Request(ctx context.Context) (Permission, error)
}

// PickOptions configures the media picker.
type PickOptions struct {
	Title      string
	Extensions []string
}

// MediaPicker lets the user select an existing image. A cancelled selection
// returns an error matching ErrPickerCancelled.
type MediaPicker interface {
	PickImage(ctx context.Context, opts PickOptions) (Photo, error)
}

// PhotoReader loads the bytes of a referenced photo.
type PhotoReader interface {
	ReadPhoto(ctx context.Context, p Photo) ([]byte, error)
}

// Uploader receives confirmed photo bytes.
type Uploader interface {
	Upload(ctx context.Context, p Photo, data []byte) error
}

// Notifier shows user-visible alerts.
type Notifier interface {
	Alert(title, message string)
}

// Collaborators externalize device, dialog and upload interactions.
type Collaborators struct {
	Camera     Camera
	Permission PermissionProvider
	Picker     MediaPicker
	Reader     PhotoReader
	Uploader   Uploader
	Notifier   Notifier
}

// Options tune the controller. Zero timeouts mean no bound.
type Options struct {
	InitialFlash      FlashMode
	PermissionTimeout time.Duration
	CaptureTimeout    time.Duration
	PickerTimeout     time.Duration
	UploadTimeout     time.Duration
	Pick              PickOptions
}

// StateListener is called on each state transition.
type StateListener func(prev, next State)

// ChangeListener is called whenever the snapshot changes.
type ChangeListener func(Snapshot)

// ErrorListener is called for every rejected or failed operation.
type ErrorListener func(op Op, err error)

// Interface slices for consumers (presenters, navigation).
type StateSource interface {
	Current() State
	Snapshot() Snapshot
}
type FocusControl interface {
	Focus()
	Blur()
}
type PreviewActions interface {
	RequestCapture()
	ToggleFlash()
	SelectFromGallery()
	RequestPermission()
}
type ReviewActions interface {
	ConfirmPhoto()
	Retake()
	DismissReview()
}

// Handlers is the full set of event handlers the camera screen drives.
type Handlers interface {
	StateSource
	FocusControl
	PreviewActions
	ReviewActions
	AddListener(StateListener)
	AddChangeListener(ChangeListener)
	AddErrorListener(ErrorListener)
}
