package capture

import "errors"

// Error kinds. Collaborator failures are wrapped so errors.Is classifies them.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrCaptureFailed    = errors.New("capture failed")
	ErrPickerCancelled  = errors.New("picker cancelled")
	ErrPickerFailed     = errors.New("picker failed")
	ErrUploadFailed     = errors.New("upload failed")
	ErrNoCamera         = errors.New("camera not available")
	ErrInvalidState     = errors.New("operation not valid in current state")
	ErrBusy             = errors.New("another operation is in progress")
)
