package permission

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// AskFunc shows a yes/no question and reports the answer.
type AskFunc func(ctx context.Context, title, message string) (bool, error)

// Dialog asks the user for camera access. A grant is remembered for the
// process lifetime; a denial is asked again on the next request.
type Dialog struct {
	ask    AskFunc
	logger *slog.Logger

	mu   sync.Mutex
	perm capture.Permission
}

func NewDialog(logger *slog.Logger, ask AskFunc) *Dialog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dialog{ask: ask, logger: logger}
}

func (d *Dialog) Status() capture.Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.perm
}

func (d *Dialog) Request(ctx context.Context) (capture.Permission, error) {
	if p := d.Status(); p == capture.PermissionGranted {
		return p, nil
	}
	ok, err := d.ask(ctx, "Camera", "Allow Plant Cam to use the camera?")
	if err != nil {
		return capture.PermissionUnknown, err
	}
	p := capture.PermissionDenied
	if ok {
		p = capture.PermissionGranted
	}
	d.mu.Lock()
	d.perm = p
	d.mu.Unlock()
	d.logger.Debug("camera permission answered", "permission", p.String())
	return p, nil
}

var _ capture.PermissionProvider = (*Dialog)(nil)
