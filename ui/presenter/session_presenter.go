package presenter

import (
	"time"

	"github.com/soocke/plant-cam-go/ui/model"
)

// CameraActiveModel reports whether the viewfinder is live.
type CameraActiveModel interface{ Active() bool }

// SessionView displays formatted session and total camera durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter formats camera-on durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	cam  CameraActiveModel
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, cam CameraActiveModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, cam: cam, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.cam == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.cam.Active(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
