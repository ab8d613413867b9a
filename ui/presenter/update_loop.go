package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// Tick drains work posted to the UI thread, then calls Tick/ProcessFrame on
// the sub-presenters and invokes a scheduler callback. The zero value is
// usable (methods are nil-safe).
type Loop struct {
	Dispatcher *Dispatcher
	Camera     *CameraPresenter
	State      *StatePresenter
	Session    *SessionPresenter
	Preview    *PreviewPresenter
	Schedule   func()
}

func NewLoop(d *Dispatcher, cam *CameraPresenter, state *StatePresenter, sess *SessionPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Dispatcher: d, Camera: cam, State: state, Session: sess, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Dispatcher != nil {
		l.Dispatcher.Drain()
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Camera != nil {
		l.Camera.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.ProcessFrame()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
