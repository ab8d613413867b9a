package model

import (
	"time"
)

// SessionModel tracks how long the camera has been live in the current
// session and in total. It is decoupled from the UI; presenters should
// poll Values() and update views. The zero value is ready to use.
type SessionModel struct {
	active              bool
	liveStart           time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration
	sessions            int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model using the current camera state and timestamp.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(live bool, now time.Time) {
	if m == nil {
		return
	}
	if live {
		if !m.active { // off -> on
			m.active = true
			m.liveStart = now
			m.lastSessionDuration = 0
			m.sessions++
		}
		m.lastSessionDuration = now.Sub(m.liveStart)
	} else if m.active { // on -> off
		m.lastSessionDuration = now.Sub(m.liveStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Sessions returns how many times the camera went live.
func (m *SessionModel) Sessions() int {
	if m == nil {
		return 0
	}
	return m.sessions
}
