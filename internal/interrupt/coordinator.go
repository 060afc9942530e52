// Package interrupt coordinates a shown notification with the simulated clock.
//
// The coordinator is a two-state machine. Idle moves to Showing when a
// trigger fires; the clock is stopped while Showing. Showing returns to Idle
// through one of three exits:
//
//	acted      outcome recorded, learning runs, clock stays stopped
//	dismissed  outcome recorded, learning runs, clock resumes if it was running
//	none       nothing recorded, clock resumes if it was running
//
// Coordinator is not safe for concurrent use; the owner serialises calls.
package interrupt

import (
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/compose"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region interfaces

// Pauser is the part of the clock the coordinator controls.
type Pauser interface {
	Start() bool
	Stop() bool
	Running() bool
}

// Presenter renders notifications. Implementations must not call back into
// the coordinator.
type Presenter interface {
	Show(n compose.Notification)
	Hide(n compose.Notification)
}

// Recorder receives resolutions that carry an outcome.
type Recorder interface {
	Record(n compose.Notification, outcome state.Outcome)
}

// #endregion interfaces

// #region coordinator

// Phase is the coordinator state.
type Phase string

const (
	Idle    Phase = "idle"
	Showing Phase = "showing"
)

// Closed describes how a notification left the screen.
type Closed struct {
	Notification compose.Notification
	Outcome      state.Outcome
	Recorded     bool
	Resumed      bool
}

// Coordinator owns the Idle/Showing state.
type Coordinator struct {
	clock     Pauser
	presenter Presenter
	recorder  Recorder

	current    *compose.Notification
	wasRunning bool
}

// New creates an idle coordinator. presenter and recorder may be nil.
func New(clock Pauser, presenter Presenter, recorder Recorder) *Coordinator {
	return &Coordinator{clock: clock, presenter: presenter, recorder: recorder}
}

// Phase reports the current state.
func (c *Coordinator) Phase() Phase {
	if c.current != nil {
		return Showing
	}
	return Idle
}

// Current returns the notification on screen.
func (c *Coordinator) Current() (compose.Notification, bool) {
	if c.current == nil {
		return compose.Notification{}, false
	}
	return *c.current, true
}

// Show enters Showing. It remembers whether the clock was running and stops
// it. Returns false when a notification is already showing.
func (c *Coordinator) Show(n compose.Notification) bool {
	if c.current != nil {
		return false
	}
	c.wasRunning = c.clock.Running()
	c.clock.Stop()
	c.current = &n
	if c.presenter != nil {
		c.presenter.Show(n)
	}
	return true
}

// Resolve leaves Showing. An empty id resolves whatever is showing. Resolving
// while idle, or with an id that is not showing, does nothing and returns false.
func (c *Coordinator) Resolve(id string, outcome state.Outcome) (Closed, bool) {
	if c.current == nil || (id != "" && id != c.current.ID) {
		return Closed{}, false
	}
	n := *c.current
	c.current = nil
	if c.presenter != nil {
		c.presenter.Hide(n)
	}

	closed := Closed{Notification: n, Outcome: outcome}
	if outcome != state.OutcomeNone {
		closed.Recorded = true
		if c.recorder != nil {
			c.recorder.Record(n, outcome)
		}
	}

	if c.wasRunning && outcome != state.OutcomeActed {
		c.clock.Start()
		closed.Resumed = true
	}
	c.wasRunning = false
	return closed, true
}

// #endregion coordinator
