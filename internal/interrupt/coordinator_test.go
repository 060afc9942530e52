package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/compose"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

type fakeClock struct {
	running bool
	starts  int
	stops   int
}

func (f *fakeClock) Start() bool {
	if f.running {
		return false
	}
	f.running = true
	f.starts++
	return true
}

func (f *fakeClock) Stop() bool {
	if !f.running {
		return false
	}
	f.running = false
	f.stops++
	return true
}

func (f *fakeClock) Running() bool { return f.running }

type fakePresenter struct {
	shown  []string
	hidden []string
}

func (p *fakePresenter) Show(n compose.Notification) { p.shown = append(p.shown, n.ID) }
func (p *fakePresenter) Hide(n compose.Notification) { p.hidden = append(p.hidden, n.ID) }

type fakeRecorder struct {
	outcomes []state.Outcome
	running  []bool
	clock    *fakeClock
}

func (r *fakeRecorder) Record(n compose.Notification, o state.Outcome) {
	r.outcomes = append(r.outcomes, o)
	r.running = append(r.running, r.clock.running)
}

func setup(running bool) (*Coordinator, *fakeClock, *fakePresenter, *fakeRecorder) {
	clk := &fakeClock{running: running}
	p := &fakePresenter{}
	r := &fakeRecorder{clock: clk}
	return New(clk, p, r), clk, p, r
}

func note(id string) compose.Notification {
	return compose.Notification{ID: id, Trigger: state.TriggerZero, Tone: state.ToneMixed}
}

func TestShowPausesClock(t *testing.T) {
	c, clk, p, _ := setup(true)

	require.True(t, c.Show(note("a")))
	assert.Equal(t, Showing, c.Phase())
	assert.False(t, clk.running)
	assert.Equal(t, []string{"a"}, p.shown)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
}

func TestShowWhileShowingRejected(t *testing.T) {
	c, _, p, _ := setup(true)
	require.True(t, c.Show(note("a")))

	assert.False(t, c.Show(note("b")))
	assert.Equal(t, []string{"a"}, p.shown)
}

func TestActedKeepsClockStopped(t *testing.T) {
	c, clk, p, r := setup(true)
	c.Show(note("a"))

	closed, ok := c.Resolve("a", state.OutcomeActed)
	require.True(t, ok)
	assert.True(t, closed.Recorded)
	assert.False(t, closed.Resumed)
	assert.False(t, clk.running)
	assert.Equal(t, Idle, c.Phase())
	assert.Equal(t, []state.Outcome{state.OutcomeActed}, r.outcomes)
	assert.Equal(t, []string{"a"}, p.hidden)
}

func TestDismissedResumesRunningClock(t *testing.T) {
	c, clk, _, r := setup(true)
	c.Show(note("a"))

	closed, ok := c.Resolve("a", state.OutcomeDismissed)
	require.True(t, ok)
	assert.True(t, closed.Resumed)
	assert.True(t, clk.running)
	assert.Equal(t, []bool{false}, r.running, "learning runs before the clock resumes")
}

func TestDismissedLeavesStoppedClockStopped(t *testing.T) {
	c, clk, _, _ := setup(false)
	c.Show(note("a"))

	closed, _ := c.Resolve("", state.OutcomeDismissed)
	assert.False(t, closed.Resumed)
	assert.False(t, clk.running)
}

func TestCloseWithoutChoice(t *testing.T) {
	c, clk, _, r := setup(true)
	c.Show(note("a"))

	closed, ok := c.Resolve("a", state.OutcomeNone)
	require.True(t, ok)
	assert.False(t, closed.Recorded)
	assert.True(t, closed.Resumed)
	assert.True(t, clk.running)
	assert.Empty(t, r.outcomes)
}

func TestResolveIdleIsNoOp(t *testing.T) {
	c, clk, _, r := setup(true)

	_, ok := c.Resolve("", state.OutcomeActed)
	assert.False(t, ok)
	assert.True(t, clk.running)
	assert.Empty(t, r.outcomes)
}

func TestResolveWrongIDIsNoOp(t *testing.T) {
	c, _, _, r := setup(true)
	c.Show(note("a"))

	_, ok := c.Resolve("b", state.OutcomeActed)
	assert.False(t, ok)
	assert.Equal(t, Showing, c.Phase())
	assert.Empty(t, r.outcomes)
}

func TestWasRunningResetsBetweenShows(t *testing.T) {
	c, clk, _, _ := setup(true)
	c.Show(note("a"))
	c.Resolve("a", state.OutcomeActed)
	require.False(t, clk.running)

	c.Show(note("b"))
	closed, _ := c.Resolve("b", state.OutcomeDismissed)
	assert.False(t, closed.Resumed)
	assert.False(t, clk.running)
}

func TestNilCollaborators(t *testing.T) {
	clk := &fakeClock{running: true}
	c := New(clk, nil, nil)
	require.True(t, c.Show(note("a")))
	_, ok := c.Resolve("a", state.OutcomeDismissed)
	assert.True(t, ok)
	assert.True(t, clk.running)
}
