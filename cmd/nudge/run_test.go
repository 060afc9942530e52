package main

import (
	"bytes"
	"strings"
	"testing"

	bclock "github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/engine"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

func newTestEngine(t *testing.T, out *bytes.Buffer) *engine.Engine {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Clock = bclock.NewMock()
	opts.Presenter = &terminalPresenter{out: out}
	e := engine.New(opts)
	t.Cleanup(e.Close)
	return e
}

func TestReplShowsAndResolves(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(t, &out)

	repl(e, strings.NewReader("today 220\nstatus\nacted\nlearning\nquit\n"), &out, true)

	s := out.String()
	assert.Contains(t, s, "[Motivational]")
	assert.Contains(t, s, "showing: [Motivational]")
	assert.Contains(t, s, "[t_minus] decision=commit resumed=false")
	assert.Contains(t, s, "regret   0.75")
	assert.Equal(t, state.OutcomeActed, e.Day().LastOutcome)
}

func TestReplResetNeedsConfirmation(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(t, &out)

	repl(e, strings.NewReader("activity gaming\nreset\nno\n"), &out, true)
	assert.Equal(t, state.ActivityGaming, e.Day().Activity)
	assert.Contains(t, out.String(), "reset cancelled")

	repl(e, strings.NewReader("reset\nyes\n"), &out, true)
	assert.Equal(t, state.DefaultDayState(), e.Day())
}

func TestReplNextDay(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(t, &out)

	repl(e, strings.NewReader("today 100\nnext\n"), &out, true)
	assert.Equal(t, 100, e.Day().YesterdayMinutes)

	repl(e, strings.NewReader("today 50\nnext nocarry\n"), &out, true)
	assert.Equal(t, 100, e.Day().YesterdayMinutes)
	assert.Equal(t, 3, e.Day().Day)
}

func TestReplUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(t, &out)

	repl(e, strings.NewReader("fly\nclose\n"), &out, true)
	assert.Contains(t, out.String(), `unknown command "fly"`)
	assert.Contains(t, out.String(), "no notification showing")
}
