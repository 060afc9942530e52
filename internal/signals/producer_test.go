package signals

import (
	"testing"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

const eps = 1e-9

func near(a, b float64) bool {
	d := a - b
	return d < eps && d > -eps
}

func day(a state.Activity, tod state.TimeOfDay) state.DayState {
	d := state.DefaultDayState()
	d.Activity = a
	d.TimeOfDay = tod
	return d
}

func TestProduceShortformEvening(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	n := p.Produce(day(state.ActivityShortform, state.Evening))

	if !near(n[state.HookRegret], 0.2) {
		t.Fatalf("regret: got %f", n[state.HookRegret])
	}
	if !near(n[state.HookFocus], 0.1) {
		t.Fatalf("focus: got %f", n[state.HookFocus])
	}
	if !near(n[state.HookSleep], 0.15) {
		t.Fatalf("sleep: got %f", n[state.HookSleep])
	}
}

func TestProduceStreamingEvening(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	n := p.Produce(day(state.ActivityStreaming, state.Evening))

	if !near(n[state.HookSleep], 0.35) {
		t.Fatalf("sleep: expected 0.35, got %f", n[state.HookSleep])
	}
	if !near(n[state.HookSocial], 0.1) {
		t.Fatalf("social: got %f", n[state.HookSocial])
	}
}

func TestProduceGamingMorning(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	n := p.Produce(day(state.ActivityGaming, state.Morning))

	if !near(n[state.HookSleep], 0.05) {
		t.Fatalf("sleep: expected 0.05, got %f", n[state.HookSleep])
	}
}

func TestProduceOtherAfternoonEmpty(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	n := p.Produce(day(state.ActivityOther, state.Afternoon))

	if len(n) != 0 {
		t.Fatalf("expected no nudges, got %v", n)
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	scores := map[state.Hook]float64{state.HookSleep: 0.5}
	out := HookNudges{state.HookSleep: 0.1}.Apply(scores)

	if !near(out[state.HookSleep], 0.6) {
		t.Fatalf("expected 0.6, got %f", out[state.HookSleep])
	}
	if scores[state.HookSleep] != 0.5 {
		t.Fatal("input scores modified")
	}
}
