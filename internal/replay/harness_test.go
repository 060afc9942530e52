package replay

import (
	"testing"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// 1. Ticks without a response leave the nudge showing and unresolved.
func TestReplay_UnansweredNudge(t *testing.T) {
	steps := []FixtureStep{{Op: "tick", Count: 250}}

	results, summary, err := Replay(state.NewMemoryKV(), steps, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Resolved {
		t.Error("expected unresolved notification")
	}
	if summary.FinalDay.TodayMinutes != 215 {
		t.Errorf("expected ticks to stop at 215, got %d", summary.FinalDay.TodayMinutes)
	}
}

// 2. Closing without a choice is rejected and changes nothing.
func TestReplay_CloseWithoutChoice(t *testing.T) {
	steps := []FixtureStep{
		{Op: "set_today", Value: 220},
		{Op: "resolve", Outcome: ""},
	}

	results, summary, err := Replay(state.NewMemoryKV(), steps, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 1 || !results[0].Resolved {
		t.Fatalf("expected one resolved result, got %+v", results)
	}
	if results[0].Decision != "reject" {
		t.Errorf("expected reject, got %s", results[0].Decision)
	}
	if summary.Closed != 1 {
		t.Errorf("expected 1 closed, got %d", summary.Closed)
	}
}

// 3. Rollover drops a showing nudge and a later threshold edit re-arms triggers.
func TestReplay_RolloverAndThresholds(t *testing.T) {
	steps := []FixtureStep{
		{Op: "set_today", Value: 220},
		{Op: "rollover", Carry: true},
		{Op: "set_threshold", Trigger: "t_minus", Value: 30},
		{Op: "set_today", Value: 195, Respond: "acted"},
	}

	results, summary, err := Replay(state.NewMemoryKV(), steps, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Resolved {
		t.Error("rollover must not record the first nudge")
	}
	if results[1].Day != 2 || results[1].Trigger != state.TriggerMinus {
		t.Errorf("expected t_minus on day 2, got %+v", results[1])
	}
	if summary.FinalDay.YesterdayMinutes != 220 {
		t.Errorf("expected carried yesterday 220, got %d", summary.FinalDay.YesterdayMinutes)
	}
}

// 4. A non-configurable threshold is a step error.
func TestReplay_BadThreshold(t *testing.T) {
	steps := []FixtureStep{{Op: "set_threshold", Trigger: "t_zero", Value: 1}}

	if _, _, err := Replay(state.NewMemoryKV(), steps, DefaultReplayConfig()); err == nil {
		t.Fatal("expected error")
	}
}

// 5. Reset restores defaults mid-run.
func TestReplay_Reset(t *testing.T) {
	steps := []FixtureStep{
		{Op: "set_today", Value: 220, Respond: "dismissed"},
		{Op: "language", Name: "nl"},
		{Op: "reset"},
	}

	_, summary, err := Replay(state.NewMemoryKV(), steps, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if summary.FinalDay != state.DefaultDayState() {
		t.Errorf("expected default day, got %+v", summary.FinalDay)
	}
	if summary.FinalLearning.ToneByTrigger[state.TriggerMinus] != state.ToneMotivational {
		t.Error("expected default learning")
	}
}

func TestCompare_ReportsMismatches(t *testing.T) {
	results := []ReplayResult{{Trigger: state.TriggerMinus, Tone: state.ToneMixed, Today: 215}}
	expected := []FixtureExpectedResult{
		{Trigger: "t_minus", Tone: "motivational", Today: 215},
		{Trigger: "t_zero"},
	}

	diffs := Compare(results, expected)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 diffs, got %d: %v", len(diffs), diffs)
	}
}
