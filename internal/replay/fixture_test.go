package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region fixture-tests

func runFixture(t *testing.T, name string) ([]ReplayResult, ReplaySummary) {
	t.Helper()
	f, err := LoadFixture(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	kv, err := f.StartState.ToKV()
	if err != nil {
		t.Fatalf("ToKV: %v", err)
	}
	results, summary, err := Replay(kv, f.Steps, f.Config.ToReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	for _, d := range Compare(results, f.ExpectedResults) {
		t.Error(d)
	}
	return results, summary
}

// TestFixture_ExampleDay is the primary regression test: if thresholds,
// selection or the adaptation heuristic drift, the expectations break.
func TestFixture_ExampleDay(t *testing.T) {
	_, summary := runFixture(t, "example_day.json")

	if summary.Dismissed != 3 || summary.Commits != 3 {
		t.Errorf("expected 3 dismissed commits, got %+v", summary)
	}
	if summary.FinalDay.TodayMinutes != 300 {
		t.Errorf("expected today=300, got %d", summary.FinalDay.TodayMinutes)
	}
	if got := summary.FinalLearning.ToneByTrigger[state.TriggerMinus]; got != state.ToneMixed {
		t.Errorf("expected t_minus ladder mixed, got %s", got)
	}
	if got := summary.FinalLearning.ToneByTrigger[state.TriggerPlus]; got != state.ToneConfrontational {
		t.Errorf("expected t_plus ladder to stay confrontational, got %s", got)
	}
}

func TestFixture_DayStart(t *testing.T) {
	results, summary := runFixture(t, "day_start.json")

	if len(results) == 2 && results[1].Body == "" {
		t.Error("expected a composed body")
	}
	if summary.FinalDay.Day != 2 {
		t.Errorf("expected day 2, got %d", summary.FinalDay.Day)
	}
}

func TestFixture_IgnoredDisabled(t *testing.T) {
	_, summary := runFixture(t, "ignored_disabled.json")

	if summary.Rejects != 1 || summary.Commits != 1 {
		t.Errorf("expected 1 reject and 1 commit, got %+v", summary)
	}
	if got := summary.FinalLearning.ToneByTrigger[state.TriggerMinus]; got != state.ToneMixed {
		t.Errorf("rejected resolution must not move the ladder, got %s", got)
	}
}

func TestLoadFixture_UnknownOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"steps":[{"op":"teleport"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected unknown op error")
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join("testdata", "nope.json")); err == nil {
		t.Fatal("expected read error")
	}
}

// #endregion fixture-tests
