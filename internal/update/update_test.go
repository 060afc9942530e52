package update

import (
	"math/rand"
	"testing"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

func TestUpdateNoOp(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{Trigger: state.TriggerZero, Outcome: state.OutcomeNone, Hook: state.HookSleep}

	result := Update(old, res, DefaultUpdateConfig())

	if result.Decision.Action != "no_op" {
		t.Fatalf("expected no_op, got %s", result.Decision.Action)
	}
	if result.NewModel.ToneByTrigger[state.TriggerZero] != state.ToneMixed {
		t.Fatalf("ladder changed: %s", result.NewModel.ToneByTrigger[state.TriggerZero])
	}
	if result.NewModel.HookScores[state.HookSleep] != 0.6 {
		t.Fatalf("hook changed: %f", result.NewModel.HookScores[state.HookSleep])
	}
}

func TestUpdateActedSoftensTone(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{Trigger: state.TriggerPlus, Outcome: state.OutcomeActed, Hook: state.HookRegret}

	result := Update(old, res, DefaultUpdateConfig())

	if result.Decision.Action != "commit" {
		t.Fatalf("expected commit, got %s", result.Decision.Action)
	}
	if got := result.NewModel.ToneByTrigger[state.TriggerPlus]; got != state.ToneMixed {
		t.Fatalf("expected mixed, got %s", got)
	}
	if got := result.NewModel.HookScores[state.HookRegret]; got < 0.7499 || got > 0.7501 {
		t.Fatalf("expected 0.75, got %f", got)
	}
	if result.NextTone != state.ToneMixed {
		t.Fatalf("expected next tone mixed, got %s", result.NextTone)
	}
	// Old model untouched
	if old.ToneByTrigger[state.TriggerPlus] != state.ToneConfrontational {
		t.Fatal("old model mutated")
	}
}

func TestUpdateDismissedHardensTone(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{Trigger: state.TriggerMinus, Outcome: state.OutcomeDismissed, Hook: state.HookFocus}

	result := Update(old, res, DefaultUpdateConfig())

	if got := result.NewModel.ToneByTrigger[state.TriggerMinus]; got != state.ToneMixed {
		t.Fatalf("expected mixed, got %s", got)
	}
	if got := result.NewModel.HookScores[state.HookFocus]; got < 0.3799 || got > 0.3801 {
		t.Fatalf("expected 0.38, got %f", got)
	}
}

func TestUpdateIgnoredCountsAsMiss(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{Trigger: state.TriggerZero, Outcome: state.OutcomeIgnored, Hook: state.HookSleep}

	result := Update(old, res, DefaultUpdateConfig())

	if got := result.NewModel.ToneByTrigger[state.TriggerZero]; got != state.ToneConfrontational {
		t.Fatalf("expected confrontational, got %s", got)
	}
}

func TestUpdateLadderBounds(t *testing.T) {
	m := state.DefaultLearningModel()
	cfg := DefaultUpdateConfig()

	for i := 0; i < 5; i++ {
		m = Update(m, Resolution{Trigger: state.TriggerPlus, Outcome: state.OutcomeDismissed, Hook: state.HookSleep}, cfg).NewModel
	}
	if got := m.ToneByTrigger[state.TriggerPlus]; got != state.ToneConfrontational {
		t.Fatalf("expected ceiling confrontational, got %s", got)
	}

	for i := 0; i < 5; i++ {
		m = Update(m, Resolution{Trigger: state.TriggerPlus, Outcome: state.OutcomeActed, Hook: state.HookSleep}, cfg).NewModel
	}
	if got := m.ToneByTrigger[state.TriggerPlus]; got != state.ToneMotivational {
		t.Fatalf("expected floor motivational, got %s", got)
	}
}

func TestUpdateRandomSequencesStayBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := state.DefaultLearningModel()
	cfg := DefaultUpdateConfig()
	outcomes := []state.Outcome{state.OutcomeActed, state.OutcomeDismissed, state.OutcomeIgnored}

	for i := 0; i < 2000; i++ {
		res := Resolution{
			Trigger: state.Triggers[rng.Intn(len(state.Triggers))],
			Outcome: outcomes[rng.Intn(len(outcomes))],
			Hook:    state.Hooks[rng.Intn(len(state.Hooks))],
		}
		before := state.LadderIndex(m.ToneByTrigger[res.Trigger])
		result := Update(m, res, cfg)
		after := state.LadderIndex(result.NewModel.ToneByTrigger[res.Trigger])

		step := after - before
		if step < -1 || step > 1 {
			t.Fatalf("ladder moved %d steps", step)
		}
		if after < 0 || after > 2 {
			t.Fatalf("ladder index %d out of range", after)
		}
		for h, v := range result.NewModel.HookScores {
			if v < 0 || v > 1.5 {
				t.Fatalf("hook %s out of bounds: %f", h, v)
			}
		}
		m = result.NewModel
	}
}

func TestUpdatePreferenceBypassesSelectionNotLearning(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{
		Trigger:        state.TriggerMinus,
		Outcome:        state.OutcomeDismissed,
		Hook:           state.HookReward,
		TonePreference: state.ToneConfrontational,
	}

	result := Update(old, res, DefaultUpdateConfig())

	if result.NextTone != state.ToneConfrontational {
		t.Fatalf("expected preference, got %s", result.NextTone)
	}
	if got := result.NewModel.ToneByTrigger[state.TriggerMinus]; got != state.ToneMixed {
		t.Fatalf("ladder should still move, got %s", got)
	}
}

func TestUpdateMissingEntriesUseDefaults(t *testing.T) {
	old := state.LearningModel{}
	res := Resolution{Trigger: state.TriggerZero, Outcome: state.OutcomeActed, Hook: state.HookSocial}

	result := Update(old, res, DefaultUpdateConfig())

	if got := result.NewModel.ToneByTrigger[state.TriggerZero]; got != state.ToneMotivational {
		t.Fatalf("missing tone treated as mixed then softened, got %s", got)
	}
	if got := result.NewModel.HookScores[state.HookSocial]; got < 0.5499 || got > 0.5501 {
		t.Fatalf("expected 0.55, got %f", got)
	}
}

func TestUpdateDeterministic(t *testing.T) {
	old := state.DefaultLearningModel()
	res := Resolution{Trigger: state.TriggerZero, Outcome: state.OutcomeDismissed, Hook: state.HookSleep}

	r1 := Update(old, res, DefaultUpdateConfig())
	r2 := Update(old, res, DefaultUpdateConfig())

	for _, h := range state.Hooks {
		if r1.NewModel.HookScores[h] != r2.NewModel.HookScores[h] {
			t.Fatalf("non-deterministic hook %s", h)
		}
	}
	if r1.Decision != r2.Decision {
		t.Fatalf("non-deterministic decision: %+v vs %+v", r1.Decision, r2.Decision)
	}
}
