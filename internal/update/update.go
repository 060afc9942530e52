package update

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region update-function
// Update is a pure function that computes the next learning model from one
// resolution. The tone ladder for the trigger moves one step: softer after
// acted, harsher after dismissed or ignored. The hook score is nudged and
// clamped. A resolution without an outcome changes nothing.
func Update(old state.LearningModel, res Resolution, config UpdateConfig) UpdateResult {
	m := old.Clone()
	if m.ToneByTrigger == nil {
		m.ToneByTrigger = map[state.Trigger]state.Tone{}
	}
	if m.HookScores == nil {
		m.HookScores = map[state.Hook]float64{}
	}

	cur, ok := m.ToneByTrigger[res.Trigger]
	if !ok || state.LadderIndex(cur) < 0 {
		cur = state.ToneMixed
	}
	from := state.LadderIndex(cur)
	hookFrom, ok := m.HookScores[res.Hook]
	if !ok {
		hookFrom = config.DefaultHookScore
	}

	if res.Outcome == state.OutcomeNone {
		return UpdateResult{
			NewModel: m,
			NextTone: nextTone(cur, res.TonePreference),
			Decision: Decision{Action: "no_op", Reason: "no outcome recorded"},
			Metrics:  Metrics{LadderFrom: from, LadderTo: from, HookFrom: hookFrom, HookTo: hookFrom},
		}
	}

	// 1. Tone ladder
	to := from
	var delta float64
	switch res.Outcome {
	case state.OutcomeActed:
		if to > 0 {
			to--
		}
		delta = config.ActedHookDelta
	default:
		if to < len(state.ToneLadder)-1 {
			to++
		}
		delta = config.MissedHookDelta
	}
	m.ToneByTrigger[res.Trigger] = state.ToneLadder[to]

	// 2. Hook score
	hookTo := clamp(hookFrom+delta, config.MinHookScore, config.MaxHookScore)
	if res.Hook != "" {
		m.HookScores[res.Hook] = hookTo
	}

	decision := Decision{Action: "no_op", Reason: "model unchanged"}
	if to != from || hookTo != hookFrom {
		decision = Decision{
			Action: "commit",
			Reason: fmt.Sprintf("%s on %s: tone %s -> %s, hook %s %.2f -> %.2f",
				res.Outcome, res.Trigger, state.ToneLadder[from], state.ToneLadder[to], res.Hook, hookFrom, hookTo),
		}
	}

	return UpdateResult{
		NewModel: m,
		NextTone: nextTone(state.ToneLadder[to], res.TonePreference),
		Decision: decision,
		Metrics:  Metrics{LadderFrom: from, LadderTo: to, HookFrom: hookFrom, HookTo: hookTo},
	}
}

// #endregion update-function

// #region helpers
// nextTone lets an explicit preference bypass the learned ladder.
func nextTone(ladder, pref state.Tone) state.Tone {
	if pref != "" && pref != state.ToneAuto && state.LadderIndex(pref) >= 0 {
		return pref
	}
	return ladder
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
