// Package selector chooses the hook, tone and title of a notification.
package selector

import (
	"math"
	"strings"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/signals"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region titles

// titleVariants holds four fixed titles per tone.
var titleVariants = map[state.Tone][]string{
	state.ToneMotivational:    {"Yes! Early win", "Crushing it", "Nice pace", "On top of your time"},
	state.ToneMixed:           {"Careful, tipping point", "On the edge", "Borderline scroll", "Right on the line"},
	state.ToneConfrontational: {"Over the limit", "Time sink alert", "Snap out of it", "Break the loop"},
}

// Title rotates through the tone's variants by day.
func Title(tone state.Tone, day int) string {
	titles, ok := titleVariants[tone]
	if !ok {
		titles = titleVariants[state.ToneMixed]
	}
	n := len(titles)
	i := (day + n) % n
	if i < 0 {
		i += n
	}
	return titles[i]
}

// Kicker is the capitalised tone name.
func Kicker(tone state.Tone) string {
	s := string(tone)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// #endregion titles

// #region hook

// PickHook adds the context nudges to the learned scores and returns the
// best hook. Ties go to the earliest hook in state.Hooks.
func PickHook(m state.LearningModel, nudges signals.HookNudges) state.Hook {
	scores := nudges.Apply(m.HookScores)
	best := state.HookRegret
	bestVal := math.Inf(-1)
	for _, h := range state.Hooks {
		if v, ok := scores[h]; ok && v > bestVal {
			best, bestVal = h, v
		}
	}
	return best
}

// #endregion hook

// #region tone

// dayStartTones colors the first nudge of a day from yesterday's outcome.
var dayStartTones = map[state.Outcome]map[state.Trigger]state.Tone{
	state.OutcomeActed: {
		state.TriggerMinus: state.ToneMotivational,
		state.TriggerZero:  state.ToneMixed,
		state.TriggerPlus:  state.ToneMixed,
	},
	state.OutcomeDismissed: {
		state.TriggerPlus:  state.ToneConfrontational,
		state.TriggerZero:  state.ToneMixed,
		state.TriggerMinus: state.ToneMixed,
	},
}

// SeverityTone is the ladder default for a trigger.
func SeverityTone(t state.Trigger) state.Tone {
	switch t.Stage() {
	case state.StageEarly:
		return state.ToneMotivational
	case state.StageMatch:
		return state.ToneMixed
	default:
		return state.ToneConfrontational
	}
}

// PickTone returns the tone for trigger. An explicit preference always wins.
// Otherwise the learned ladder applies, except at day start where yesterday's
// recorded outcome decides.
func PickTone(d state.DayState, m state.LearningModel, trigger state.Trigger) state.Tone {
	if d.TonePreference != state.ToneAuto && state.LadderIndex(d.TonePreference) >= 0 {
		return d.TonePreference
	}

	tone, ok := m.ToneByTrigger[trigger]
	if !ok || state.LadderIndex(tone) < 0 {
		tone = SeverityTone(trigger)
	}

	if d.TodayMinutes == 0 && !d.Fired.TMinus && d.HasRecordedOutcome() {
		if t, ok := dayStartTones[d.LastOutcome][d.LastOutcomeStage]; ok {
			tone = t
		}
	}
	return tone
}

// #endregion tone
