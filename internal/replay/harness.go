package replay

import (
	"fmt"

	bclock "github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/engine"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/update"
)

// #region types

// ReplayConfig bundles the engine settings for a replay run.
type ReplayConfig struct {
	TimeOfDay    state.TimeOfDay
	UpdateConfig update.UpdateConfig
	GateConfig   gate.GateConfig
	EvalConfig   eval.EvalConfig
}

// DefaultReplayConfig returns the engine defaults.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		UpdateConfig: update.DefaultUpdateConfig(),
		GateConfig:   gate.DefaultGateConfig(),
		EvalConfig:   eval.DefaultEvalConfig(),
	}
}

// ReplayResult captures one notification shown during a replay.
type ReplayResult struct {
	NotificationID string
	Day            int
	Today          int
	Trigger        state.Trigger
	Tone           state.Tone
	Hook           state.Hook
	Title          string
	Body           string

	// Filled when the notification is resolved; empty if it was still
	// showing at the end or was closed by rollover/reset.
	Outcome  state.Outcome
	Resolved bool
	Decision string // "commit" | "reject" | "rollback" | "no_op"
	Reason   string
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Shown         int
	Acted         int
	Dismissed     int
	Ignored       int
	Closed        int // resolved without a choice
	Commits       int
	Rejects       int
	EvalRollbacks int
	NoOps         int
	FinalDay      state.DayState
	FinalLearning state.LearningModel
}

// #endregion types

// #region replay

type runner struct {
	e       *engine.Engine
	results []ReplayResult
	byID    map[string]int
}

// Replay runs steps through an in-memory engine seeded from kv. Simulated time
// only advances through tick steps; the wall clock is never used.
func Replay(kv state.KV, steps []FixtureStep, config ReplayConfig) ([]ReplayResult, ReplaySummary, error) {
	opts := engine.DefaultOptions()
	opts.KV = kv
	opts.Clock = bclock.NewMock()
	opts.Logger = zerolog.Nop()
	opts.TimeOfDay = config.TimeOfDay
	opts.Gate = config.GateConfig
	opts.Update = config.UpdateConfig
	opts.Eval = config.EvalConfig

	r := &runner{e: engine.New(opts), byID: map[string]int{}}
	defer r.e.Close()

	for i, s := range steps {
		if err := r.step(s); err != nil {
			return r.results, r.summary(), fmt.Errorf("step %d (%s): %w", i, s.Op, err)
		}
	}
	return r.results, r.summary(), nil
}

func (r *runner) step(s FixtureStep) error {
	e := r.e
	respond := state.ParseOutcome(s.Respond)

	switch s.Op {
	case "tick":
		count := s.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			e.Tick()
			r.observe(respond)
		}
	case "add":
		e.AddMinutes(s.Value)
		r.observe(respond)
	case "set_today":
		e.SetToday(s.Value)
		r.observe(respond)
	case "set_yesterday":
		e.SetYesterday(s.Value)
	case "set_avg7":
		e.SetAvg7(s.Value)
	case "set_threshold":
		if !e.SetThreshold(state.Trigger(s.Trigger), s.Value) {
			return fmt.Errorf("threshold %q is not configurable", s.Trigger)
		}
	case "activity":
		e.SetActivity(s.Name)
	case "tone":
		e.SetTonePreference(s.Name)
	case "language":
		e.SetLanguage(s.Name)
	case "resolve":
		r.observe(state.OutcomeNone)
		r.resolve(state.ParseOutcome(s.Outcome))
	case "rollover":
		e.Rollover(s.Carry)
	case "reset":
		e.ResetLearningAndDay()
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

// observe records a newly shown notification and answers it when respond is set.
func (r *runner) observe(respond state.Outcome) {
	n, ok := r.e.Showing()
	if !ok {
		return
	}
	if _, seen := r.byID[n.ID]; !seen {
		d := r.e.Day()
		r.byID[n.ID] = len(r.results)
		r.results = append(r.results, ReplayResult{
			NotificationID: n.ID,
			Day:            d.Day,
			Today:          d.TodayMinutes,
			Trigger:        n.Trigger,
			Tone:           n.Tone,
			Hook:           n.Hook,
			Title:          n.Title,
			Body:           n.Body,
		})
	}
	if respond != state.OutcomeNone {
		r.resolve(respond)
	}
}

func (r *runner) resolve(outcome state.Outcome) {
	res, ok := r.e.ResolveCurrent(outcome)
	if !ok {
		return
	}
	i, seen := r.byID[res.NotificationID]
	if !seen {
		return
	}
	r.results[i].Outcome = outcome
	r.results[i].Resolved = true
	r.results[i].Decision = res.Decision
	r.results[i].Reason = res.Reason
}

func (r *runner) summary() ReplaySummary {
	s := Summarize(r.results)
	s.FinalDay = r.e.Day()
	s.FinalLearning = r.e.Learning()
	return s
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Shown: len(results)}
	for _, r := range results {
		if !r.Resolved {
			continue
		}
		switch r.Outcome {
		case state.OutcomeActed:
			s.Acted++
		case state.OutcomeDismissed:
			s.Dismissed++
		case state.OutcomeIgnored:
			s.Ignored++
		default:
			s.Closed++
		}
		switch r.Decision {
		case "commit":
			s.Commits++
		case "reject":
			s.Rejects++
		case "rollback":
			s.EvalRollbacks++
		case "no_op":
			s.NoOps++
		}
	}
	return s
}

// #endregion replay

// #region compare

// Compare checks results against the expectations and returns one message
// per mismatch. Empty expectation fields match anything.
func Compare(results []ReplayResult, expected []FixtureExpectedResult) []string {
	var diffs []string
	if len(results) != len(expected) {
		diffs = append(diffs, fmt.Sprintf("expected %d notifications, got %d", len(expected), len(results)))
	}
	for i := 0; i < min(len(results), len(expected)); i++ {
		got, want := results[i], expected[i]
		check := func(field, w, g string) {
			if w != "" && w != g {
				diffs = append(diffs, fmt.Sprintf("notification %d: expected %s=%s, got %s", i, field, w, g))
			}
		}
		check("trigger", want.Trigger, string(got.Trigger))
		check("tone", want.Tone, string(got.Tone))
		check("hook", want.Hook, string(got.Hook))
		check("outcome", want.Outcome, string(got.Outcome))
		check("decision", want.Decision, got.Decision)
		if want.Day != 0 && want.Day != got.Day {
			diffs = append(diffs, fmt.Sprintf("notification %d: expected day=%d, got %d", i, want.Day, got.Day))
		}
		if want.Today != 0 && want.Today != got.Today {
			diffs = append(diffs, fmt.Sprintf("notification %d: expected today=%d, got %d", i, want.Today, got.Today))
		}
	}
	return diffs
}

// #endregion compare
