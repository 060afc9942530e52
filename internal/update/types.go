package update

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region resolution
// Resolution carries one resolved notification into the pure update function.
type Resolution struct {
	Trigger        state.Trigger
	Outcome        state.Outcome
	Hook           state.Hook
	TonePreference state.Tone // explicit preference active when the nudge was shown
}

// #endregion resolution

// #region decision
// Decision records what the update function decided.
type Decision struct {
	Action string // "commit" | "no_op"
	Reason string
}

// #endregion decision

// #region metrics
// Metrics captures telemetry from an update cycle.
type Metrics struct {
	LadderFrom int
	LadderTo   int
	HookFrom   float64
	HookTo     float64
}

// #endregion metrics

// #region update-config
// UpdateConfig holds the step sizes and clamps of the adaptation heuristic.
type UpdateConfig struct {
	ActedHookDelta   float64 // hook reinforcement after the user acted
	MissedHookDelta  float64 // hook penalty after a dismissal or ignore
	DefaultHookScore float64 // assumed score for a hook with no entry
	MinHookScore     float64
	MaxHookScore     float64
}

// DefaultUpdateConfig returns the pinned heuristic.
func DefaultUpdateConfig() UpdateConfig {
	return UpdateConfig{
		ActedHookDelta:   0.05,
		MissedHookDelta:  -0.02,
		DefaultHookScore: 0.5,
		MinHookScore:     state.MinHookScore,
		MaxHookScore:     state.MaxHookScore,
	}
}

// #endregion update-config

// #region update-result
// UpdateResult bundles everything returned by Update().
type UpdateResult struct {
	NewModel state.LearningModel
	NextTone state.Tone // tone the next nudge for this trigger would use
	Decision Decision
	Metrics  Metrics
}

// #endregion update-result
