package eval

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region eval-config
// EvalConfig holds the bounds a committed learning model must satisfy.
type EvalConfig struct {
	MinHookScore float64
	MaxHookScore float64
}

// DefaultEvalConfig returns the standard hook bounds.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinHookScore: state.MinHookScore,
		MaxHookScore: state.MaxHookScore,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of post-update validation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
