package eval

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region eval-harness
// EvalHarness validates a proposed learning model before it is stored.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks every ladder entry and every hook score. A failed run means the
// caller keeps the previous model.
func (h *EvalHarness) Run(m state.LearningModel) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	// 1. Ladder entries: one per trigger, each on the ladder
	for _, t := range state.Triggers {
		tone, ok := m.ToneByTrigger[t]
		idx := state.LadderIndex(tone)
		pass := ok && idx >= 0
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("ladder_%s", t),
			Value: float64(idx),
			Pass:  pass,
		})
		if !pass {
			failReasons = append(failReasons, fmt.Sprintf("trigger %s has no ladder tone (%q)", t, tone))
		}
	}

	// 2. Hook scores within bounds
	for _, hook := range state.Hooks {
		v, ok := m.HookScores[hook]
		pass := ok && v >= h.config.MinHookScore && v <= h.config.MaxHookScore
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("hook_%s", hook),
			Value: v,
			Pass:  pass,
		})
		if !pass {
			failReasons = append(failReasons, fmt.Sprintf("hook %s score %.4f outside [%.2f, %.2f]",
				hook, v, h.config.MinHookScore, h.config.MaxHookScore))
		}
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness
