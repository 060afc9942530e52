package gate

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoNoChoice       VetoType = "no_choice"
	VetoStale          VetoType = "stale_notification"
	VetoUnknownTrigger VetoType = "unknown_trigger"
	VetoIgnoredOff     VetoType = "ignored_disabled"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto-signal

// #region gate-config
// GateConfig controls which resolutions may reach the learning model.
type GateConfig struct {
	LearnFromIgnored bool // treat an explicit "ignored" like a dismissal
}

// DefaultGateConfig returns the standard configuration.
func DefaultGateConfig() GateConfig {
	return GateConfig{LearnFromIgnored: true}
}

// #endregion gate-config

// #region request
// Request is a resolution as it arrives from the presentation layer.
type Request struct {
	ShowingID      string // id of the notification on screen, "" when idle
	NotificationID string // id the resolution refers to
	Trigger        state.Trigger
	Outcome        state.Outcome
}

// #endregion request

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action      string // "commit" | "reject"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal
}

// #endregion gate-decision
