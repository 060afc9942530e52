package gate

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region gate
// Gate decides whether a resolution is recorded and fed to learning.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate checks hard vetoes in order. Any veto rejects the learning update;
// the caller still closes the notification.
func (g *Gate) Evaluate(req Request) GateDecision {
	var vetoes []VetoSignal

	// 1. Nothing showing, or the resolution targets another notification
	if req.ShowingID == "" {
		vetoes = append(vetoes, VetoSignal{Type: VetoStale, Reason: "no notification showing"})
	} else if req.NotificationID != "" && req.NotificationID != req.ShowingID {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoStale,
			Reason: fmt.Sprintf("notification %s is not the one showing", req.NotificationID),
		})
	}

	// 2. Closed without choosing
	if req.Outcome == state.OutcomeNone {
		vetoes = append(vetoes, VetoSignal{Type: VetoNoChoice, Reason: "closed without a choice"})
	}

	// 3. Ignored outcomes may be switched off
	if req.Outcome == state.OutcomeIgnored && !g.config.LearnFromIgnored {
		vetoes = append(vetoes, VetoSignal{Type: VetoIgnoredOff, Reason: "ignored outcomes are not learned from"})
	}

	// 4. Unknown trigger
	switch req.Trigger {
	case state.TriggerMinus, state.TriggerZero, state.TriggerPlus:
	default:
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoUnknownTrigger,
			Reason: fmt.Sprintf("unknown trigger %q", req.Trigger),
		})
	}

	if len(vetoes) > 0 {
		return GateDecision{
			Action:      "reject",
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
		}
	}

	return GateDecision{
		Action: "commit",
		Reason: fmt.Sprintf("passed gate: %s on %s", req.Outcome, req.Trigger),
	}
}

// #endregion gate
