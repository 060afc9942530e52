package signals

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region config

// ProducerConfig holds the additive hook nudges derived from day context.
type ProducerConfig struct {
	ShortformRegret     float64 // regret boost while on short-form video
	ShortformFocus      float64 // focus boost while on short-form video
	BingeSocial         float64 // social boost while streaming or gaming
	BingeSleepEvening   float64 // sleep boost while streaming or gaming in the evening
	BingeSleepOtherwise float64 // sleep boost while streaming or gaming at other times
	EveningSleep        float64 // sleep boost for any evening activity
}

// DefaultProducerConfig returns the pinned nudge sizes.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		ShortformRegret:     0.2,
		ShortformFocus:      0.1,
		BingeSocial:         0.1,
		BingeSleepEvening:   0.2,
		BingeSleepOtherwise: 0.05,
		EveningSleep:        0.15,
	}
}

// #endregion config

// #region nudges

// HookNudges are additive offsets applied on top of learned hook scores.
type HookNudges map[state.Hook]float64

// #endregion nudges
