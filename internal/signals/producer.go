package signals

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region producer

// Producer turns day context into hook nudges.
type Producer struct {
	config ProducerConfig
}

// NewProducer creates a Producer.
func NewProducer(config ProducerConfig) *Producer {
	return &Producer{config: config}
}

// #endregion producer

// #region produce

// Produce computes the nudges for the current activity and time of day.
func (p *Producer) Produce(d state.DayState) HookNudges {
	n := HookNudges{}
	evening := d.TimeOfDay == state.Evening

	switch d.Activity {
	case state.ActivityShortform:
		n[state.HookRegret] += p.config.ShortformRegret
		n[state.HookFocus] += p.config.ShortformFocus
	case state.ActivityStreaming, state.ActivityGaming:
		n[state.HookSocial] += p.config.BingeSocial
		if evening {
			n[state.HookSleep] += p.config.BingeSleepEvening
		} else {
			n[state.HookSleep] += p.config.BingeSleepOtherwise
		}
	}
	if evening {
		n[state.HookSleep] += p.config.EveningSleep
	}
	return n
}

// Apply returns scores with the nudges added. scores is not modified.
func (n HookNudges) Apply(scores map[state.Hook]float64) map[state.Hook]float64 {
	out := make(map[state.Hook]float64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	for k, v := range n {
		out[k] += v
	}
	return out
}

// #endregion produce
