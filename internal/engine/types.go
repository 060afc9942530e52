package engine

import (
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/interrupt"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/signals"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/update"
)

// #region options
// Options wires an Engine. Start from DefaultOptions and override fields.
type Options struct {
	// KV holds the day and learning records. Defaults to Store when set,
	// otherwise to a fresh in-memory store.
	KV state.KV

	// Store, when set, versions every learning commit.
	Store *state.Store

	// Sink receives provenance entries. Nil disables provenance.
	Sink logging.Sink

	// Clock drives ticks and the watchdog. Nil means wall time.
	Clock bclock.Clock

	Presenter interrupt.Presenter
	Logger    zerolog.Logger

	TickInterval        time.Duration
	NotificationTimeout time.Duration // zero disables the watchdog
	TimeOfDay           state.TimeOfDay

	Gate    gate.GateConfig
	Update  update.UpdateConfig
	Eval    eval.EvalConfig
	Signals signals.ProducerConfig
}

// DefaultOptions returns an in-memory engine setup with the pinned heuristics.
func DefaultOptions() Options {
	return Options{
		Logger:       zerolog.Nop(),
		TickInterval: 600 * time.Millisecond,
		Gate:         gate.DefaultGateConfig(),
		Update:       update.DefaultUpdateConfig(),
		Eval:         eval.DefaultEvalConfig(),
		Signals:      signals.DefaultProducerConfig(),
	}
}

// #endregion options

// #region resolution
// Resolution describes a closed notification as the engine handled it.
type Resolution struct {
	NotificationID string
	Trigger        state.Trigger
	Outcome        state.Outcome
	Recorded       bool
	Resumed        bool
	Decision       string // "commit" | "reject" | "rollback" | "no_op"
	Reason         string
	NextTone       state.Tone
}

// #endregion resolution
