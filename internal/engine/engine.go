// Package engine hosts the nudge loop: it owns the live day, the learning
// model, the clock and the interruption coordinator, and exposes the
// commands a presentation layer sends.
package engine

import (
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/clock"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/compose"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/interrupt"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/signals"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/update"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/view"
)

// #region engine-struct

// Engine is safe for concurrent use. Every command and every tick holds mu,
// so no tick interleaves with a command.
type Engine struct {
	mu sync.Mutex

	kv    state.KV
	store *state.Store
	sink  logging.Sink
	log   zerolog.Logger

	day      state.DayState
	learning state.LearningModel
	version  string
	tod      state.TimeOfDay

	clock    *clock.Clock
	coord    *interrupt.Coordinator
	producer *signals.Producer
	gate     *gate.Gate
	eval     *eval.EvalHarness
	update   update.UpdateConfig

	timeout  time.Duration
	watchdog *bclock.Timer

	// set by the recorder during a resolve
	lastRecord *Resolution
}

// #endregion engine-struct

// #region constructor

// New loads the persisted records and returns an engine with a stopped clock.
// Store read failures are logged and the defaults are used.
func New(opts Options) *Engine {
	if opts.KV == nil {
		if opts.Store != nil {
			opts.KV = opts.Store
		} else {
			opts.KV = state.NewMemoryKV()
		}
	}
	if opts.Update == (update.UpdateConfig{}) {
		opts.Update = update.DefaultUpdateConfig()
	}
	if opts.Eval == (eval.EvalConfig{}) {
		opts.Eval = eval.DefaultEvalConfig()
	}
	if opts.Signals == (signals.ProducerConfig{}) {
		opts.Signals = signals.DefaultProducerConfig()
	}

	e := &Engine{
		kv:       opts.KV,
		store:    opts.Store,
		sink:     opts.Sink,
		log:      opts.Logger,
		producer: signals.NewProducer(opts.Signals),
		gate:     gate.NewGate(opts.Gate),
		eval:     eval.NewEvalHarness(opts.Eval),
		update:   opts.Update,
		timeout:  opts.NotificationTimeout,
	}
	if opts.TimeOfDay != "" {
		e.tod = state.ParseTimeOfDay(string(opts.TimeOfDay))
	}

	e.clock = clock.New(opts.Clock, opts.TickInterval, e.onTick)
	e.coord = interrupt.New(e.clock, opts.Presenter, recorder{e})

	day, err := state.LoadDay(e.kv)
	if err != nil {
		e.log.Warn().Err(err).Msg("using default day state")
	}
	learning, err := state.LoadLearning(e.kv)
	if err != nil {
		e.log.Warn().Err(err).Msg("using default learning model")
	}
	if e.tod != "" {
		day.TimeOfDay = e.tod
	}
	e.day = day
	e.learning = learning

	if e.store != nil {
		if v, err := e.store.ActiveLearningVersion(); err != nil {
			e.log.Warn().Err(err).Msg("read active learning version")
		} else {
			e.version = v
		}
	}

	e.log.Info().
		Int("day", day.Day).
		Int("today", day.TodayMinutes).
		Int("yesterday", day.YesterdayMinutes).
		Str("version", e.version).
		Msg("engine loaded")
	return e
}

// Close stops the clock and any pending watchdog.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Stop()
	e.stopWatchdogLocked()
}

// #endregion constructor

// #region accessors

// Day returns a copy of the live day state.
func (e *Engine) Day() state.DayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.day
}

// Learning returns a copy of the learning model.
func (e *Engine) Learning() state.LearningModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learning.Clone()
}

// LearningVersion is the id of the last committed learning version, "" when
// no store is attached or nothing was committed.
func (e *Engine) LearningVersion() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Showing returns the notification on screen.
func (e *Engine) Showing() (compose.Notification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coord.Current()
}

// ClockRunning reports whether simulated time is advancing.
func (e *Engine) ClockRunning() bool {
	return e.clock.Running()
}

// View derives the display values of the live day.
func (e *Engine) View() view.Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return view.Build(e.day)
}

// Details is the plain-text day summary.
func (e *Engine) Details() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return view.Details(e.day)
}

// #endregion accessors

// #region clock-commands

// StartClock starts ticking. It refuses while a notification is showing;
// the coordinator decides when the clock resumes.
func (e *Engine) StartClock() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coord.Phase() == interrupt.Showing {
		return false
	}
	return e.clock.Start()
}

// StopClock stops ticking.
func (e *Engine) StopClock() bool {
	return e.clock.Stop()
}

// ToggleClock flips between running and paused and reports the new state.
func (e *Engine) ToggleClock() bool {
	if e.clock.Running() {
		e.StopClock()
		return false
	}
	return e.StartClock()
}

// Tick advances one simulated minute, as the clock would.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coord.Phase() == interrupt.Showing {
		return
	}
	e.addMinutesLocked(1)
}

func (e *Engine) onTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	// A tick can race a Stop issued under the lock.
	if !e.clock.Running() || e.coord.Phase() == interrupt.Showing {
		return
	}
	e.addMinutesLocked(1)
}

// #endregion clock-commands

// #region input-commands

// AddMinutes adds n minutes to today and runs detection.
func (e *Engine) AddMinutes(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addMinutesLocked(n)
}

// SetToday overwrites today's minutes and runs detection.
func (e *Engine) SetToday(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.TodayMinutes = max(0, n)
	e.saveDayLocked()
	e.detectLocked()
}

// SetYesterday overwrites yesterday's total and re-arms all triggers.
func (e *Engine) SetYesterday(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.YesterdayMinutes = max(0, n)
	e.day.ResetFired()
	e.saveDayLocked()
}

// SetAvg7 overwrites the 7-day average.
func (e *Engine) SetAvg7(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.Avg7Minutes = max(0, n)
	e.saveDayLocked()
}

// SetThreshold sets the t_minus or t_plus distance and re-arms all triggers.
// Other triggers are not configurable and return false.
func (e *Engine) SetThreshold(which state.Trigger, n int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch which {
	case state.TriggerMinus:
		e.day.Thresholds.TMinus = max(0, n)
	case state.TriggerPlus:
		e.day.Thresholds.TPlus = max(0, n)
	default:
		return false
	}
	e.day.ResetFired()
	e.saveDayLocked()
	return true
}

// SetActivity sets the activity. Unknown values become "other".
func (e *Engine) SetActivity(a string) state.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.Activity = state.ParseActivity(a)
	e.saveDayLocked()
	return e.day.Activity
}

// SetTonePreference sets the explicit tone. Unknown values become "auto".
func (e *Engine) SetTonePreference(t string) state.Tone {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.TonePreference = state.ParseTonePreference(t)
	e.saveDayLocked()
	return e.day.TonePreference
}

// SetLanguage sets the label language. Unknown values become "en".
func (e *Engine) SetLanguage(l string) state.Language {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.day.Language = state.ParseLanguage(l)
	e.saveDayLocked()
	return e.day.Language
}

// #endregion input-commands

// #region day-commands

// Rollover closes any showing notification without recording, then advances
// to the next day.
func (e *Engine) Rollover(carry bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeSilentlyLocked("rollover")
	e.day.Rollover(carry)
	e.saveDayLocked()
	e.log.Info().
		Int("day", e.day.Day).
		Int("yesterday", e.day.YesterdayMinutes).
		Int("avg7", e.day.Avg7Minutes).
		Bool("carry", carry).
		Msg("rollover")
}

// ResetLearningAndDay restores both records to defaults and stops the clock.
func (e *Engine) ResetLearningAndDay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeSilentlyLocked("reset")
	e.clock.Stop()

	e.day = state.DefaultDayState()
	if e.tod != "" {
		e.day.TimeOfDay = e.tod
	}
	e.learning = state.DefaultLearningModel()
	e.saveDayLocked()
	e.saveLearningLocked("reset")
	e.log.Info().Msg("learning and day reset")
}

// #endregion day-commands

// #region persistence

func (e *Engine) saveDayLocked() {
	if err := state.SaveDay(e.kv, e.day); err != nil {
		e.log.Error().Err(err).Msg("persist day state")
	}
}

// saveLearningLocked writes the learning record, versioned when a store is attached.
func (e *Engine) saveLearningLocked(reason string) {
	if e.store != nil {
		v, err := e.store.CommitLearning(e.learning, reason)
		if err != nil {
			e.log.Error().Err(err).Msg("commit learning")
			return
		}
		e.version = v
		return
	}
	if err := state.SaveLearning(e.kv, e.learning); err != nil {
		e.log.Error().Err(err).Msg("persist learning")
	}
}

func (e *Engine) logDecision(entry logging.ProvenanceEntry) {
	if e.sink == nil {
		return
	}
	if err := e.sink.LogDecision(entry); err != nil {
		e.log.Error().Err(err).Str("notification", entry.NotificationID).Msg("provenance")
	}
}

// #endregion persistence
