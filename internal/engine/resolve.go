package engine

import (
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/compose"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/interrupt"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/selector"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/trigger"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/update"
)

// #region detect-and-show

func (e *Engine) addMinutesLocked(n int) {
	e.day.TodayMinutes = max(0, e.day.TodayMinutes+n)
	e.saveDayLocked()
	e.detectLocked()
}

// detectLocked fires at most one trigger and shows its notification.
// Detection is suspended while a notification is showing.
func (e *Engine) detectLocked() {
	if e.coord.Phase() == interrupt.Showing {
		return
	}
	t, ok := trigger.Detect(&e.day)
	if !ok {
		return
	}
	e.saveDayLocked()

	hook := selector.PickHook(e.learning, e.producer.Produce(e.day))
	tone := selector.PickTone(e.day, e.learning, t)
	n := compose.Compose(e.day, t, tone, hook)

	e.coord.Show(n)
	e.armWatchdogLocked(n.ID)

	e.logDecision(e.entry(n, logging.EventShow, state.OutcomeNone, "shown", n.Title))
	e.log.Info().
		Str("notification", n.ID).
		Str("trigger", string(t)).
		Str("tone", string(tone)).
		Str("hook", string(hook)).
		Int("today", e.day.TodayMinutes).
		Msg("nudge shown")
}

// #endregion detect-and-show

// #region resolve

// Resolve closes the notification with id. An empty id targets whatever is
// showing. Resolving when nothing matches is a no-op and returns false.
// Outcome none closes without recording anything.
func (e *Engine) Resolve(id string, outcome state.Outcome) (Resolution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(id, outcome)
}

// ResolveCurrent resolves the notification on screen.
func (e *Engine) ResolveCurrent(outcome state.Outcome) (Resolution, bool) {
	return e.Resolve("", outcome)
}

func (e *Engine) resolveLocked(id string, outcome state.Outcome) (Resolution, bool) {
	cur, showing := e.coord.Current()
	req := gate.Request{NotificationID: id, Trigger: cur.Trigger, Outcome: outcome}
	if showing {
		req.ShowingID = cur.ID
	}
	dec := e.gate.Evaluate(req)
	if hasVeto(dec, gate.VetoStale) {
		e.log.Debug().Str("notification", id).Str("reason", dec.Reason).Msg("resolve ignored")
		return Resolution{}, false
	}

	// A vetoed resolution still closes the notification, without recording.
	recorded := outcome
	if dec.Vetoed {
		recorded = state.OutcomeNone
	}

	e.stopWatchdogLocked()
	e.lastRecord = nil
	closed, ok := e.coord.Resolve(cur.ID, recorded)
	if !ok {
		return Resolution{}, false
	}

	res := Resolution{
		NotificationID: cur.ID,
		Trigger:        cur.Trigger,
		Outcome:        outcome,
		Recorded:       closed.Recorded,
		Resumed:        closed.Resumed,
		Decision:       dec.Action,
		Reason:         dec.Reason,
	}
	if e.lastRecord != nil {
		res.Decision = e.lastRecord.Decision
		res.Reason = e.lastRecord.Reason
		res.NextTone = e.lastRecord.NextTone
		e.lastRecord = nil
	} else {
		e.logDecision(e.entry(cur, logging.EventResolve, outcome, dec.Action, dec.Reason))
	}

	e.log.Info().
		Str("notification", cur.ID).
		Str("trigger", string(cur.Trigger)).
		Str("outcome", string(outcome)).
		Str("decision", res.Decision).
		Bool("resumed", res.Resumed).
		Msg("nudge resolved")
	return res, true
}

// closeSilentlyLocked drops the showing notification without recording.
func (e *Engine) closeSilentlyLocked(reason string) {
	cur, showing := e.coord.Current()
	if !showing {
		return
	}
	e.stopWatchdogLocked()
	e.coord.Resolve(cur.ID, state.OutcomeNone)
	e.logDecision(e.entry(cur, logging.EventResolve, state.OutcomeNone, "no_op", reason))
}

func hasVeto(dec gate.GateDecision, t gate.VetoType) bool {
	for _, v := range dec.VetoSignals {
		if v.Type == t {
			return true
		}
	}
	return false
}

// #endregion resolve

// #region record

// recorder adapts the engine to interrupt.Recorder. The coordinator calls it
// while the engine lock is held.
type recorder struct {
	e *Engine
}

func (r recorder) Record(n compose.Notification, outcome state.Outcome) {
	r.e.recordLocked(n, outcome)
}

// recordLocked runs update and eval, then persists and logs the result.
func (e *Engine) recordLocked(n compose.Notification, outcome state.Outcome) {
	in := update.Resolution{
		Trigger:        n.Trigger,
		Outcome:        outcome,
		Hook:           n.Hook,
		TonePreference: e.day.TonePreference,
	}
	result := update.Update(e.learning, in, e.update)
	out := Resolution{
		Decision: result.Decision.Action,
		Reason:   result.Decision.Reason,
		NextTone: result.NextTone,
	}

	if result.Decision.Action == "commit" {
		ev := e.eval.Run(result.NewModel)
		if ev.Passed {
			e.learning = result.NewModel
			e.saveLearningLocked(result.Decision.Reason)
		} else {
			in.Outcome = state.OutcomeNone
			out.Decision = "rollback"
			out.Reason = ev.Reason
			out.NextTone = update.Update(e.learning, in, e.update).NextTone
			e.log.Warn().Str("reason", ev.Reason).Msg("learning update rolled back")
		}
	}

	// Ignoring counts as carrying on for the next day's recap.
	last := outcome
	if last == state.OutcomeIgnored {
		last = state.OutcomeDismissed
	}
	e.day.LastOutcome = last
	e.day.LastOutcomeStage = n.Trigger
	e.saveDayLocked()

	e.logDecision(e.entry(n, logging.EventResolve, outcome, out.Decision, out.Reason))
	e.lastRecord = &out
}

func (e *Engine) entry(n compose.Notification, event string, outcome state.Outcome, decision, reason string) logging.ProvenanceEntry {
	return logging.ProvenanceEntry{
		NotificationID:  n.ID,
		ContextHash:     logging.ContextHash(e.day),
		Event:           event,
		Day:             e.day.Day,
		TodayMinutes:    e.day.TodayMinutes,
		TriggerType:     string(n.Trigger),
		Tone:            string(n.Tone),
		Hook:            string(n.Hook),
		Outcome:         string(outcome),
		Decision:        decision,
		Reason:          reason,
		LearningVersion: e.version,
	}
}

// #endregion record

// #region watchdog

func (e *Engine) armWatchdogLocked(id string) {
	if e.timeout <= 0 {
		return
	}
	e.stopWatchdogLocked()
	e.watchdog = e.clock.AfterFunc(e.timeout, func() {
		if _, ok := e.Resolve(id, state.OutcomeNone); ok {
			e.log.Info().Str("notification", id).Msg("watchdog closed unanswered nudge")
		}
	})
}

func (e *Engine) stopWatchdogLocked() {
	if e.watchdog != nil {
		e.watchdog.Stop()
		e.watchdog = nil
	}
}

// #endregion watchdog
