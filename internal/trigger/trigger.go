package trigger

import "github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"

// #region detect
// Detect checks the thresholds in priority order and fires at most one
// trigger. The fired flag is set on d before returning.
func Detect(d *state.DayState) (state.Trigger, bool) {
	diff := d.YesterdayMinutes - d.TodayMinutes
	over := d.TodayMinutes - d.YesterdayMinutes
	th := d.Thresholds

	switch {
	case !d.Fired.TMinus && diff > 0 && diff <= th.TMinus:
		d.Fired.Set(state.TriggerMinus)
		return state.TriggerMinus, true
	case !d.Fired.TZero && diff <= 0 && over <= th.TPlus:
		d.Fired.Set(state.TriggerZero)
		return state.TriggerZero, true
	case !d.Fired.TPlus && over >= th.TPlus:
		d.Fired.Set(state.TriggerPlus)
		return state.TriggerPlus, true
	}
	return state.TriggerNone, false
}

// #endregion detect
