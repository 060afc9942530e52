package state

import "math"

// #region rollover
// Rollover advances to the next day. With carry set, today's total becomes
// yesterday's. The last outcome survives so the new day can open with it.
func (d *DayState) Rollover(carry bool) {
	if carry {
		d.YesterdayMinutes = d.TodayMinutes
	}
	d.TodayMinutes = 0
	if d.Day < 1 {
		d.Day = 1
	}
	d.Day++
	d.ResetFired()
	d.Avg7Minutes = int(math.Round(float64(d.Avg7Minutes*6+d.YesterdayMinutes) / 7))
	d.Normalize()
}

// #endregion rollover
