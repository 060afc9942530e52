// Package view derives the read-only display values the presentation layer renders.
package view

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// Values is everything a widget needs to draw the day.
type Values struct {
	DayLabel      string
	TodayHM       string
	TodaySub      string
	YesterdayHM   string
	YesterdaySub  string
	ProgressPct   int // share of yesterday used, 0..100
	ProgressLabel string
	DeltaLabel    string // "N min left" or "N min over"
	Avg7Label     string
}

// FormatHM renders minutes as "3h 05m". Negative input renders as zero.
func FormatHM(min int) string {
	if min < 0 {
		min = 0
	}
	return fmt.Sprintf("%dh %02dm", min/60, min%60)
}

// Progress returns today/yesterday clamped to [0, 1]. The denominator is at least one.
func Progress(d state.DayState) float64 {
	p := float64(d.TodayMinutes) / float64(max(1, d.YesterdayMinutes))
	return math.Max(0, math.Min(1, p))
}

// DeltaLabel reports minutes remaining until, or over, yesterday's total.
func DeltaLabel(d state.DayState) string {
	delta := d.YesterdayMinutes - d.TodayMinutes
	if delta >= 0 {
		return fmt.Sprintf("%d min left", delta)
	}
	return fmt.Sprintf("%d min over", -delta)
}

// Avg7Label is the localised 7-day average label.
func Avg7Label(d state.DayState) string {
	prefix := "7-day avg"
	if d.Language == state.LangNL {
		prefix = "7-daags gem."
	}
	return fmt.Sprintf("%s: %s", prefix, FormatHM(d.Avg7Minutes))
}

// Build derives all display values from d.
func Build(d state.DayState) Values {
	pct := int(math.Round(Progress(d) * 100))
	return Values{
		DayLabel:      fmt.Sprintf("Day %d", d.Day),
		TodayHM:       FormatHM(d.TodayMinutes),
		TodaySub:      fmt.Sprintf("%d min", d.TodayMinutes),
		YesterdayHM:   FormatHM(d.YesterdayMinutes),
		YesterdaySub:  fmt.Sprintf("%d min", d.YesterdayMinutes),
		ProgressPct:   pct,
		ProgressLabel: fmt.Sprintf("%d%%", pct),
		DeltaLabel:    DeltaLabel(d),
		Avg7Label:     Avg7Label(d),
	}
}

// Details is the plain-text summary shown by the details action.
func Details(d state.DayState) string {
	return fmt.Sprintf("Day %d\nToday: %d min\nYesterday: %d min\n7-day avg: %d min\nActivity: %s",
		d.Day, d.TodayMinutes, d.YesterdayMinutes, d.Avg7Minutes, d.Activity)
}
