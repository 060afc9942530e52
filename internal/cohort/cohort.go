// Package cohort produces synthetic peer-comparison statistics. Output is a
// pure function of the input so repeated renders of one state agree.
package cohort

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region types

// Input is the context a snapshot is keyed on.
type Input struct {
	Day          int
	Activity     state.Activity
	TimeOfDay    state.TimeOfDay
	Stage        state.Stage
	TodayMinutes int
	Avg7Minutes  int
}

// Stats is one synthetic cohort snapshot.
type Stats struct {
	BetterThanPct int    // share of the cohort with more screen time than the user
	WeekDelta     int    // avg7 - today; positive means under the weekly average
	CohortAvg     int    // synthetic peer average in minutes
	CohortLabel   string // plural noun for the peer group
}

// #endregion types

// #region labels

var labels = map[state.Activity]string{
	state.ActivityShortform: "short-form scrollers",
	state.ActivityStreaming: "streamers",
	state.ActivityGaming:    "gamers",
	state.ActivitySocial:    "social users",
	state.ActivityOther:     "users",
}

// Label returns the cohort noun for a, "users" when unknown.
func Label(a state.Activity) string {
	if l, ok := labels[a]; ok {
		return l
	}
	return "users"
}

// #endregion labels

// #region estimate

// Key composes the seed string for in.
func Key(in Input) string {
	return fmt.Sprintf("%d-%s-%s-%s-%d-%d",
		in.Day, in.Activity, in.TimeOfDay, in.Stage, in.TodayMinutes, in.Avg7Minutes)
}

// Estimate returns the snapshot for in. BetterThanPct lies in [40, 90).
func Estimate(in Input) Stats {
	rnd := NewRand(Key(in))
	better := int(math.Floor(40 + rnd.Float()*50))
	avg := roundHalfUp(float64(in.TodayMinutes) + (rnd.Float()*40 - 20))
	if avg < 0 {
		avg = 0
	}
	return Stats{
		BetterThanPct: better,
		WeekDelta:     in.Avg7Minutes - in.TodayMinutes,
		CohortAvg:     avg,
		CohortLabel:   Label(in.Activity),
	}
}

// #endregion estimate

// #region rand

// Rand is a 32-bit LCG seeded from a string hash.
type Rand struct {
	h int32
}

// NewRand seeds from s using the 31-multiplier string hash.
func NewRand(s string) *Rand {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return &Rand{h: h}
}

// Float returns the next value in [0, 1) with three decimals of resolution.
func (r *Rand) Float() float64 {
	r.h = 1664525 * (r.h + 1013904223)
	return float64(uint32(r.h)%1000) / 1000
}

// roundHalfUp rounds halves toward +Inf, unlike math.Round for negative values.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// #endregion rand
