package compose

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/cohort"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/selector"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/view"
)

// #region notification

// Notification is one composed nudge. It lives until it is resolved.
type Notification struct {
	ID         string
	Trigger    state.Trigger
	Tone       state.Tone
	Hook       state.Hook
	Stage      state.Stage
	Kicker     string
	Title      string
	Body       string
	Projection Projection
}

// Projection holds the cohort numbers the body was built from.
type Projection struct {
	ExtraMinutes int
	BetterNow    int
	BetterProj   int
	WorseNow     int
	WorseProj    int
	WeekDelta    int
	CohortLabel  string
}

// #endregion notification

// #region compose

// Compose builds the notification for trigger with the chosen tone and hook.
func Compose(d state.DayState, trigger state.Trigger, tone state.Tone, hook state.Hook) Notification {
	stage := trigger.Stage()
	return Notification{
		ID:         uuid.New().String(),
		Trigger:    trigger,
		Tone:       tone,
		Hook:       hook,
		Stage:      stage,
		Kicker:     selector.Kicker(tone),
		Title:      selector.Title(tone, d.Day),
		Body:       Body(d, tone, stage),
		Projection: Project(d, stage),
	}
}

// ExtraMinutes is how far ahead the keep-going line projects.
func ExtraMinutes(stage state.Stage) int {
	if stage == state.StageOver {
		return 30
	}
	return 10
}

// Project computes the "now" and "keep going" cohort numbers. The projected
// position is never better than the current one.
func Project(d state.DayState, stage state.Stage) Projection {
	extra := ExtraMinutes(stage)
	in := cohort.Input{
		Day:          d.Day,
		Activity:     d.Activity,
		TimeOfDay:    d.TimeOfDay,
		Stage:        stage,
		TodayMinutes: d.TodayMinutes,
		Avg7Minutes:  d.Avg7Minutes,
	}
	now := cohort.Estimate(in)
	in.TodayMinutes += extra
	proj := cohort.Estimate(in)

	margin := max(3, int(math.Round(float64(extra)/4)))

	betterNow := now.BetterThanPct
	betterProj := proj.BetterThanPct
	if betterProj > betterNow {
		betterProj = max(0, betterNow-margin)
	}

	worseNow := 100 - betterNow
	worseProj := 100 - betterProj
	if worseProj < worseNow {
		worseProj = min(100, worseNow+margin)
		betterProj = 100 - worseProj
	}

	return Projection{
		ExtraMinutes: extra,
		BetterNow:    betterNow,
		BetterProj:   betterProj,
		WorseNow:     worseNow,
		WorseProj:    worseProj,
		WeekDelta:    now.WeekDelta,
		CohortLabel:  now.CohortLabel,
	}
}

// Body joins the non-empty message segments with single spaces.
func Body(d state.DayState, tone state.Tone, stage state.Stage) string {
	p := Project(d, stage)
	segments := []string{
		YesterdayLine(d),
		stopNowLine(tone, p),
		trendLine(p),
		KeepGoingLine(tone, p),
		closer(tone),
	}
	out := segments[:0]
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// #endregion compose

// #region segments

var recaps = map[state.Outcome]map[state.Trigger]string{
	state.OutcomeActed: {
		state.TriggerMinus: "Yesterday you stopped early. Bank another early win today.",
		state.TriggerZero:  "Yesterday you stopped right at the line. Try to stop a little earlier today.",
		state.TriggerPlus:  "Yesterday you stopped after you were over yesterday's time. Aim to cut sooner today.",
	},
	state.OutcomeDismissed: {
		state.TriggerPlus:  "Yesterday you kept going after the late nudge. Let's cap the spill earlier today.",
		state.TriggerZero:  "Yesterday you pushed past the match point. Consider stopping a bit sooner today.",
		state.TriggerMinus: "Yesterday you skipped the early nudge. Give yourself an early win today.",
	},
}

// YesterdayLine recaps yesterday's recorded outcome. Empty on day one or
// when nothing was recorded.
func YesterdayLine(d state.DayState) string {
	if d.Day <= 1 || !d.HasRecordedOutcome() {
		return ""
	}
	return recaps[d.LastOutcome][d.LastOutcomeStage]
}

func stopNowLine(tone state.Tone, p Projection) string {
	if tone == state.ToneConfrontational {
		return fmt.Sprintf("Right now you have more screen time than about %d%% of %s today.", p.WorseNow, p.CohortLabel)
	}
	return fmt.Sprintf("If you stop now, you will have less screen time than about %d%% of %s today.", p.BetterNow, p.CohortLabel)
}

func trendLine(p Projection) string {
	if p.WeekDelta >= 0 {
		return fmt.Sprintf("You are %s under your 7-day average today.", view.FormatHM(p.WeekDelta))
	}
	return fmt.Sprintf("You are %s over your 7-day average today.", view.FormatHM(-p.WeekDelta))
}

// KeepGoingLine states what continuing costs. Motivational messages have none.
func KeepGoingLine(tone state.Tone, p Projection) string {
	switch tone {
	case state.ToneMixed:
		return fmt.Sprintf("If you keep scrolling for %d more minutes, you will have more screen time than about %d%% of %s today.",
			p.ExtraMinutes, p.WorseProj, p.CohortLabel)
	case state.ToneConfrontational:
		return fmt.Sprintf("Every extra %d minutes puts you behind about %d%% of %s today.",
			p.ExtraMinutes, p.WorseProj, p.CohortLabel)
	}
	return ""
}

func closer(tone state.Tone) string {
	switch tone {
	case state.ToneMotivational:
		return "Lock this in with a short pause."
	case state.ToneMixed:
		return "Small decision, big effect. Take a short pause."
	}
	return "Cut it now and cap the loss."
}

// #endregion segments
