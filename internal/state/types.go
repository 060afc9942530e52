package state

// #region enums
// Trigger is one of the three one-shot daily threshold events.
type Trigger string

const (
	TriggerMinus Trigger = "t_minus"
	TriggerZero  Trigger = "t_zero"
	TriggerPlus  Trigger = "t_plus"
	TriggerNone  Trigger = ""
)

// Triggers lists the triggers in detection priority order.
var Triggers = []Trigger{TriggerMinus, TriggerZero, TriggerPlus}

// Stage is the coarse timing class of a trigger.
type Stage string

const (
	StageEarly Stage = "early"
	StageMatch Stage = "match"
	StageOver  Stage = "over"
)

// Stage maps a trigger to its message stage.
func (t Trigger) Stage() Stage {
	switch t {
	case TriggerMinus:
		return StageEarly
	case TriggerZero:
		return StageMatch
	default:
		return StageOver
	}
}

// Tone is the rhetorical register of a notification.
type Tone string

const (
	ToneAuto            Tone = "auto"
	ToneMotivational    Tone = "motivational"
	ToneMixed           Tone = "mixed"
	ToneConfrontational Tone = "confrontational"
)

// ToneLadder orders tones from softest to harshest.
var ToneLadder = []Tone{ToneMotivational, ToneMixed, ToneConfrontational}

// LadderIndex returns the position of t on the ladder, or -1.
func LadderIndex(t Tone) int {
	for i, l := range ToneLadder {
		if l == t {
			return i
		}
	}
	return -1
}

// Hook is the emotional framing used to pick message content.
type Hook string

const (
	HookSleep  Hook = "sleep"
	HookFocus  Hook = "focus"
	HookSocial Hook = "social"
	HookRegret Hook = "regret"
	HookReward Hook = "reward"
)

// Hooks is the fixed enumeration order; it breaks score ties.
var Hooks = []Hook{HookSleep, HookFocus, HookSocial, HookRegret, HookReward}

// Activity is what the user is spending screen time on.
type Activity string

const (
	ActivityShortform Activity = "shortform"
	ActivityStreaming Activity = "streaming"
	ActivityGaming    Activity = "gaming"
	ActivitySocial    Activity = "social"
	ActivityOther     Activity = "other"
)

// TimeOfDay is internal context; it is never shown to the user.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// Language selects localised labels.
type Language string

const (
	LangEN Language = "en"
	LangNL Language = "nl"
)

// Outcome is how the user resolved a notification.
type Outcome string

const (
	OutcomeActed     Outcome = "acted"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeNone      Outcome = ""
)

// #endregion enums

// #region parse
// ParseActivity falls back to ActivityOther for unknown values.
func ParseActivity(s string) Activity {
	switch a := Activity(s); a {
	case ActivityShortform, ActivityStreaming, ActivityGaming, ActivitySocial, ActivityOther:
		return a
	}
	return ActivityOther
}

// ParseTonePreference falls back to ToneAuto for unknown values.
func ParseTonePreference(s string) Tone {
	switch t := Tone(s); t {
	case ToneAuto, ToneMotivational, ToneMixed, ToneConfrontational:
		return t
	}
	return ToneAuto
}

// ParseLanguage falls back to LangEN.
func ParseLanguage(s string) Language {
	if Language(s) == LangNL {
		return LangNL
	}
	return LangEN
}

// ParseTimeOfDay falls back to Evening.
func ParseTimeOfDay(s string) TimeOfDay {
	switch t := TimeOfDay(s); t {
	case Morning, Afternoon, Evening:
		return t
	}
	return Evening
}

// ParseOutcome accepts acted, dismissed and ignored; anything else is OutcomeNone.
func ParseOutcome(s string) Outcome {
	switch o := Outcome(s); o {
	case OutcomeActed, OutcomeDismissed, OutcomeIgnored:
		return o
	}
	return OutcomeNone
}

// #endregion parse

// #region day-state
// Thresholds are minute distances from yesterday's total.
type Thresholds struct {
	TMinus int `json:"t_minus"`
	TZero  int `json:"t_zero"`
	TPlus  int `json:"t_plus"`
}

// Fired records which triggers already fired today.
type Fired struct {
	TMinus bool `json:"t_minus"`
	TZero  bool `json:"t_zero"`
	TPlus  bool `json:"t_plus"`
}

// Has reports whether t already fired.
func (f Fired) Has(t Trigger) bool {
	switch t {
	case TriggerMinus:
		return f.TMinus
	case TriggerZero:
		return f.TZero
	case TriggerPlus:
		return f.TPlus
	}
	return false
}

// Set marks t as fired.
func (f *Fired) Set(t Trigger) {
	switch t {
	case TriggerMinus:
		f.TMinus = true
	case TriggerZero:
		f.TZero = true
	case TriggerPlus:
		f.TPlus = true
	}
}

// DayState is the live simulated day.
type DayState struct {
	Day              int        `json:"day"`
	YesterdayMinutes int        `json:"yesterday"`
	TodayMinutes     int        `json:"today"`
	Avg7Minutes      int        `json:"avg7"`
	Thresholds       Thresholds `json:"thresholds"`
	TimeOfDay        TimeOfDay  `json:"timeOfDay"`
	Activity         Activity   `json:"activity"`
	TonePreference   Tone       `json:"tonePref"`
	Language         Language   `json:"lang"`
	Fired            Fired      `json:"fired"`
	LastOutcome      Outcome    `json:"lastOutcome"`
	LastOutcomeStage Trigger    `json:"lastOutcomeStage"`
}

// DefaultDayState returns the first-day defaults.
func DefaultDayState() DayState {
	return DayState{
		Day:              1,
		YesterdayMinutes: 230,
		TodayMinutes:     0,
		Avg7Minutes:      245,
		Thresholds:       Thresholds{TMinus: 15, TZero: 0, TPlus: 15},
		TimeOfDay:        Evening,
		Activity:         ActivityShortform,
		TonePreference:   ToneAuto,
		Language:         LangEN,
	}
}

// Normalize clamps numbers and replaces unknown enum values with safe defaults.
func (d *DayState) Normalize() {
	if d.Day < 1 {
		d.Day = 1
	}
	d.YesterdayMinutes = nonNegative(d.YesterdayMinutes)
	d.TodayMinutes = nonNegative(d.TodayMinutes)
	d.Avg7Minutes = nonNegative(d.Avg7Minutes)
	d.Thresholds.TMinus = nonNegative(d.Thresholds.TMinus)
	d.Thresholds.TZero = nonNegative(d.Thresholds.TZero)
	d.Thresholds.TPlus = nonNegative(d.Thresholds.TPlus)
	d.TimeOfDay = ParseTimeOfDay(string(d.TimeOfDay))
	d.Activity = ParseActivity(string(d.Activity))
	d.TonePreference = ParseTonePreference(string(d.TonePreference))
	d.Language = ParseLanguage(string(d.Language))

	switch d.LastOutcome {
	case OutcomeActed, OutcomeDismissed:
	default:
		d.LastOutcome = OutcomeNone
	}
	switch d.LastOutcomeStage {
	case TriggerMinus, TriggerZero, TriggerPlus:
	default:
		d.LastOutcomeStage = TriggerNone
	}
}

// ResetFired clears all one-shot flags.
func (d *DayState) ResetFired() {
	d.Fired = Fired{}
}

// HasRecordedOutcome reports whether a previous resolution was recorded.
func (d DayState) HasRecordedOutcome() bool {
	return d.LastOutcome != OutcomeNone && d.LastOutcomeStage != TriggerNone
}

// #endregion day-state

// #region learning-model
// LearningModel is the cross-day adaptive model.
type LearningModel struct {
	ToneByTrigger map[Trigger]Tone `json:"toneByTrigger"`
	HookScores    map[Hook]float64 `json:"hookScores"`
}

// Hook score bounds after any update.
const (
	MinHookScore = 0.0
	MaxHookScore = 1.5
)

// DefaultLearningModel returns the untrained model.
func DefaultLearningModel() LearningModel {
	return LearningModel{
		ToneByTrigger: map[Trigger]Tone{
			TriggerMinus: ToneMotivational,
			TriggerZero:  ToneMixed,
			TriggerPlus:  ToneConfrontational,
		},
		HookScores: map[Hook]float64{
			HookSleep:  0.6,
			HookFocus:  0.4,
			HookSocial: 0.3,
			HookRegret: 0.7,
			HookReward: 0.5,
		},
	}
}

// Clone returns a deep copy.
func (m LearningModel) Clone() LearningModel {
	out := LearningModel{
		ToneByTrigger: make(map[Trigger]Tone, len(m.ToneByTrigger)),
		HookScores:    make(map[Hook]float64, len(m.HookScores)),
	}
	for k, v := range m.ToneByTrigger {
		out.ToneByTrigger[k] = v
	}
	for k, v := range m.HookScores {
		out.HookScores[k] = v
	}
	return out
}

// #endregion learning-model

// #region helpers
func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// #endregion helpers
