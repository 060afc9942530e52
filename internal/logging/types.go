package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the nudge_log table.
type ProvenanceEntry struct {
	NotificationID  string
	ContextHash     string
	Event           string // "show" | "resolve"
	Day             int
	TodayMinutes    int
	TriggerType     string
	Tone            string
	Hook            string
	Outcome         string
	Decision        string // "shown" | "commit" | "reject" | "rollback" | "no_op"
	Reason          string
	LearningVersion string
	CreatedAt       time.Time
}

// #endregion provenance-entry

// #region event-names
const (
	EventShow    = "show"
	EventResolve = "resolve"
)

// #endregion event-names
