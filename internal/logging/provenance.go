package logging

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region log-decision
// LogDecision writes a provenance entry to the nudge_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO nudge_log (notification_id, context_hash, event, day, today_minutes, trigger_type,
		 tone, hook, outcome, decision, reason, learning_version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.NotificationID,
		nullIfEmpty(entry.ContextHash),
		entry.Event,
		entry.Day,
		entry.TodayMinutes,
		entry.TriggerType,
		nullIfEmpty(entry.Tone),
		nullIfEmpty(entry.Hook),
		nullIfEmpty(entry.Outcome),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.LearningVersion),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region list-decisions
// ListDecisions returns the most recent entries, newest first.
func ListDecisions(db *sql.DB, limit int) ([]ProvenanceEntry, error) {
	rows, err := db.Query(
		`SELECT notification_id, context_hash, event, day, today_minutes, trigger_type, tone, hook,
		 outcome, decision, reason, learning_version, created_at
		 FROM nudge_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var entries []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		var hash, tone, hook, outcome, reason, version sql.NullString
		var created string
		if err := rows.Scan(&e.NotificationID, &hash, &e.Event, &e.Day, &e.TodayMinutes, &e.TriggerType,
			&tone, &hook, &outcome, &e.Decision, &reason, &version, &created); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.ContextHash = hash.String
		e.Tone = tone.String
		e.Hook = hook.String
		e.Outcome = outcome.String
		e.Reason = reason.String
		e.LearningVersion = version.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-decisions

// #region sink
// Sink receives provenance entries.
type Sink interface {
	LogDecision(entry ProvenanceEntry) error
}

// DBSink writes entries to a SQLite database holding the nudge_log table.
type DBSink struct {
	db *sql.DB
}

// NewDBSink wraps db.
func NewDBSink(db *sql.DB) *DBSink {
	return &DBSink{db: db}
}

// LogDecision implements Sink.
func (s *DBSink) LogDecision(entry ProvenanceEntry) error {
	return LogDecision(s.db, entry)
}

// #endregion sink

// #region context-hash
// ContextHash fingerprints the day context a decision was made in.
func ContextHash(d state.DayState) string {
	h := xxhash.New()
	for _, part := range []string{
		strconv.Itoa(d.Day),
		strconv.Itoa(d.YesterdayMinutes),
		strconv.Itoa(d.TodayMinutes),
		strconv.Itoa(d.Avg7Minutes),
		strconv.Itoa(d.Thresholds.TMinus),
		strconv.Itoa(d.Thresholds.TPlus),
		string(d.Activity),
		string(d.TimeOfDay),
		string(d.TonePreference),
		string(d.LastOutcome),
		string(d.LastOutcomeStage),
	} {
		h.WriteString(part)
		h.WriteString("|")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// #endregion context-hash

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
