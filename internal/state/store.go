package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS records (
	key         TEXT PRIMARY KEY,
	value       TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS learning_versions (
	version_id  TEXT PRIMARY KEY,
	parent_id   TEXT,
	model_json  TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES learning_versions(version_id)
);

CREATE TABLE IF NOT EXISTS active_learning (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version_id  TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES learning_versions(version_id)
);

CREATE TABLE IF NOT EXISTS nudge_log (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	notification_id  TEXT NOT NULL,
	context_hash     TEXT,
	event            TEXT NOT NULL,
	day              INTEGER NOT NULL,
	today_minutes    INTEGER NOT NULL,
	trigger_type     TEXT NOT NULL,
	tone             TEXT,
	hook             TEXT,
	outcome          TEXT,
	decision         TEXT NOT NULL,
	reason           TEXT,
	learning_version TEXT,
	created_at       TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store is the SQLite-backed record store. It implements KV and keeps a
// version history of the learning model.
type Store struct {
	db *sql.DB
}

// LearningVersion is one committed learning model snapshot.
type LearningVersion struct {
	VersionID string
	ParentID  string
	Model     LearningModel
	Reason    string
	CreatedAt time.Time
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and writes serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region kv
// Get returns the raw record stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put upserts the record stored under key.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// #endregion kv

// #region commit-learning
// CommitLearning stores m as the active learning record and appends a
// version row linked to the previous active version. Returns the new version id.
func (s *Store) CommitLearning(m LearningModel, reason string) (string, error) {
	modelJSON, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal learning: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parent sql.NullString
	err = tx.QueryRow(`SELECT version_id FROM active_learning WHERE id = 1`).Scan(&parent)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get active: %w", err)
	}

	var parentPtr interface{}
	if parent.Valid {
		parentPtr = parent.String
	}

	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = tx.Exec(
		`INSERT INTO learning_versions (version_id, parent_id, model_json, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, parentPtr, string(modelJSON), nullIfEmpty(reason), now,
	)
	if err != nil {
		return "", fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_learning (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		id,
	)
	if err != nil {
		return "", fmt.Errorf("set active: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		LearningKey, string(modelJSON), now,
	)
	if err != nil {
		return "", fmt.Errorf("put learning: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ActiveLearningVersion returns the id of the active learning version, "" when
// nothing was committed yet.
func (s *Store) ActiveLearningVersion() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT version_id FROM active_learning WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get active: %w", err)
	}
	return id, nil
}

// #endregion commit-learning

// #region list-versions
// ListLearningVersions returns the most recent learning versions, newest first.
func (s *Store) ListLearningVersions(limit int) ([]LearningVersion, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, model_json, reason, created_at
		 FROM learning_versions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []LearningVersion
	for rows.Next() {
		var v LearningVersion
		var parentID, reason sql.NullString
		var modelJSON, createdStr string
		if err := rows.Scan(&v.VersionID, &parentID, &modelJSON, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if parentID.Valid {
			v.ParentID = parentID.String
		}
		if reason.Valid {
			v.Reason = reason.String
		}
		v.Model = DefaultLearningModel()
		if err := json.Unmarshal([]byte(modelJSON), &v.Model); err != nil {
			return nil, fmt.Errorf("unmarshal model %s: %w", v.VersionID, err)
		}
		v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// #endregion list-versions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
