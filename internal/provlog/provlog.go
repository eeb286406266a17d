package provlog

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion imports

// #region schema

const predictionLogSchema = `
CREATE TABLE IF NOT EXISTS prediction_log (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint        TEXT NOT NULL,
	domain             TEXT NOT NULL,
	predicted_outcome  TEXT NOT NULL,
	confidence         REAL NOT NULL,
	sample_size        INTEGER NOT NULL,
	reason             TEXT,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prediction_log_fp ON prediction_log(fingerprint);
`

// #endregion schema

// #region types

// Entry is one prediction provenance row: which signature was predicted,
// what the engine said, and on how much evidence.
type Entry struct {
	Fingerprint      string
	Domain           string
	PredictedOutcome string
	Confidence       float64
	SampleSize       int
	Reason           string
	CreatedAt        time.Time
}

// #endregion types

// #region log

// Log writes prediction provenance rows into the corpus database.
type Log struct {
	db *sql.DB
}

// NewLog initializes the prediction_log table and returns a Log.
func NewLog(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(predictionLogSchema); err != nil {
		return nil, fmt.Errorf("migrate prediction log: %w", err)
	}
	return &Log{db: db}, nil
}

// Record persists a single provenance entry.
func (l *Log) Record(entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO prediction_log (fingerprint, domain, predicted_outcome, confidence, sample_size, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Fingerprint,
		entry.Domain,
		entry.PredictedOutcome,
		entry.Confidence,
		entry.SampleSize,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log prediction: %w", err)
	}
	return nil
}

// Recent returns the newest n entries.
func (l *Log) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT fingerprint, domain, predicted_outcome, confidence, sample_size, COALESCE(reason, ''), created_at
		 FROM prediction_log ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query prediction log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.Fingerprint, &e.Domain, &e.PredictedOutcome, &e.Confidence, &e.SampleSize, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan prediction log: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction log: %w", err)
	}
	return out, nil
}

// #endregion log

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
