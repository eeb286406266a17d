package corpus

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS corpus_records (
	record_id       TEXT PRIMARY KEY,
	domain          TEXT NOT NULL,
	fingerprint     TEXT NOT NULL,
	signature_json  TEXT NOT NULL,
	outcome         TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_corpus_domain ON corpus_records(domain, created_at);
CREATE INDEX IF NOT EXISTS idx_corpus_fingerprint ON corpus_records(fingerprint);
`

// #endregion schema

// #region store-struct
// Store keeps the historical corpus in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. the
// provenance log).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region save
// Save inserts a record, assigning an ID and timestamp when absent, and
// returns the stored record.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Fingerprint == "" {
		rec.Fingerprint = rec.Signature.Fingerprint
	}

	sigJSON, err := json.Marshal(rec.Signature)
	if err != nil {
		return Record{}, fmt.Errorf("marshal signature: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO corpus_records (record_id, domain, fingerprint, signature_json, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Domain, rec.Fingerprint, string(sigJSON), rec.Outcome,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region list
// Recent returns up to limit records for domain, newest first.
func (s *Store) Recent(ctx context.Context, domain string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, domain, fingerprint, signature_json, outcome, created_at
		 FROM corpus_records WHERE domain = ?
		 ORDER BY created_at DESC LIMIT ?`,
		domain, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByFingerprint returns all records sharing a fingerprint, newest first.
func (s *Store) ByFingerprint(ctx context.Context, fp string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, domain, fingerprint, signature_json, outcome, created_at
		 FROM corpus_records WHERE fingerprint = ?
		 ORDER BY created_at DESC`,
		fp,
	)
	if err != nil {
		return nil, fmt.Errorf("query by fingerprint: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the number of records for domain.
func (s *Store) Count(ctx context.Context, domain string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM corpus_records WHERE domain = ?`, domain,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// #endregion list

// #region candidates
// Candidates implements Provider: the sqlite backend has no vector index,
// so it returns the newest records and leaves scoring to the matcher.
func (s *Store) Candidates(ctx context.Context, domain string, _ signature.Signature, limit int) ([]matcher.Record, error) {
	recs, err := s.Recent(ctx, domain, limit)
	if err != nil {
		return nil, err
	}
	out := make([]matcher.Record, len(recs))
	for i, r := range recs {
		out[i] = matcher.Record{Signature: r.Signature, Outcome: r.Outcome}
	}
	return out, nil
}

// #endregion candidates

// #region scan
func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		var sigJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Domain, &rec.Fingerprint, &sigJSON, &rec.Outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(sigJSON), &rec.Signature); err != nil {
			return nil, fmt.Errorf("unmarshal signature: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// #endregion scan
