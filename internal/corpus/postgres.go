package corpus

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region schema
const pgSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS corpus_records (
	record_id       UUID PRIMARY KEY,
	domain          TEXT NOT NULL,
	fingerprint     TEXT NOT NULL,
	signature_json  JSONB NOT NULL,
	outcome         TEXT NOT NULL,
	embedding       VECTOR(9) NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pg_corpus_domain ON corpus_records(domain, created_at);
`

// #endregion schema

// #region store

// PGStore keeps the historical corpus in Postgres with a pgvector column
// over the flattened signature, so candidate selection can be pushed into
// the database instead of scanning the whole domain.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL, verifies the connection, and runs
// migrations.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

// #endregion store

// #region save

// Save inserts a record, assigning an ID and timestamp when absent.
func (s *PGStore) Save(ctx context.Context, rec Record) (Record, error) {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO corpus_records (record_id, domain, fingerprint, signature_json, outcome, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Domain, rec.Fingerprint, sigJSON, rec.Outcome,
		pgvector.NewVector(Flatten(rec.Signature)), rec.CreatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region candidates

// Candidates implements Provider: records are prefiltered by L2 distance
// between the stored embedding and the query signature's flattened vector.
// The matcher still computes the authoritative similarity; the vector
// ordering only bounds how many records it has to look at.
func (s *PGStore) Candidates(ctx context.Context, domain string, sig signature.Signature, limit int) ([]matcher.Record, error) {
	vec := pgvector.NewVector(Flatten(sig))

	rows, err := s.pool.Query(ctx,
		`SELECT signature_json, outcome
		 FROM corpus_records
		 WHERE domain = $1
		 ORDER BY embedding <-> $2
		 LIMIT $3`,
		domain, vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []matcher.Record
	for rows.Next() {
		var sigJSON []byte
		var rec matcher.Record
		if err := rows.Scan(&sigJSON, &rec.Outcome); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if err := json.Unmarshal(sigJSON, &rec.Signature); err != nil {
			return nil, fmt.Errorf("unmarshal signature: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// #endregion candidates
