package provlog

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "prov.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log, err := NewLog(db)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	return log
}

func TestRecordAndRecent(t *testing.T) {
	log := openTestLog(t)

	entries := []Entry{
		{Fingerprint: "EP-00000001", Domain: "chess", PredictedOutcome: "primary_win", Confidence: 0.8, SampleSize: 5, Reason: "strong corpus support"},
		{Fingerprint: "EP-00000002", Domain: "chess", PredictedOutcome: "unknown", Confidence: 0.2, SampleSize: 0},
	}
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := log.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].Fingerprint != "EP-00000002" {
		t.Errorf("first entry = %s, want newest", got[0].Fingerprint)
	}
	if got[0].Reason != "" {
		t.Errorf("reason = %q, want empty after NULL round trip", got[0].Reason)
	}
	if got[1].PredictedOutcome != "primary_win" || got[1].SampleSize != 5 {
		t.Errorf("oldest entry mangled: %+v", got[1])
	}
	if got[1].CreatedAt.IsZero() {
		t.Error("created_at not assigned on insert")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	log := openTestLog(t)
	for i := 0; i < 5; i++ {
		if err := log.Record(Entry{Fingerprint: "EP-00000001", Domain: "chess", PredictedOutcome: "draw", Confidence: 0.5}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := log.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d entries, want 3", len(got))
	}
}
