package engine

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/event"
	"github.com/danielpatrickdp/signet/internal/provlog"
	"github.com/danielpatrickdp/signet/internal/signature"
)

func steadyEvents(n int, magnitude float64) []event.ActivityEvent {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]event.ActivityEvent, n)
	for i := range out {
		out[i] = event.ActivityEvent{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Magnitude: magnitude,
			Region:    event.RegionQ1,
		}
	}
	return out
}

// newSeededAnalyzer builds an analyzer over a sqlite corpus pre-seeded with
// records extracted from the given event sequence, so matching is exact.
func newSeededAnalyzer(t *testing.T, events []event.ActivityEvent, in signature.Inputs, outcomes []string) (*Analyzer, *corpus.Store) {
	t.Helper()
	store, err := corpus.NewStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	extractor, err := signature.NewExtractor(signature.DefaultConfig())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	sig := extractor.Extract(events, in)
	for _, outcome := range outcomes {
		_, err := store.Save(context.Background(), corpus.Record{
			Domain:    "chess",
			Signature: sig,
			Outcome:   outcome,
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	prov, err := provlog.NewLog(store.DB())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	a, err := New(DefaultConfig("chess"), store, prov)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, store
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(DefaultConfig("chess"), nil, nil); err == nil {
		t.Fatal("expected error without a corpus provider")
	}
}

func TestNewRejectsBadExtractorConfig(t *testing.T) {
	cfg := DefaultConfig("chess")
	cfg.Extractor.ActivityScale = -1
	store, err := corpus.NewStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if _, err := New(cfg, store, nil); err == nil {
		t.Fatal("expected error for invalid extractor config")
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	events := steadyEvents(8, 5)
	in := signature.Inputs{Archetype: "steady", PrimarySignal: 0.6, SecondarySignal: 0.3}
	a, _ := newSeededAnalyzer(t, events, in, []string{"success", "success", "failure"})

	res, err := a.Analyze(context.Background(), events, in, nil, 10, 50)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Signature.Fingerprint == "" {
		t.Error("empty fingerprint")
	}
	if len(res.Matches) != 3 {
		t.Fatalf("got %d matches, want 3 exact matches", len(res.Matches))
	}
	for _, m := range res.Matches {
		if math.Abs(m.Similarity-1.0) > 1e-9 {
			t.Errorf("similarity = %v for identical signature, want 1", m.Similarity)
		}
	}
	if res.Prediction.PredictedOutcome != "primary_win" {
		t.Errorf("outcome = %q, want primary_win from 2:1 success vote", res.Prediction.PredictedOutcome)
	}
	if res.Prediction.SampleSize != 3 {
		t.Errorf("sample size = %d, want 3", res.Prediction.SampleSize)
	}
	// Every match is identical to the signature, so it cannot diverge.
	if res.Divergence != 0 {
		t.Errorf("divergence = %v, want 0", res.Divergence)
	}
	if res.Sustainability.Reason == "" {
		t.Error("sustainability reason is empty")
	}
}

func TestAnalyzeRejectsInvalidEvents(t *testing.T) {
	a, _ := newSeededAnalyzer(t, steadyEvents(3, 5), signature.Inputs{}, []string{"success"})

	bad := steadyEvents(3, 5)
	bad[1].Magnitude = -2

	if _, err := a.Analyze(context.Background(), bad, signature.Inputs{}, nil, 0, 10); err == nil {
		t.Fatal("expected validation error for negative magnitude")
	}
}

func TestAnalyzeMemoizes(t *testing.T) {
	events := steadyEvents(5, 4)
	in := signature.Inputs{Archetype: "steady"}
	a, _ := newSeededAnalyzer(t, events, in, []string{"success"})

	if _, err := a.Analyze(context.Background(), events, in, nil, 5, 50); err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	if _, err := a.Analyze(context.Background(), events, in, nil, 5, 50); err != nil {
		t.Fatalf("second Analyze: %v", err)
	}

	stats := a.CacheStats()
	for _, name := range []string{"signature", "match", "prediction"} {
		s := stats[name]
		if s.Hits != 1 || s.Misses != 1 {
			t.Errorf("%s cache hits/misses = %d/%d, want 1/1", name, s.Hits, s.Misses)
		}
		if s.Size != 1 {
			t.Errorf("%s cache size = %d, want 1", name, s.Size)
		}
	}
}

func TestPredictionCacheKeyedByPosition(t *testing.T) {
	events := steadyEvents(5, 4)
	a, _ := newSeededAnalyzer(t, events, signature.Inputs{}, []string{"success"})

	ctx := context.Background()
	if _, err := a.Analyze(ctx, events, signature.Inputs{}, nil, 5, 50); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := a.Analyze(ctx, events, signature.Inputs{}, nil, 20, 50); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if size := a.CacheStats()["prediction"].Size; size != 2 {
		t.Errorf("prediction cache size = %d, want one entry per position", size)
	}
}

func TestPredictWritesProvenance(t *testing.T) {
	events := steadyEvents(6, 5)
	a, store := newSeededAnalyzer(t, events, signature.Inputs{}, []string{"success"})

	res, err := a.Analyze(context.Background(), events, signature.Inputs{}, nil, 10, 50)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	prov, err := provlog.NewLog(store.DB())
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	entries, err := prov.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d provenance rows, want 1", len(entries))
	}
	if entries[0].Fingerprint != res.Signature.Fingerprint {
		t.Errorf("provenance fingerprint = %s, want %s", entries[0].Fingerprint, res.Signature.Fingerprint)
	}
	if entries[0].PredictedOutcome != res.Prediction.PredictedOutcome {
		t.Errorf("provenance outcome = %q, want %q", entries[0].PredictedOutcome, res.Prediction.PredictedOutcome)
	}
}

func TestMatchesBelowThresholdExcluded(t *testing.T) {
	// The only corpus record comes from a very different sequence: disjoint
	// quadrants, opposite trend, maxed momentum. Its similarity lands under
	// the default 0.6 floor, so the match list must come back empty.
	near := steadyEvents(6, 5)
	a, store := newSeededAnalyzer(t, near, signature.Inputs{}, nil)

	extractor, _ := signature.NewExtractor(signature.DefaultConfig())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var far []event.ActivityEvent
	for i, magnitude := range []float64{0.5, 0.5, 0.5, 0.5, 10} {
		far = append(far, event.ActivityEvent{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Magnitude: magnitude,
			Region:    event.RegionQ3,
		})
	}
	farSig := extractor.Extract(far, signature.Inputs{})
	if _, err := store.Save(context.Background(), corpus.Record{Domain: "chess", Signature: farSig, Outcome: "failure"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	nearSig, err := a.Extract(near, signature.Inputs{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	matches, err := a.Matches(context.Background(), nearSig)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want none under the similarity floor", len(matches))
	}
}
