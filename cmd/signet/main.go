package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/engine"
	"github.com/danielpatrickdp/signet/internal/event"
	"github.com/danielpatrickdp/signet/internal/provlog"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #region input

// analyzeInput is the JSON shape cmd/signet reads: raw events plus the
// domain classification and position context.
type analyzeInput struct {
	Domain          string                `json:"domain"`
	Events          []event.ActivityEvent `json:"events"`
	Archetype       string                `json:"archetype"`
	PrimarySignal   float64               `json:"primary_signal"`
	SecondarySignal float64               `json:"secondary_signal"`
	CurrentPosition int                   `json:"current_position"`
	TotalLength     int                   `json:"total_length"`
}

// #endregion input

// #region main

func main() {
	eventsPath := flag.String("events", "", "path to events JSON")
	record := flag.String("record", "", "also save this sequence to the corpus with the given outcome")
	jsonOut := flag.Bool("json", false, "output full result as JSON")
	flag.Parse()

	if *eventsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: signet --events path/to/events.json [--record outcome] [--json]")
		os.Exit(2)
	}

	dbPath := envOr("SIGNET_DB", "signet.db")
	pgURL := os.Getenv("SIGNET_PG_URL")

	if err := run(*eventsPath, dbPath, pgURL, *record, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(eventsPath, dbPath, pgURL, recordOutcome string, jsonOut bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(eventsPath)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	var in analyzeInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse events: %w", err)
	}
	if in.Domain == "" {
		in.Domain = "generic"
	}

	// SQLite is the default backing store; a Postgres URL switches match
	// candidate selection to the pgvector backend.
	store, err := corpus.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer store.Close()

	var provider corpus.Provider = store
	var pgStore *corpus.PGStore
	if pgURL != "" {
		pgStore, err = corpus.NewPGStore(ctx, pgURL)
		if err != nil {
			return fmt.Errorf("open pg corpus: %w", err)
		}
		defer pgStore.Close()
		provider = pgStore
	}

	prov, err := provlog.NewLog(store.DB())
	if err != nil {
		return fmt.Errorf("open prediction log: %w", err)
	}

	analyzer, err := engine.New(engine.DefaultConfig(in.Domain), provider, prov)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, in.Events, signature.Inputs{
		Archetype:       in.Archetype,
		PrimarySignal:   in.PrimarySignal,
		SecondarySignal: in.SecondarySignal,
	}, nil, in.CurrentPosition, in.TotalLength)
	if err != nil {
		return err
	}

	if recordOutcome != "" {
		rec := corpus.Record{
			Domain:    in.Domain,
			Signature: result.Signature,
			Outcome:   recordOutcome,
		}
		if _, err := store.Save(ctx, rec); err != nil {
			return fmt.Errorf("record sequence: %w", err)
		}
		if pgStore != nil {
			if _, err := pgStore.Save(ctx, rec); err != nil {
				return fmt.Errorf("record sequence (pg): %w", err)
			}
		}
		log.Printf("recorded %s with outcome %q", result.Signature.Fingerprint, recordOutcome)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

// #endregion run

// #region output

func printResult(result engine.Result) {
	sig := result.Signature
	pred := result.Prediction

	fmt.Printf("fingerprint:  %s\n", sig.Fingerprint)
	fmt.Printf("archetype:    %s\n", sig.Archetype)
	fmt.Printf("trend:        %s (momentum %+.2f)\n", sig.Flow.Trend, sig.Flow.Momentum)
	fmt.Printf("direction:    %s | force: %s | intensity: %.2f\n",
		sig.FlowDirection, sig.DominantForce, sig.Intensity)
	fmt.Printf("matches:      %d (divergence %.2f)\n", len(result.Matches), result.Divergence)
	fmt.Printf("prediction:   %s (confidence %.2f, n=%d)\n",
		pred.PredictedOutcome, pred.Confidence, pred.SampleSize)
	fmt.Printf("probabilities: primary %.2f / secondary %.2f / draw %.2f\n",
		pred.PrimaryWinProbability, pred.SecondaryWinProbability, pred.DrawProbability)
	fmt.Printf("lookahead:    %d\n", pred.LookaheadHorizon)
	fmt.Printf("sustainability: %v (%s risk): %s\n",
		result.Sustainability.Sustainable, result.Sustainability.RiskLevel, result.Sustainability.Reason)
	for _, m := range pred.Milestones {
		fmt.Printf("  milestone @%d %s (p=%.2f): %s\n", m.Index, m.Event, m.Probability, m.Recommendation)
	}
	fmt.Printf("guidance:     %s\n", pred.StrategicGuidance)
}

// #endregion output

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
