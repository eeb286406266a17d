package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/engine"
	"github.com/danielpatrickdp/signet/internal/replay"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to signet.db")
	pgURL := flag.String("pg", os.Getenv("SIGNET_PG_URL"), "optional Postgres URL; records are mirrored there")
	flag.Parse()

	if *dbPath == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: corpus-import --db path/to/signet.db [--pg url] fixture.json [fixture.json...]")
		os.Exit(2)
	}

	if err := run(*dbPath, *pgURL, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

// run extracts signatures for every seed in every fixture file and saves
// them with their known outcomes. Fixture files double as corpus seed
// bundles, so test data and bootstrap data share one format.
func run(dbPath, pgURL string, paths []string) error {
	ctx := context.Background()

	store, err := corpus.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer store.Close()

	var pgStore *corpus.PGStore
	if pgURL != "" {
		pgStore, err = corpus.NewPGStore(ctx, pgURL)
		if err != nil {
			return fmt.Errorf("open pg corpus: %w", err)
		}
		defer pgStore.Close()
	}

	imported := 0
	for _, path := range paths {
		f, err := replay.LoadFixture(path)
		if err != nil {
			return err
		}
		domain := f.Domain
		if domain == "" {
			domain = "generic"
		}

		extractor, err := signature.NewExtractor(engine.DefaultConfig(domain).Extractor)
		if err != nil {
			return err
		}

		for _, seed := range f.CorpusSeeds {
			sig := extractor.Extract(replay.ToEvents(seed.Events), replay.ToInputs(seed.Inputs))
			rec := corpus.Record{Domain: domain, Signature: sig, Outcome: seed.Outcome}
			if _, err := store.Save(ctx, rec); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if pgStore != nil {
				if _, err := pgStore.Save(ctx, rec); err != nil {
					return fmt.Errorf("%s (pg): %w", path, err)
				}
			}
			imported++
		}
	}

	fmt.Printf("imported %d records from %d files\n", imported, len(paths))
	return nil
}

// #endregion run
