package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/provlog"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to signet.db")
	domain := flag.String("domain", "generic", "corpus domain to list")
	last := flag.Int("last", 20, "show N most recent records")
	fp := flag.String("fingerprint", "", "show records for a single fingerprint")
	predictions := flag.Bool("predictions", false, "show the prediction log instead of corpus records")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/signet.db [--domain d] [--last N] [--fingerprint EP-XXXXXXXX] [--predictions] [--json]")
		os.Exit(2)
	}

	if err := run(*dbPath, *domain, *last, *fp, *predictions, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(dbPath, domain string, last int, fp string, predictions, jsonOut bool) error {
	store, err := corpus.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer store.Close()

	if predictions {
		return runPredictionMode(store, last, jsonOut)
	}
	return runCorpusMode(store, domain, last, fp, jsonOut)
}

// #endregion run

// #region corpus-mode

func runCorpusMode(store *corpus.Store, domain string, last int, fp string, jsonOut bool) error {
	ctx := context.Background()

	var records []corpus.Record
	var err error
	if fp != "" {
		records, err = store.ByFingerprint(ctx, fp)
	} else {
		records, err = store.Recent(ctx, domain, last)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tFINGERPRINT\tARCHETYPE\tTREND\tOUTCOME")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Fingerprint, r.Signature.Archetype, r.Signature.Flow.Trend, r.Outcome)
	}
	return w.Flush()
}

// #endregion corpus-mode

// #region prediction-mode

func runPredictionMode(store *corpus.Store, last int, jsonOut bool) error {
	plog, err := provlog.NewLog(store.DB())
	if err != nil {
		return err
	}
	entries, err := plog.Recent(last)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tFINGERPRINT\tOUTCOME\tCONFIDENCE\tSAMPLES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Fingerprint, e.PredictedOutcome, e.Confidence, e.SampleSize)
	}
	return w.Flush()
}

// #endregion prediction-mode
