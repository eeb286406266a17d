package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/signet/internal/replay"
)

// #region main

func main() {
	dir := flag.String("dir", "", "directory of fixture JSON files (*.json)")
	verbose := flag.Bool("v", false, "print per-fixture detail, not just failures")
	flag.Parse()

	paths := flag.Args()
	if *dir != "" {
		globbed, err := filepath.Glob(filepath.Join(*dir, "*.json"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		paths = append(paths, globbed...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay [--dir fixtures/] [--v] fixture.json [fixture.json...]")
		os.Exit(2)
	}

	results, summary, err := replay.RunAll(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, res := range results {
		if res.Passed && !*verbose {
			continue
		}
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s %s\n", status, res.Description)
		for _, f := range res.Failures {
			fmt.Printf("     %s\n", f)
		}
	}

	fmt.Printf("%d fixtures: %d passed, %d failed\n", summary.Total, summary.Passed, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// #endregion main
