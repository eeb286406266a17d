package replay

// #region imports
import (
	"context"
	"fmt"
	"math"

	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/engine"
	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region types

// Result captures the outcome of replaying one fixture.
type Result struct {
	Description string
	Passed      bool
	Failures    []string
	Actual      engine.Result
}

// Summary aggregates a replay run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// #endregion types

// #region seed-provider

// seedProvider serves fixture seeds as an in-memory corpus.
type seedProvider struct {
	records []matcher.Record
}

var _ corpus.Provider = (*seedProvider)(nil)

func (p *seedProvider) Candidates(_ context.Context, _ string, _ signature.Signature, limit int) ([]matcher.Record, error) {
	if limit > 0 && len(p.records) > limit {
		return p.records[:limit], nil
	}
	return p.records, nil
}

// #endregion seed-provider

// #region run

// Run replays one fixture through the full pipeline and diffs the result
// against the fixture's expectations.
func Run(ctx context.Context, f Fixture) (Result, error) {
	cfg := engine.DefaultConfig(f.Domain)

	extractor, err := signature.NewExtractor(cfg.Extractor)
	if err != nil {
		return Result{}, fmt.Errorf("extractor: %w", err)
	}

	provider := &seedProvider{}
	for _, seed := range f.CorpusSeeds {
		sig := extractor.Extract(ToEvents(seed.Events), ToInputs(seed.Inputs))
		provider.records = append(provider.records, matcher.Record{
			Signature: sig,
			Outcome:   seed.Outcome,
		})
	}

	analyzer, err := engine.New(cfg, provider, nil)
	if err != nil {
		return Result{}, fmt.Errorf("analyzer: %w", err)
	}

	actual, err := analyzer.Analyze(ctx, ToEvents(f.Events), ToInputs(f.Inputs), nil, f.CurrentPosition, f.TotalLength)
	if err != nil {
		return Result{}, fmt.Errorf("analyze: %w", err)
	}

	res := Result{Description: f.Description, Passed: true, Actual: actual}
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			res.Passed = false
			res.Failures = append(res.Failures, fmt.Sprintf(format, args...))
		}
	}

	exp := f.Expected
	if exp.Trend != "" {
		check(string(actual.Signature.Flow.Trend) == exp.Trend,
			"trend = %s, want %s", actual.Signature.Flow.Trend, exp.Trend)
	}
	if exp.Fingerprint != "" {
		check(actual.Signature.Fingerprint == exp.Fingerprint,
			"fingerprint = %s, want %s", actual.Signature.Fingerprint, exp.Fingerprint)
	}
	if exp.PredictedOutcome != "" {
		check(actual.Prediction.PredictedOutcome == exp.PredictedOutcome,
			"predicted outcome = %s, want %s", actual.Prediction.PredictedOutcome, exp.PredictedOutcome)
	}
	if exp.Sustainable != nil {
		check(actual.Sustainability.Sustainable == *exp.Sustainable,
			"sustainable = %v, want %v", actual.Sustainability.Sustainable, *exp.Sustainable)
	}
	if exp.MinConfidence > 0 {
		check(actual.Prediction.Confidence >= exp.MinConfidence-1e-9,
			"confidence = %.4f, want >= %.4f", actual.Prediction.Confidence, exp.MinConfidence)
	}

	// Probability invariant holds for every fixture, asserted or not.
	sum := actual.Prediction.PrimaryWinProbability +
		actual.Prediction.SecondaryWinProbability +
		actual.Prediction.DrawProbability
	check(sum <= 1.01 && !math.IsNaN(sum), "probabilities sum to %.4f", sum)

	return res, nil
}

// RunAll replays a set of fixture files and aggregates the results.
func RunAll(ctx context.Context, paths []string) ([]Result, Summary, error) {
	var results []Result
	var summary Summary
	for _, path := range paths {
		f, err := LoadFixture(path)
		if err != nil {
			return nil, Summary{}, err
		}
		res, err := Run(ctx, f)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, res)
		summary.Total++
		if res.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return results, summary, nil
}

// #endregion run
