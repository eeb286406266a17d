package engine

// #region imports
import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/danielpatrickdp/signet/internal/archetype"
	"github.com/danielpatrickdp/signet/internal/cache"
	"github.com/danielpatrickdp/signet/internal/corpus"
	"github.com/danielpatrickdp/signet/internal/event"
	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/provlog"
	"github.com/danielpatrickdp/signet/internal/signature"
	"github.com/danielpatrickdp/signet/internal/trajectory"
)

// #endregion imports

// #region config

// Config holds the analyzer parameters.
type Config struct {
	Domain         string
	Extractor      signature.Config
	Predictor      trajectory.Config
	MinSimilarity  float64 // matches below this are discarded
	MatchLimit     int     // ranked matches kept per query
	CandidateLimit int     // corpus records pulled per query
}

// DefaultConfig returns the standard analyzer parameters for a domain.
func DefaultConfig(domain string) Config {
	return Config{
		Domain:         domain,
		Extractor:      signature.DefaultConfig(),
		Predictor:      trajectory.DefaultConfig(),
		MinSimilarity:  0.6,
		MatchLimit:     20,
		CandidateLimit: 200,
	}
}

// Cache presets. Predictions go stale faster than raw signatures, so the
// prediction cache is the smallest and shortest-lived.
const (
	signatureCacheSize  = 500
	signatureCacheTTL   = 30 * time.Minute
	matchCacheSize      = 200
	matchCacheTTL       = 10 * time.Minute
	predictionCacheSize = 100
	predictionCacheTTL  = 5 * time.Minute
)

// #endregion config

// #region result

// Result bundles one full pipeline pass.
type Result struct {
	Signature      signature.Signature       `json:"signature"`
	Matches        []matcher.Match           `json:"matches"`
	Prediction     trajectory.Prediction     `json:"prediction"`
	Sustainability trajectory.Sustainability `json:"sustainability"`
	Divergence     float64                   `json:"divergence"`
}

// #endregion result

// #region analyzer

// Analyzer wires the extractor, matcher, and predictor behind three
// memoizing caches and a corpus provider. Not internally synchronized:
// one analyzer per worker, or an external lock.
type Analyzer struct {
	config    Config
	extractor *signature.Extractor
	predictor *trajectory.Predictor
	provider  corpus.Provider
	prov      *provlog.Log // optional; nil disables provenance logging

	signatures  *cache.Cache[signature.Signature]
	matchLists  *cache.Cache[[]matcher.Match]
	predictions *cache.Cache[trajectory.Prediction]
}

// New validates the config and builds an analyzer. provider is required;
// prov may be nil.
func New(config Config, provider corpus.Provider, prov *provlog.Log) (*Analyzer, error) {
	extractor, err := signature.NewExtractor(config.Extractor)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("corpus provider is required")
	}

	sigCache, err := cache.New[signature.Signature](signatureCacheSize, signatureCacheTTL, cache.PolicyLRU)
	if err != nil {
		return nil, err
	}
	matchCache, err := cache.New[[]matcher.Match](matchCacheSize, matchCacheTTL, cache.PolicyLRU)
	if err != nil {
		return nil, err
	}
	predCache, err := cache.New[trajectory.Prediction](predictionCacheSize, predictionCacheTTL, cache.PolicyLRU)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:      config,
		extractor:   extractor,
		predictor:   trajectory.NewPredictor(config.Predictor),
		provider:    provider,
		prov:        prov,
		signatures:  sigCache,
		matchLists:  matchCache,
		predictions: predCache,
	}, nil
}

// #endregion analyzer

// #region extract

// Extract memoizes signature extraction keyed on the input sequence.
func (a *Analyzer) Extract(events []event.ActivityEvent, in signature.Inputs) (signature.Signature, error) {
	if err := event.ValidateAll(events); err != nil {
		return signature.Signature{}, err
	}
	key := fmt.Sprintf("sig_%08x", eventsHash(events, in))
	return a.signatures.GetOrSet(key, func() (signature.Signature, error) {
		return a.extractor.Extract(events, in), nil
	}, 0)
}

// #endregion extract

// #region match

// Matches pulls candidates from the corpus and ranks them against sig,
// memoized per fingerprint and match options.
func (a *Analyzer) Matches(ctx context.Context, sig signature.Signature) ([]matcher.Match, error) {
	key := fmt.Sprintf("match_%s_%08x", sig.Fingerprint, a.optionsHash())
	return a.matchLists.GetOrSet(key, func() ([]matcher.Match, error) {
		candidates, err := a.provider.Candidates(ctx, a.config.Domain, sig, a.config.CandidateLimit)
		if err != nil {
			return nil, fmt.Errorf("corpus candidates: %w", err)
		}
		return matcher.FindMatches(sig, candidates, a.config.MinSimilarity, a.config.MatchLimit), nil
	}, 0)
}

// #endregion match

// #region predict

// Predict runs the trajectory predictor, memoized per fingerprint and
// position, and records provenance when a log is attached.
func (a *Analyzer) Predict(
	ctx context.Context,
	sig signature.Signature,
	matches []matcher.Match,
	def *archetype.Definition,
	currentPosition int,
	totalExpectedLength int,
) (trajectory.Prediction, error) {
	key := fmt.Sprintf("pred_%s_%d", sig.Fingerprint, currentPosition)
	pred, err := a.predictions.GetOrSet(key, func() (trajectory.Prediction, error) {
		return a.predictor.Predict(sig, matches, def, currentPosition, totalExpectedLength), nil
	}, 0)
	if err != nil {
		return trajectory.Prediction{}, err
	}

	if a.prov != nil {
		logErr := a.prov.Record(provlog.Entry{
			Fingerprint:      sig.Fingerprint,
			Domain:           a.config.Domain,
			PredictedOutcome: pred.PredictedOutcome,
			Confidence:       pred.Confidence,
			SampleSize:       pred.SampleSize,
			Reason:           pred.StrategicGuidance,
		})
		if logErr != nil {
			// Provenance is best-effort; a log failure never fails the prediction.
			log.Printf("prediction provenance: %v", logErr)
		}
	}
	return pred, nil
}

// #endregion predict

// #region analyze

// Analyze runs the full pipeline: extract, match, predict, plus the
// sustainability and divergence companions.
func (a *Analyzer) Analyze(
	ctx context.Context,
	events []event.ActivityEvent,
	in signature.Inputs,
	def *archetype.Definition,
	currentPosition int,
	totalExpectedLength int,
) (Result, error) {
	sig, err := a.Extract(events, in)
	if err != nil {
		return Result{}, err
	}

	matches, err := a.Matches(ctx, sig)
	if err != nil {
		return Result{}, err
	}

	pred, err := a.Predict(ctx, sig, matches, def, currentPosition, totalExpectedLength)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Signature:      sig,
		Matches:        matches,
		Prediction:     pred,
		Sustainability: trajectory.AssessSustainability(sig),
		Divergence:     trajectory.Divergence(sig, matches),
	}, nil
}

// #endregion analyze

// #region cache-stats

// CacheStats reports the three cache snapshots, keyed signature/match/prediction.
func (a *Analyzer) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"signature":  a.signatures.Stats(),
		"match":      a.matchLists.Stats(),
		"prediction": a.predictions.Stats(),
	}
}

// #endregion cache-stats

// #region hashing

// eventsHash produces a stable key over the input sequence and inputs.
func eventsHash(events []event.ActivityEvent, in signature.Inputs) uint32 {
	h := fnv.New32a()
	for _, e := range events {
		fmt.Fprintf(h, "%d|%.6f|%s;", e.Timestamp.UnixNano(), e.Magnitude, e.Region)
	}
	fmt.Fprintf(h, "%s|%.6f|%.6f", in.Archetype, in.PrimarySignal, in.SecondarySignal)
	return h.Sum32()
}

// optionsHash keys the match cache on the options that shape the result.
func (a *Analyzer) optionsHash() uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%.4f|%d|%d", a.config.MinSimilarity, a.config.MatchLimit, a.config.CandidateLimit)
	return h.Sum32()
}

// #endregion hashing
