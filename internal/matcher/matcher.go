package matcher

// #region imports
import (
	"math"
	"sort"

	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region types

// Record pairs a historical signature with its known outcome.
type Record struct {
	Signature signature.Signature `json:"signature"`
	Outcome   string              `json:"outcome"`
}

// Match is a corpus record scored against a query signature. Read-only.
type Match struct {
	Signature  signature.Signature `json:"signature"`
	Outcome    string              `json:"outcome"`
	Similarity float64             `json:"similarity"`
}

// #endregion types

// #region weights

// Component weights for the similarity blend. Quadrant shape carries more
// signal than flow shape, so it is weighted more heavily.
const (
	quadrantWeight = 0.6
	flowWeight     = 0.4
)

// Saturation constants for match confidence: count saturates at
// confidenceSaturation matches.
const (
	confidenceSaturation = 10.0
	similarityShare      = 0.7
	countShare           = 0.3
)

// #endregion weights

// #region similarity

// Similarity scores two signatures in [0,1]: a weighted blend of the
// per-region quadrant distance and the phase-average/momentum flow
// distance, each inverted into a similarity.
func Similarity(a, b signature.Signature) float64 {
	qdist := (math.Abs(a.Quadrants.Q1-b.Quadrants.Q1) +
		math.Abs(a.Quadrants.Q2-b.Quadrants.Q2) +
		math.Abs(a.Quadrants.Q3-b.Quadrants.Q3) +
		math.Abs(a.Quadrants.Q4-b.Quadrants.Q4) +
		math.Abs(a.Quadrants.Center-b.Quadrants.Center)) / 5.0

	// Momentum spans [-1,1]; halve its delta to match the [0,1] phases.
	fdist := (math.Abs(a.Flow.Opening-b.Flow.Opening) +
		math.Abs(a.Flow.Middle-b.Flow.Middle) +
		math.Abs(a.Flow.Ending-b.Flow.Ending) +
		math.Abs(a.Flow.Momentum-b.Flow.Momentum)/2.0) / 4.0

	sim := quadrantWeight*(1-qdist) + flowWeight*(1-fdist)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// #endregion similarity

// #region find-matches

// FindMatches ranks corpus records by similarity to the target, discards
// entries below minSimilarity, and truncates to limit. Output is sorted
// descending by similarity; ties keep corpus order. An empty corpus yields
// an empty list, not an error.
func FindMatches(target signature.Signature, corpus []Record, minSimilarity float64, limit int) []Match {
	matches := make([]Match, 0, len(corpus))
	for _, rec := range corpus {
		sim := Similarity(target, rec.Signature)
		if sim < minSimilarity {
			continue
		}
		matches = append(matches, Match{
			Signature:  rec.Signature,
			Outcome:    rec.Outcome,
			Similarity: sim,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// #endregion find-matches

// #region outcome-probabilities

// OutcomeProbabilities derives a similarity-weighted vote over outcomes:
// each match contributes its similarity to its outcome bucket, and buckets
// are normalized by the total contributed weight. No matches yields an
// empty map; callers must handle zero matches explicitly.
func OutcomeProbabilities(matches []Match) map[string]float64 {
	probs := make(map[string]float64)
	var total float64
	for _, m := range matches {
		probs[m.Outcome] += m.Similarity
		total += m.Similarity
	}
	if total <= 0 {
		return map[string]float64{}
	}
	for outcome := range probs {
		probs[outcome] /= total
	}
	return probs
}

// #endregion outcome-probabilities

// #region confidence

// MatchConfidence scales with both match count and average similarity,
// saturating as either grows. Zero matches gives zero confidence.
func MatchConfidence(matches []Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Similarity
	}
	avg := sum / float64(len(matches))

	countFactor := float64(len(matches)) / confidenceSaturation
	if countFactor > 1 {
		countFactor = 1
	}
	return avg*similarityShare + countFactor*countShare
}

// #endregion confidence
