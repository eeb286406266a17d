package trajectory

// #region imports
import (
	"fmt"
	"math"
	"sort"

	"github.com/danielpatrickdp/signet/internal/archetype"
	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region outcome-keys

// Outcome keys recognized in the probability map, checked in order. Domains
// that name outcomes differently still resolve through these fallbacks.
var (
	primaryKeys   = []string{"primary_win", "success", "white_win", "win"}
	secondaryKeys = []string{"secondary_win", "failure", "black_win", "loss"}
)

// #endregion outcome-keys

// #region predictor

// Predictor combines ranked matches, an optional archetype definition, and
// the current position within an expected total length into a Prediction.
type Predictor struct {
	config Config
}

// NewPredictor creates a predictor with the given configuration.
func NewPredictor(config Config) *Predictor {
	return &Predictor{config: config}
}

// #endregion predictor

// #region predict

// Predict derives outcome probabilities from the matches, blends match and
// archetype confidence 60/40, generates milestones over the remaining
// distance, and bounds the lookahead horizon by confidence.
func (p *Predictor) Predict(
	sig signature.Signature,
	matches []matcher.Match,
	def *archetype.Definition,
	currentPosition int,
	totalExpectedLength int,
) Prediction {
	probs := matcher.OutcomeProbabilities(matches)

	primary := lookupOutcome(probs, primaryKeys)
	secondary := lookupOutcome(probs, secondaryKeys)
	draw := 1 - primary - secondary
	if draw < 0 {
		draw = 0
	}

	archConfidence := p.config.DefaultArchetypeConfidence
	if def != nil {
		archConfidence = def.Confidence
	}
	confidence := p.config.MatchWeight*matcher.MatchConfidence(matches) +
		p.config.ArchetypeWeight*archConfidence

	remaining := totalExpectedLength - currentPosition
	if remaining < 0 {
		remaining = 0
	}

	horizon := int(math.Floor(p.config.HorizonScale * confidence))
	if horizon > remaining {
		horizon = remaining
	}

	return Prediction{
		PredictedOutcome:        predictedOutcome(primary, secondary, draw, probs),
		Confidence:              clamp01(confidence),
		PrimaryWinProbability:   primary,
		SecondaryWinProbability: secondary,
		DrawProbability:         draw,
		Milestones:              p.milestones(sig, confidence, currentPosition, totalExpectedLength),
		StrategicGuidance:       guidance(sig.Flow.Trend, primary, secondary),
		LookaheadHorizon:        horizon,
		SampleSize:              len(matches),
	}
}

// #endregion predict

// #region outcome-resolution

// lookupOutcome returns the first present key's probability, 0 otherwise.
func lookupOutcome(probs map[string]float64, keys []string) float64 {
	for _, k := range keys {
		if v, ok := probs[k]; ok {
			return v
		}
	}
	return 0
}

// predictedOutcome picks the highest of the three derived probabilities.
// With no matches at all the outcome is unknown, not a guess.
func predictedOutcome(primary, secondary, draw float64, probs map[string]float64) string {
	if len(probs) == 0 {
		return "unknown"
	}
	switch {
	case primary >= secondary && primary >= draw:
		return "primary_win"
	case secondary >= primary && secondary >= draw:
		return "secondary_win"
	default:
		return "draw"
	}
}

// #endregion outcome-resolution

// #region milestones

// milestones places deterministic markers at fractional offsets into the
// remaining distance, folds in critical moments beyond the current
// position, sorts by index, and truncates.
func (p *Predictor) milestones(sig signature.Signature, confidence float64, currentPosition, totalExpectedLength int) []Milestone {
	remaining := totalExpectedLength - currentPosition
	if remaining <= 0 {
		return nil
	}

	var out []Milestone

	if remaining > p.config.MilestoneMinRemaining {
		for _, offset := range p.config.MilestoneOffsets {
			index := currentPosition + int(float64(remaining)*offset)
			if index <= currentPosition {
				index = currentPosition + 1
			}
			if index > totalExpectedLength {
				continue
			}
			out = append(out, Milestone{
				Index:          index,
				Event:          offsetLabel(offset),
				Probability:    clamp01(confidence),
				Impact:         offset,
				Recommendation: trendRecommendation(sig.Flow.Trend),
			})
		}
	}

	for _, m := range sig.Moments {
		if m.Index <= currentPosition || m.Index > totalExpectedLength {
			continue
		}
		out = append(out, Milestone{
			Index:          m.Index,
			Event:          m.Type,
			Probability:    m.Severity,
			Impact:         m.Severity,
			Recommendation: "watch for a repeat of this spike",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	if len(out) > p.config.MaxMilestones {
		out = out[:p.config.MaxMilestones]
	}
	return out
}

// offsetLabel names the fixed fractional milestones.
func offsetLabel(offset float64) string {
	switch {
	case offset <= 0.25:
		return "early_checkpoint"
	case offset <= 0.50:
		return "midpoint"
	default:
		return "late_checkpoint"
	}
}

// #endregion milestones

// #region guidance

// trendRecommendation keys a short recommendation off the current trend.
func trendRecommendation(trend phase.Trend) string {
	switch trend {
	case phase.TrendAccelerating:
		return "pace is rising; bank progress before it peaks"
	case phase.TrendDeclining:
		return "pace is falling; consolidate and simplify"
	case phase.TrendVolatile:
		return "pace is erratic; stabilize before committing further"
	default:
		return "hold the current pace"
	}
}

// guidance produces the free-text strategic summary.
func guidance(trend phase.Trend, primary, secondary float64) string {
	lead := "evenly matched"
	if primary > secondary {
		lead = "primary side favored"
	} else if secondary > primary {
		lead = "secondary side favored"
	}
	return fmt.Sprintf("%s (%.0f%% vs %.0f%%); %s",
		lead, primary*100, secondary*100, trendRecommendation(trend))
}

// #endregion guidance

// #region helpers

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
