package signature

// #region imports
import (
	"math"

	"github.com/danielpatrickdp/signet/internal/event"
	"github.com/danielpatrickdp/signet/internal/fingerprint"
	"github.com/danielpatrickdp/signet/internal/moments"
	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/quadrant"
)

// #endregion imports

// #region extractor

// Extractor turns a raw event sequence plus domain classification into a
// Signature. It is a pure transform: no I/O, no shared state.
type Extractor struct {
	config Config
}

// NewExtractor validates the config and returns an extractor.
func NewExtractor(config Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{config: config}, nil
}

// #endregion extractor

// #region empty

// Empty returns the fixed signature for an empty event sequence:
// balanced quadrants, neutral flow, zero intensity.
func Empty(archetype string) Signature {
	profile := quadrant.BalancedProfile()
	return Signature{
		Fingerprint:   fingerprint.Empty,
		Archetype:     archetype,
		DominantForce: ForceBalanced,
		FlowDirection: quadrant.DetermineFlowDirection(profile),
		Intensity:     0,
		Quadrants:     profile,
		Flow:          phase.NeutralFlow(),
	}
}

// #endregion empty

// #region extract

// Extract runs the full pipeline: sort by timestamp, normalize levels,
// quadrant profile, temporal flow, critical moments, intensity, dominant
// force, flow direction, fingerprint. An empty sequence returns Empty()
// rather than an error.
func (x *Extractor) Extract(events []event.ActivityEvent, in Inputs) Signature {
	if len(events) == 0 {
		return Empty(in.Archetype)
	}

	sorted := event.SortByTime(events)
	levels := event.NormalizeLevels(sorted, x.config.ActivityScale)

	profile := quadrant.Compute(sorted)
	flow := phase.ComputeFlow(levels, x.config.Windows)
	critical := moments.Detect(sorted)

	intensity := x.intensity(levels, flow, critical)
	force := dominantForce(in.PrimarySignal, in.SecondarySignal, x.config.BalanceThreshold)
	direction := quadrant.DetermineFlowDirection(profile)

	return Signature{
		Fingerprint:   fingerprint.Compute(profile, flow, in.Archetype, intensity),
		Archetype:     in.Archetype,
		DominantForce: force,
		FlowDirection: direction,
		Intensity:     intensity,
		Quadrants:     profile,
		Flow:          flow,
		Moments:       critical,
	}
}

// #endregion extract

// #region intensity

// intensity combines mean activity, absolute momentum, and critical-moment
// density under the configured weights, clamped to [0,1].
func (x *Extractor) intensity(levels []float64, flow phase.Flow, critical []moments.Moment) float64 {
	var activity float64
	for _, l := range levels {
		activity += l
	}
	if len(levels) > 0 {
		activity /= float64(len(levels))
	}

	density := float64(len(critical)) / float64(moments.MaxMoments)

	w := x.config.Intensity
	v := activity*w.Activity + math.Abs(flow.Momentum)*w.Momentum + density*w.Moments
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// #endregion intensity

// #region dominant-force

// dominantForce compares two competing scalar signals. A gap at or below
// the balance threshold is balanced.
func dominantForce(primary, secondary, threshold float64) Force {
	if math.Abs(primary-secondary) <= threshold {
		return ForceBalanced
	}
	if primary > secondary {
		return ForcePrimary
	}
	return ForceSecondary
}

// #endregion dominant-force
