package trajectory

// #region imports
import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region thresholds

const (
	burnoutIntensity  = 0.8  // accelerating above this is a burnout pattern (strictly >)
	collapseMomentum  = -0.5 // declining below this is a collapse pattern
	severeMomentLevel = 0.7
	severeMomentCount = 3
)

// #endregion thresholds

// #region assess

// AssessSustainability is a small decision table over trend, intensity,
// momentum, and critical-moment count. Rules are checked in order; the
// first hit wins.
func AssessSustainability(sig signature.Signature) Sustainability {
	severe := 0
	for _, m := range sig.Moments {
		if m.Severity > severeMomentLevel {
			severe++
		}
	}

	switch {
	case sig.Flow.Trend == phase.TrendAccelerating && sig.Intensity > burnoutIntensity:
		return Sustainability{
			Sustainable: false,
			RiskLevel:   RiskHigh,
			Reason:      fmt.Sprintf("accelerating at intensity %.2f is a burnout pattern", sig.Intensity),
		}
	case sig.Flow.Trend == phase.TrendDeclining && sig.Flow.Momentum < collapseMomentum:
		return Sustainability{
			Sustainable: false,
			RiskLevel:   RiskHigh,
			Reason:      fmt.Sprintf("declining with momentum %.2f", sig.Flow.Momentum),
		}
	case severe > severeMomentCount:
		return Sustainability{
			Sustainable: false,
			RiskLevel:   RiskMedium,
			Reason:      fmt.Sprintf("%d critical moments above severity %.1f", severe, severeMomentLevel),
		}
	case sig.Flow.Trend == phase.TrendVolatile:
		return Sustainability{
			Sustainable: true,
			RiskLevel:   RiskMedium,
			Reason:      "volatile but holding",
		}
	default:
		return Sustainability{
			Sustainable: true,
			RiskLevel:   RiskLow,
			Reason:      "steady trajectory",
		}
	}
}

// #endregion assess

// #region divergence

// Divergence measures how far the signature's intensity and momentum sit
// from the mean of its matches, normalized to [0,1]. No matches is maximum
// divergence: there is nothing to anchor the trajectory to.
func Divergence(sig signature.Signature, matches []matcher.Match) float64 {
	if len(matches) == 0 {
		return 1
	}

	var meanIntensity, meanMomentum float64
	for _, m := range matches {
		meanIntensity += m.Signature.Intensity
		meanMomentum += m.Signature.Flow.Momentum
	}
	meanIntensity /= float64(len(matches))
	meanMomentum /= float64(len(matches))

	// Momentum spans [-1,1]; halve its delta to match intensity's range.
	d := (math.Abs(sig.Intensity-meanIntensity) +
		math.Abs(sig.Flow.Momentum-meanMomentum)/2.0) / 2.0
	return clamp01(d)
}

// #endregion divergence
