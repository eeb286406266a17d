package phase

// #region imports
import (
	"fmt"
	"math"
)

// #endregion imports

// #region trend

// Trend classifies how activity evolved from opening to ending.
type Trend string

const (
	TrendStable       Trend = "stable"
	TrendAccelerating Trend = "accelerating"
	TrendDeclining    Trend = "declining"
	TrendVolatile     Trend = "volatile"
)

// #endregion trend

// #region windows

// Windows defines the fraction of the sequence assigned to each phase.
// Fractions must be positive and sum to 1 (within tolerance).
type Windows struct {
	Opening float64 `json:"opening"`
	Middle  float64 `json:"middle"`
	Ending  float64 `json:"ending"`
}

// DefaultWindows returns the standard 25/50/25 split.
func DefaultWindows() Windows {
	return Windows{Opening: 0.25, Middle: 0.50, Ending: 0.25}
}

// Validate fails fast on malformed window fractions.
func (w Windows) Validate() error {
	for _, f := range []float64{w.Opening, w.Middle, w.Ending} {
		if math.IsNaN(f) || f <= 0 {
			return fmt.Errorf("window fraction %v must be a positive number", f)
		}
	}
	if sum := w.Opening + w.Middle + w.Ending; math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("window fractions sum to %v, want 1", sum)
	}
	return nil
}

// #endregion windows

// #region flow

// Flow summarizes the temporal shape of a normalized activity-level
// sequence: per-phase averages, a trend tag, and momentum in [-1,1].
type Flow struct {
	Opening  float64 `json:"opening"`
	Middle   float64 `json:"middle"`
	Ending   float64 `json:"ending"`
	Trend    Trend   `json:"trend"`
	Momentum float64 `json:"momentum"`
}

// NeutralFlow is the defined fallback for an empty sequence.
func NeutralFlow() Flow {
	return Flow{Opening: 0.5, Middle: 0.5, Ending: 0.5, Trend: TrendStable, Momentum: 0}
}

// #endregion flow

// #region constants

const (
	// trendThreshold: relative ending-vs-opening change beyond ±20%
	// classifies accelerating/declining.
	trendThreshold = 0.2
	// volatilityThreshold: mean absolute consecutive delta above this
	// overrides a stable classification.
	volatilityThreshold = 0.3
	// momentumFraction: momentum compares the last 20% window against the
	// preceding 20% window.
	momentumFraction = 0.2
)

// #endregion constants

// #region compute-flow

// ComputeFlow splits levels into opening/middle/ending windows, averages
// each, classifies the trend, then computes momentum. Trend is always
// computed before momentum. Empty input returns NeutralFlow().
func ComputeFlow(levels []float64, w Windows) Flow {
	n := len(levels)
	if n == 0 {
		return NeutralFlow()
	}

	openEnd := int(math.Round(float64(n) * w.Opening))
	if openEnd < 1 {
		openEnd = 1
	}
	if openEnd > n {
		openEnd = n
	}
	endCount := int(math.Round(float64(n) * w.Ending))
	if endCount < 1 {
		endCount = 1
	}
	endStart := n - endCount
	if endStart < openEnd {
		endStart = openEnd
	}

	overall := mean(levels, 0)
	opening := mean(levels[:openEnd], overall)
	middle := mean(levels[openEnd:endStart], overall)
	ending := mean(levels[endStart:], overall)

	trend := classifyTrend(opening, ending, levels)
	momentum := ComputeMomentum(levels)

	return Flow{
		Opening:  opening,
		Middle:   middle,
		Ending:   ending,
		Trend:    trend,
		Momentum: momentum,
	}
}

// #endregion compute-flow

// #region trend-classification

// classifyTrend compares the ending average against the opening average.
// A flat or empty variance classification is overridden to volatile when
// the mean absolute consecutive delta exceeds the volatility threshold.
func classifyTrend(opening, ending float64, levels []float64) Trend {
	var change float64
	if opening > 0 {
		change = (ending - opening) / opening
	}

	trend := TrendStable
	switch {
	case change > trendThreshold:
		trend = TrendAccelerating
	case change < -trendThreshold:
		trend = TrendDeclining
	}

	if trend == TrendStable && meanAbsDelta(levels) > volatilityThreshold {
		trend = TrendVolatile
	}
	return trend
}

// #endregion trend-classification

// #region momentum

// ComputeMomentum returns the relative change between the most recent 20%
// window average and the preceding 20% window average, clamped to [-1,1].
// Defined as 0 when the preceding average is 0 or the sequence is too short
// to hold two windows.
func ComputeMomentum(levels []float64) float64 {
	n := len(levels)
	window := int(float64(n) * momentumFraction)
	if window < 1 {
		window = 1
	}
	if n < 2*window {
		return 0
	}

	recent := mean(levels[n-window:], 0)
	previous := mean(levels[n-2*window:n-window], 0)
	if previous == 0 {
		return 0
	}

	m := (recent - previous) / previous
	if m > 1 {
		m = 1
	}
	if m < -1 {
		m = -1
	}
	return m
}

// #endregion momentum

// #region helpers

// mean averages xs, returning fallback for an empty slice.
func mean(xs []float64, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// meanAbsDelta measures volatility as the mean absolute consecutive delta.
func meanAbsDelta(levels []float64) float64 {
	if len(levels) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(levels); i++ {
		sum += math.Abs(levels[i] - levels[i-1])
	}
	return sum / float64(len(levels)-1)
}

// #endregion helpers
