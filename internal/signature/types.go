package signature

// #region imports
import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/signet/internal/moments"
	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/quadrant"
)

// #endregion imports

// #region force

// Force tags which of two competing domain signals dominated the sequence.
type Force string

const (
	ForcePrimary   Force = "primary"
	ForceSecondary Force = "secondary"
	ForceBalanced  Force = "balanced"
)

// #endregion force

// #region signature

// Signature is the compact statistical fingerprint of an activity sequence.
// Immutable once extracted. Domains may carry extra fields alongside it but
// must preserve these base invariants.
type Signature struct {
	Fingerprint   string                 `json:"fingerprint"`
	Archetype     string                 `json:"archetype"`
	DominantForce Force                  `json:"dominant_force"`
	FlowDirection quadrant.FlowDirection `json:"flow_direction"`
	Intensity     float64                `json:"intensity"`
	Quadrants     quadrant.Profile       `json:"quadrants"`
	Flow          phase.Flow             `json:"flow"`
	Moments       []moments.Moment       `json:"moments,omitempty"`
}

// #endregion signature

// #region inputs

// Inputs carries the domain-specific classification the extractor cannot
// derive from raw events: the archetype tag and two competing scalar
// signals (e.g. white vs black material, adds vs deletes).
type Inputs struct {
	Archetype       string
	PrimarySignal   float64
	SecondarySignal float64
}

// #endregion inputs

// #region intensity-weights

// IntensityWeights defines the caller-supplied combination of contributing
// metrics behind the scalar intensity. The combination is clamped to [0,1].
type IntensityWeights struct {
	Activity float64 // mean normalized activity level
	Momentum float64 // absolute momentum
	Moments  float64 // critical-moment density (count / cap)
}

// DefaultIntensityWeights favors raw activity over shape.
func DefaultIntensityWeights() IntensityWeights {
	return IntensityWeights{Activity: 0.5, Momentum: 0.3, Moments: 0.2}
}

// #endregion intensity-weights

// #region config

// Config holds the extraction parameters.
type Config struct {
	// ActivityScale divides raw magnitudes into [0,1] activity levels.
	ActivityScale float64
	// Windows overrides the 25/50/25 phase split.
	Windows phase.Windows
	// Intensity is the weighted metric combination behind Intensity.
	Intensity IntensityWeights
	// BalanceThreshold: primary/secondary signal gap at or below this is
	// classified balanced (default 0.1).
	BalanceThreshold float64
}

// DefaultConfig returns the standard extraction parameters.
func DefaultConfig() Config {
	return Config{
		ActivityScale:    10.0,
		Windows:          phase.DefaultWindows(),
		Intensity:        DefaultIntensityWeights(),
		BalanceThreshold: 0.1,
	}
}

// Validate fails fast on configuration that would corrupt the math.
func (c Config) Validate() error {
	if math.IsNaN(c.ActivityScale) || c.ActivityScale <= 0 {
		return fmt.Errorf("activity scale %v must be positive", c.ActivityScale)
	}
	if err := c.Windows.Validate(); err != nil {
		return fmt.Errorf("windows: %w", err)
	}
	if c.BalanceThreshold < 0 || math.IsNaN(c.BalanceThreshold) {
		return fmt.Errorf("balance threshold %v must be non-negative", c.BalanceThreshold)
	}
	for _, w := range []float64{c.Intensity.Activity, c.Intensity.Momentum, c.Intensity.Moments} {
		if math.IsNaN(w) || w < 0 {
			return fmt.Errorf("intensity weight %v must be non-negative", w)
		}
	}
	return nil
}

// #endregion config
