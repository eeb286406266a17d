package quadrant

// #region imports
import (
	"math"

	"github.com/danielpatrickdp/signet/internal/event"
)

// #endregion imports

// #region profile

// Profile holds normalized activity weight per region. Each weight is the
// region's raw magnitude sum divided by the total, so Q1+Q2+Q3+Q4+Center
// is 1 for any non-empty input. A zero-weight input yields the documented
// balanced default {0.25, 0.25, 0.25, 0.25, 0}.
type Profile struct {
	Q1     float64 `json:"q1"`
	Q2     float64 `json:"q2"`
	Q3     float64 `json:"q3"`
	Q4     float64 `json:"q4"`
	Center float64 `json:"center"`
}

// BalancedProfile is the defined fallback for empty or zero-weight input.
func BalancedProfile() Profile {
	return Profile{Q1: 0.25, Q2: 0.25, Q3: 0.25, Q4: 0.25, Center: 0}
}

// Sum returns the total weight across all five buckets.
func (p Profile) Sum() float64 {
	return p.Q1 + p.Q2 + p.Q3 + p.Q4 + p.Center
}

// #endregion profile

// #region compute

// Compute aggregates weighted activity into the four quadrants plus the
// center bucket and normalizes by total weight.
func Compute(events []event.ActivityEvent) Profile {
	var q1, q2, q3, q4, center float64
	for _, e := range events {
		switch e.Region {
		case event.RegionQ1:
			q1 += e.Magnitude
		case event.RegionQ2:
			q2 += e.Magnitude
		case event.RegionQ3:
			q3 += e.Magnitude
		case event.RegionQ4:
			q4 += e.Magnitude
		case event.RegionCenter:
			center += e.Magnitude
		}
	}

	total := q1 + q2 + q3 + q4 + center
	if total <= 0 {
		return BalancedProfile()
	}
	return Profile{
		Q1:     q1 / total,
		Q2:     q2 / total,
		Q3:     q3 / total,
		Q4:     q4 / total,
		Center: center / total,
	}
}

// #endregion compute

// #region flow-direction

// FlowDirection is the qualitative direction activity concentrated toward.
type FlowDirection string

const (
	FlowForward  FlowDirection = "forward"
	FlowLateral  FlowDirection = "lateral"
	FlowBackward FlowDirection = "backward"
	FlowChaotic  FlowDirection = "chaotic"
)

// directionThreshold: below this on both axes the profile has no usable
// directional signal and is classified chaotic.
const directionThreshold = 0.15

// DetermineFlowDirection derives a direction tag from the profile.
// Forward-ness is top regions minus bottom regions; lateral-ness is the
// left/right difference. The function is pure and idempotent.
func DetermineFlowDirection(p Profile) FlowDirection {
	vertical := (p.Q1 + p.Q2) - (p.Q3 + p.Q4)
	lateral := (p.Q1 + p.Q3) - (p.Q2 + p.Q4)

	if math.Abs(vertical) < directionThreshold && math.Abs(lateral) < directionThreshold {
		return FlowChaotic
	}
	if math.Abs(vertical) >= math.Abs(lateral) {
		if vertical > 0 {
			return FlowForward
		}
		return FlowBackward
	}
	return FlowLateral
}

// #endregion flow-direction
