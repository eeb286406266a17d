package event

// #region imports
import (
	"fmt"
	"math"
	"sort"
	"time"
)

// #endregion imports

// #region region

// Region is the categorical bucket an activity event lands in:
// four quadrants plus a neutral center.
type Region string

const (
	RegionQ1     Region = "q1" // top-left
	RegionQ2     Region = "q2" // top-right
	RegionQ3     Region = "q3" // bottom-left
	RegionQ4     Region = "q4" // bottom-right
	RegionCenter Region = "center"
)

// Valid reports whether r is one of the five known regions.
func (r Region) Valid() bool {
	switch r {
	case RegionQ1, RegionQ2, RegionQ3, RegionQ4, RegionCenter:
		return true
	}
	return false
}

// #endregion region

// #region activity-event

// ActivityEvent is one timestamped, weighted, region-tagged unit of domain
// input (a commit, a move, a tick). Immutable once produced by an adapter.
type ActivityEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Magnitude float64   `json:"magnitude"`
	Region    Region    `json:"region"`
}

// Validate fails fast on malformed events: NaN or negative magnitude, or an
// unknown region tag.
func (e ActivityEvent) Validate() error {
	if math.IsNaN(e.Magnitude) {
		return fmt.Errorf("event magnitude is NaN")
	}
	if e.Magnitude < 0 {
		return fmt.Errorf("event magnitude %v is negative", e.Magnitude)
	}
	if !e.Region.Valid() {
		return fmt.Errorf("unknown region %q", e.Region)
	}
	return nil
}

// ValidateAll validates a full sequence, reporting the first bad event.
func ValidateAll(events []ActivityEvent) error {
	for i, e := range events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// #endregion activity-event

// #region ordering

// SortByTime returns a copy of events sorted ascending by timestamp.
// The sort is stable so same-timestamp events keep their input order.
func SortByTime(events []ActivityEvent) []ActivityEvent {
	sorted := make([]ActivityEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// #endregion ordering

// #region normalization

// NormalizeLevels converts event magnitudes into activity levels in [0,1] by
// dividing by scale and clipping. scale is domain-chosen (e.g. max expected
// magnitude); non-positive scale yields all zeros rather than Inf/NaN.
func NormalizeLevels(events []ActivityEvent, scale float64) []float64 {
	levels := make([]float64, len(events))
	if scale <= 0 || math.IsNaN(scale) {
		return levels
	}
	for i, e := range events {
		v := e.Magnitude / scale
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		levels[i] = v
	}
	return levels
}

// #endregion normalization
