package moments

// #region imports
import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/signet/internal/event"
)

// #endregion imports

// #region types

// Moment marks a sequence index with an outsized magnitude change.
type Moment struct {
	Index       int     `json:"index"`
	Severity    float64 `json:"severity"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// #endregion types

// #region constants

const (
	// spikeFactor: an event is critical when its magnitude exceeds this
	// multiple of the sequence average.
	spikeFactor = 3.0
	// severityScale: severity saturates at severityScale times the average.
	severityScale = 10.0
	// MaxMoments caps the detector output.
	MaxMoments = 10
)

// #endregion constants

// #region detect

// Detect flags events whose magnitude exceeds 3x the sequence average,
// sorted chronologically and capped at MaxMoments. A zero-average sequence
// produces no moments.
func Detect(events []event.ActivityEvent) []Moment {
	if len(events) == 0 {
		return nil
	}

	var total float64
	for _, e := range events {
		total += e.Magnitude
	}
	avg := total / float64(len(events))
	if avg <= 0 {
		return nil
	}

	var found []Moment
	for i, e := range events {
		if e.Magnitude <= avg*spikeFactor {
			continue
		}
		ratio := e.Magnitude / avg
		severity := ratio / severityScale
		if severity > 1 {
			severity = 1
		}
		found = append(found, Moment{
			Index:       i,
			Severity:    severity,
			Type:        "magnitude_spike",
			Description: fmt.Sprintf("magnitude %.2f is %.1fx the sequence average", e.Magnitude, ratio),
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Index < found[j].Index })
	if len(found) > MaxMoments {
		found = found[:MaxMoments]
	}
	return found
}

// #endregion detect
