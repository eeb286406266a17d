package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/signet/internal/event"
	"github.com/danielpatrickdp/signet/internal/signature"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: one query
// sequence, the corpus it runs against, and the expected results.
type Fixture struct {
	Description     string          `json:"description"`
	Domain          string          `json:"domain"`
	Events          []FixtureEvent  `json:"events"`
	Inputs          FixtureInputs   `json:"inputs"`
	CorpusSeeds     []FixtureSeed   `json:"corpus_seeds"`
	CurrentPosition int             `json:"current_position"`
	TotalLength     int             `json:"total_length"`
	Expected        FixtureExpected `json:"expected"`
}

// FixtureEvent is one activity event with its timestamp as a second offset
// from a fixed base, keeping fixtures stable across runs.
type FixtureEvent struct {
	OffsetSec int     `json:"offset_sec"`
	Magnitude float64 `json:"magnitude"`
	Region    string  `json:"region"`
}

// FixtureInputs mirrors signature.Inputs with JSON tags.
type FixtureInputs struct {
	Archetype       string  `json:"archetype"`
	PrimarySignal   float64 `json:"primary_signal"`
	SecondarySignal float64 `json:"secondary_signal"`
}

// FixtureSeed is one historical sequence with its known outcome. Seeds are
// extracted with the same config as the query, so they exercise the full
// extraction path rather than carrying canned signatures.
type FixtureSeed struct {
	Events  []FixtureEvent `json:"events"`
	Inputs  FixtureInputs  `json:"inputs"`
	Outcome string         `json:"outcome"`
}

// FixtureExpected captures the assertions for one fixture. Empty string
// fields are not checked; a MinConfidence of 0 is not checked.
type FixtureExpected struct {
	Trend            string  `json:"trend,omitempty"`
	Fingerprint      string  `json:"fingerprint,omitempty"`
	PredictedOutcome string  `json:"predicted_outcome,omitempty"`
	Sustainable      *bool   `json:"sustainable,omitempty"`
	MinConfidence    float64 `json:"min_confidence,omitempty"`
}

// #endregion fixture-types

// #region load

// fixtureBase anchors offset timestamps.
var fixtureBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// #endregion load

// #region conversion

// ToEvents converts fixture events into activity events.
func ToEvents(fes []FixtureEvent) []event.ActivityEvent {
	out := make([]event.ActivityEvent, len(fes))
	for i, fe := range fes {
		out[i] = event.ActivityEvent{
			Timestamp: fixtureBase.Add(time.Duration(fe.OffsetSec) * time.Second),
			Magnitude: fe.Magnitude,
			Region:    event.Region(fe.Region),
		}
	}
	return out
}

// ToInputs converts fixture inputs.
func ToInputs(fi FixtureInputs) signature.Inputs {
	return signature.Inputs{
		Archetype:       fi.Archetype,
		PrimarySignal:   fi.PrimarySignal,
		SecondarySignal: fi.SecondarySignal,
	}
}

// #endregion conversion
