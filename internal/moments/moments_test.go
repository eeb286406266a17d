package moments

import (
	"testing"
	"time"

	"github.com/danielpatrickdp/signet/internal/event"
)

func makeEvents(mags ...float64) []event.ActivityEvent {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]event.ActivityEvent, len(mags))
	for i, m := range mags {
		out[i] = event.ActivityEvent{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Magnitude: m,
			Region:    event.RegionQ1,
		}
	}
	return out
}

func TestDetectFlagsSpikes(t *testing.T) {
	// avg = 2.8; only 10 exceeds 3x avg.
	found := Detect(makeEvents(1, 1, 1, 10, 1))

	if len(found) != 1 {
		t.Fatalf("got %d moments, want 1", len(found))
	}
	m := found[0]
	if m.Index != 3 {
		t.Errorf("index = %d, want 3", m.Index)
	}
	if m.Severity <= 0 || m.Severity > 1 {
		t.Errorf("severity = %v, want (0,1]", m.Severity)
	}
	if m.Type != "magnitude_spike" {
		t.Errorf("type = %q", m.Type)
	}
}

func TestDetectNoSpikes(t *testing.T) {
	if found := Detect(makeEvents(1, 1, 1, 1)); len(found) != 0 {
		t.Errorf("got %d moments, want 0", len(found))
	}
}

func TestDetectZeroAverage(t *testing.T) {
	if found := Detect(makeEvents(0, 0, 0)); len(found) != 0 {
		t.Errorf("got %d moments for zero-magnitude input, want 0", len(found))
	}
}

func TestDetectEmptyInput(t *testing.T) {
	if found := Detect(nil); found != nil {
		t.Errorf("got %v, want nil", found)
	}
}

func TestDetectCapsAndSorts(t *testing.T) {
	// 100 quiet events plus 12 spikes keeps the average low enough that
	// every spike qualifies; output must cap at MaxMoments, earliest first.
	mags := make([]float64, 0, 112)
	for i := 0; i < 50; i++ {
		mags = append(mags, 0)
	}
	for i := 0; i < 12; i++ {
		mags = append(mags, 1)
	}
	for i := 0; i < 50; i++ {
		mags = append(mags, 0)
	}
	found := Detect(makeEvents(mags...))

	if len(found) != MaxMoments {
		t.Fatalf("got %d moments, want %d", len(found), MaxMoments)
	}
	for i := 1; i < len(found); i++ {
		if found[i].Index <= found[i-1].Index {
			t.Fatalf("moments not sorted chronologically: %d then %d", found[i-1].Index, found[i].Index)
		}
	}
	if found[0].Index != 50 {
		t.Errorf("first moment index = %d, want 50", found[0].Index)
	}
}

func TestDetectSeveritySaturates(t *testing.T) {
	// 1000 is far past severityScale x avg; severity clamps at 1.
	found := Detect(makeEvents(1, 1, 1, 1000))
	if len(found) != 1 {
		t.Fatalf("got %d moments, want 1", len(found))
	}
	if found[0].Severity != 1 {
		t.Errorf("severity = %v, want 1", found[0].Severity)
	}
}
