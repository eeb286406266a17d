package trajectory

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/signet/internal/archetype"
	"github.com/danielpatrickdp/signet/internal/matcher"
	"github.com/danielpatrickdp/signet/internal/moments"
	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/quadrant"
	"github.com/danielpatrickdp/signet/internal/signature"
)

func stableSig() signature.Signature {
	return signature.Signature{
		Fingerprint:   "EP-00ABCDEF",
		Quadrants:     quadrant.Profile{Q1: 0.4, Q2: 0.3, Q3: 0.2, Q4: 0.1},
		Flow:          phase.Flow{Opening: 0.5, Middle: 0.5, Ending: 0.5, Trend: phase.TrendStable},
		Intensity:     0.5,
		DominantForce: signature.ForceBalanced,
	}
}

func successMatches(n int, sim float64) []matcher.Match {
	out := make([]matcher.Match, n)
	for i := range out {
		out[i] = matcher.Match{Signature: stableSig(), Outcome: "success", Similarity: sim}
	}
	return out
}

func TestPredictSingleStrongMatch(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	pred := p.Predict(stableSig(), successMatches(1, 0.9), nil, 10, 50)

	if pred.PrimaryWinProbability < 0.9 {
		t.Errorf("primary = %v, want heavily weighted toward success", pred.PrimaryWinProbability)
	}
	if pred.PredictedOutcome != "primary_win" {
		t.Errorf("outcome = %q, want primary_win", pred.PredictedOutcome)
	}
	if len(pred.Milestones) == 0 {
		t.Fatal("milestone list is empty")
	}
	if pred.SampleSize != 1 {
		t.Errorf("sample size = %d, want 1", pred.SampleSize)
	}
}

func TestPredictProbabilityInvariants(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	cases := [][]matcher.Match{
		nil,
		successMatches(3, 0.8),
		{
			{Signature: stableSig(), Outcome: "success", Similarity: 0.9},
			{Signature: stableSig(), Outcome: "failure", Similarity: 0.7},
			{Signature: stableSig(), Outcome: "draw", Similarity: 0.5},
		},
	}
	for i, matches := range cases {
		pred := p.Predict(stableSig(), matches, nil, 5, 40)
		for name, v := range map[string]float64{
			"primary":   pred.PrimaryWinProbability,
			"secondary": pred.SecondaryWinProbability,
			"draw":      pred.DrawProbability,
		} {
			if v < 0 || math.IsNaN(v) {
				t.Errorf("case %d: %s probability = %v", i, name, v)
			}
		}
		sum := pred.PrimaryWinProbability + pred.SecondaryWinProbability + pred.DrawProbability
		if sum > 1.01 {
			t.Errorf("case %d: probabilities sum to %v", i, sum)
		}
	}
}

func TestPredictNoMatches(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	pred := p.Predict(stableSig(), nil, nil, 10, 50)

	if pred.PredictedOutcome != "unknown" {
		t.Errorf("outcome = %q, want unknown", pred.PredictedOutcome)
	}
	if pred.SampleSize != 0 {
		t.Errorf("sample size = %d, want 0", pred.SampleSize)
	}
	// No matches, no archetype: confidence is the 0.4 x 0.5 archetype share.
	if math.Abs(pred.Confidence-0.2) > 1e-9 {
		t.Errorf("confidence = %v, want 0.2", pred.Confidence)
	}
}

func TestPredictMilestoneBounds(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	sig := stableSig()
	sig.Moments = []moments.Moment{
		{Index: 5, Severity: 0.9},  // behind the current position: excluded
		{Index: 30, Severity: 0.8}, // ahead: folded in
	}

	for _, pos := range []int{0, 10, 35, 49} {
		pred := p.Predict(sig, successMatches(2, 0.8), nil, pos, 50)
		if len(pred.Milestones) > DefaultConfig().MaxMilestones {
			t.Fatalf("pos %d: %d milestones, want <= %d", pos, len(pred.Milestones), DefaultConfig().MaxMilestones)
		}
		for _, m := range pred.Milestones {
			if m.Index <= pos || m.Index > 50 {
				t.Errorf("pos %d: milestone index %d out of (pos, total]", pos, m.Index)
			}
		}
		for i := 1; i < len(pred.Milestones); i++ {
			if pred.Milestones[i].Index < pred.Milestones[i-1].Index {
				t.Errorf("pos %d: milestones not ordered", pos)
			}
		}
	}
}

func TestPredictShortRemainderSkipsOffsetMilestones(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	pred := p.Predict(stableSig(), successMatches(1, 0.9), nil, 45, 50)
	for _, m := range pred.Milestones {
		if m.Event == "early_checkpoint" || m.Event == "midpoint" || m.Event == "late_checkpoint" {
			t.Errorf("offset milestone %q generated with only 5 remaining", m.Event)
		}
	}
}

func TestPredictPastEnd(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	pred := p.Predict(stableSig(), successMatches(1, 0.9), nil, 60, 50)
	if len(pred.Milestones) != 0 {
		t.Errorf("got %d milestones past the end", len(pred.Milestones))
	}
	if pred.LookaheadHorizon != 0 {
		t.Errorf("lookahead = %d, want 0", pred.LookaheadHorizon)
	}
}

func TestPredictLookaheadCappedByRemaining(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	pred := p.Predict(stableSig(), successMatches(10, 0.95), nil, 40, 50)
	if pred.LookaheadHorizon > 10 {
		t.Errorf("lookahead = %d, want <= remaining 10", pred.LookaheadHorizon)
	}
}

func TestPredictLookaheadScalesWithConfidence(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	weak := p.Predict(stableSig(), successMatches(1, 0.62), nil, 0, 1000)
	strong := p.Predict(stableSig(), successMatches(10, 0.95), nil, 0, 1000)
	if strong.LookaheadHorizon <= weak.LookaheadHorizon {
		t.Errorf("lookahead did not grow with confidence: %d vs %d",
			weak.LookaheadHorizon, strong.LookaheadHorizon)
	}
}

func TestPredictArchetypeConfidenceBlend(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	def := &archetype.Definition{Name: "surge", Confidence: 1.0}

	without := p.Predict(stableSig(), successMatches(2, 0.8), nil, 10, 50)
	with := p.Predict(stableSig(), successMatches(2, 0.8), def, 10, 50)

	want := without.Confidence - 0.4*0.5 + 0.4*1.0
	if math.Abs(with.Confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", with.Confidence, want)
	}
}

func TestPredictDomainOutcomeFallbackKeys(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	matches := []matcher.Match{
		{Signature: stableSig(), Outcome: "white_win", Similarity: 0.9},
		{Signature: stableSig(), Outcome: "black_win", Similarity: 0.3},
	}
	pred := p.Predict(stableSig(), matches, nil, 10, 50)
	if pred.PrimaryWinProbability <= pred.SecondaryWinProbability {
		t.Errorf("white_win should map to primary: %v vs %v",
			pred.PrimaryWinProbability, pred.SecondaryWinProbability)
	}
}
