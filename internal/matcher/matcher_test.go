package matcher

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/signet/internal/phase"
	"github.com/danielpatrickdp/signet/internal/quadrant"
	"github.com/danielpatrickdp/signet/internal/signature"
)

func sig(q1, q2, q3, q4 float64, momentum float64) signature.Signature {
	return signature.Signature{
		Quadrants: quadrant.Profile{Q1: q1, Q2: q2, Q3: q3, Q4: q4},
		Flow:      phase.Flow{Opening: 0.5, Middle: 0.5, Ending: 0.5, Trend: phase.TrendStable, Momentum: momentum},
	}
}

func TestSimilarityIdentical(t *testing.T) {
	a := sig(0.4, 0.3, 0.2, 0.1, 0.2)
	if s := Similarity(a, a); math.Abs(s-1.0) > 1e-9 {
		t.Errorf("self-similarity = %v, want 1", s)
	}
}

func TestSimilarityBounds(t *testing.T) {
	a := sig(1, 0, 0, 0, 1)
	b := sig(0, 0, 0, 1, -1)
	s := Similarity(a, b)
	if s < 0 || s > 1 {
		t.Errorf("similarity = %v, want [0,1]", s)
	}
	if s >= 1 {
		t.Errorf("similarity = %v for disjoint signatures, want < 1", s)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := sig(0.4, 0.3, 0.2, 0.1, 0.5)
	b := sig(0.1, 0.2, 0.3, 0.4, -0.5)
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("similarity is not symmetric")
	}
}

func TestFindMatchesFiltersAndSorts(t *testing.T) {
	target := sig(0.4, 0.3, 0.2, 0.1, 0)
	corpus := []Record{
		{Signature: sig(0.1, 0.2, 0.3, 0.4, 0), Outcome: "far"},
		{Signature: sig(0.4, 0.3, 0.2, 0.1, 0), Outcome: "exact"},
		{Signature: sig(0.35, 0.3, 0.25, 0.1, 0), Outcome: "near"},
	}

	matches := FindMatches(target, corpus, 0.9, 10)

	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	for _, m := range matches {
		if m.Similarity < 0.9 {
			t.Errorf("match %q below minSimilarity: %v", m.Outcome, m.Similarity)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Fatal("matches not sorted descending")
		}
	}
	if matches[0].Outcome != "exact" {
		t.Errorf("best match = %q, want exact", matches[0].Outcome)
	}
}

func TestFindMatchesLimit(t *testing.T) {
	target := sig(0.25, 0.25, 0.25, 0.25, 0)
	corpus := make([]Record, 20)
	for i := range corpus {
		corpus[i] = Record{Signature: target, Outcome: "same"}
	}
	if got := FindMatches(target, corpus, 0, 5); len(got) != 5 {
		t.Errorf("got %d matches, want 5", len(got))
	}
}

func TestFindMatchesEmptyCorpus(t *testing.T) {
	if got := FindMatches(sig(1, 0, 0, 0, 0), nil, 0, 10); len(got) != 0 {
		t.Errorf("got %d matches from empty corpus", len(got))
	}
}

func TestOutcomeProbabilitiesWeightedVote(t *testing.T) {
	matches := []Match{
		{Outcome: "success", Similarity: 0.9},
		{Outcome: "success", Similarity: 0.6},
		{Outcome: "failure", Similarity: 0.5},
	}
	probs := OutcomeProbabilities(matches)

	var sum float64
	for _, p := range probs {
		if p < 0 {
			t.Errorf("negative probability %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
	if probs["success"] <= probs["failure"] {
		t.Errorf("success %v should outweigh failure %v", probs["success"], probs["failure"])
	}
	if want := 1.5 / 2.0; math.Abs(probs["success"]-want) > 1e-9 {
		t.Errorf("success = %v, want %v", probs["success"], want)
	}
}

func TestOutcomeProbabilitiesEmpty(t *testing.T) {
	if probs := OutcomeProbabilities(nil); len(probs) != 0 {
		t.Errorf("got %v, want empty map", probs)
	}
}

func TestMatchConfidenceSaturates(t *testing.T) {
	if c := MatchConfidence(nil); c != 0 {
		t.Errorf("confidence = %v for no matches, want 0", c)
	}

	one := []Match{{Outcome: "success", Similarity: 0.9}}
	many := make([]Match, 10)
	for i := range many {
		many[i] = Match{Outcome: "success", Similarity: 0.9}
	}

	cOne := MatchConfidence(one)
	cMany := MatchConfidence(many)
	if cMany <= cOne {
		t.Errorf("confidence should grow with count: %v then %v", cOne, cMany)
	}
	if cMany > 1 {
		t.Errorf("confidence = %v, want <= 1", cMany)
	}

	// Saturated: more matches past the knee change nothing.
	more := append(many, many...)
	if got := MatchConfidence(more); math.Abs(got-cMany) > 1e-9 {
		t.Errorf("confidence moved past saturation: %v vs %v", got, cMany)
	}
}
