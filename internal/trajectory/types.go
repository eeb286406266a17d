package trajectory

// #region milestone
// Milestone is a predicted future point of interest.
type Milestone struct {
	Index          int     `json:"index"`
	Event          string  `json:"event"`
	Probability    float64 `json:"probability"`
	Impact         float64 `json:"impact"`
	Recommendation string  `json:"recommendation"`
}

// #endregion milestone

// #region prediction
// Prediction is the forecast produced from a signature and its matches.
// The three probabilities are each >= 0 and sum to <= 1.01 (floating-point
// tolerance). Milestones are ordered by index, each strictly beyond the
// current position and at or before the total expected length.
type Prediction struct {
	PredictedOutcome        string      `json:"predicted_outcome"`
	Confidence              float64     `json:"confidence"`
	PrimaryWinProbability   float64     `json:"primary_win_probability"`
	SecondaryWinProbability float64     `json:"secondary_win_probability"`
	DrawProbability         float64     `json:"draw_probability"`
	Milestones              []Milestone `json:"milestones"`
	StrategicGuidance       string      `json:"strategic_guidance"`
	LookaheadHorizon        int         `json:"lookahead_horizon"`
	SampleSize              int         `json:"sample_size"`
}

// #endregion prediction

// #region sustainability
// RiskLevel grades a sustainability assessment.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Sustainability reports whether the current trajectory can hold.
type Sustainability struct {
	Sustainable bool      `json:"sustainable"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Reason      string    `json:"reason"`
}

// #endregion sustainability

// #region config
// Config holds prediction parameters.
type Config struct {
	// MatchWeight and ArchetypeWeight blend the two confidence sources.
	MatchWeight     float64
	ArchetypeWeight float64
	// DefaultArchetypeConfidence applies when no archetype is supplied.
	DefaultArchetypeConfidence float64
	// MilestoneOffsets are fractional offsets into the remaining distance.
	MilestoneOffsets []float64
	// MilestoneMinRemaining: offset milestones are only generated when
	// more than this many positions remain.
	MilestoneMinRemaining int
	// MaxMilestones caps the milestone list.
	MaxMilestones int
	// HorizonScale: lookahead is floor(HorizonScale x confidence), capped
	// at the true remaining distance.
	HorizonScale float64
}

// DefaultConfig returns the standard prediction parameters.
func DefaultConfig() Config {
	return Config{
		MatchWeight:                0.6,
		ArchetypeWeight:            0.4,
		DefaultArchetypeConfidence: 0.5,
		MilestoneOffsets:           []float64{0.25, 0.50, 0.70},
		MilestoneMinRemaining:      10,
		MaxMilestones:              5,
		HorizonScale:               80,
	}
}

// #endregion config
