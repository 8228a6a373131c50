package ai

// Tuning holds the weights of the card-selection heuristic. The factor
// weights mirror the balance the game shipped with; the remaining knobs
// shape how hard unseen trumps and unacted opponents press on the win
// probability.
type Tuning struct {
	WinWeight      float64
	TacticalWeight float64
	PartnerWeight  float64
	StageWeight    float64
	RiskWeight     float64

	// TrumpThreatWeight scales unseen trump cards against a non-trump
	// candidate when estimating the chance the card holds up.
	TrumpThreatWeight float64
	// UnactedRiskFactor multiplies residual risk once per opponent still
	// to act in the trick. Must be > 1.
	UnactedRiskFactor float64
	// StrongTrumpLeadValue is the minimum rank value for opening with a
	// trump (King and up).
	StrongTrumpLeadValue int
}

// DefaultTuning is the standard opponent calibration.
var DefaultTuning = Tuning{
	WinWeight:      0.5,
	TacticalWeight: 0.3,
	PartnerWeight:  0.2,
	StageWeight:    0.1,
	RiskWeight:     0.15,

	TrumpThreatWeight:    1.0,
	UnactedRiskFactor:    1.1,
	StrongTrumpLeadValue: 13,
}
