package workflow

// Decision is the outcome of evaluating a score
type Decision string

// Score decisions
const (
	DecisionPass    Decision = "PASS"
	DecisionStop    Decision = "STOP"
	DecisionImprove Decision = "IMPROVE"
)

// CheckScore decides what follows a SCORE step. A score at or above threshold
// passes; otherwise the run stops once iteration has reached maxLoops, and
// improves again if not.
func CheckScore(score, iteration, threshold, maxLoops int) Decision {
	if score >= threshold {
		return DecisionPass
	}
	if iteration >= maxLoops {
		return DecisionStop
	}
	return DecisionImprove
}

// Next returns the stage the machine moves to for d
func (d Decision) Next() Stage {
	if d == DecisionImprove {
		return StageImprove
	}
	return StageRender
}
