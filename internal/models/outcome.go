package models

// Outcome represents one leg of the three-way market.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Outcomes is the fixed market order. Iteration order matters: best-value
// ties are broken by first-seen.
var Outcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// OutcomeFromScore derives the settlement outcome from a final score.
// Draw covers the regulation-tie (OT/SO) class.
func OutcomeFromScore(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHome
	case awayGoals > homeGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	}
	return false
}
