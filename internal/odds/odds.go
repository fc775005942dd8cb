// Package odds converts bookmaker decimal odds to implied probabilities,
// normalizes mutually exclusive outcome probabilities, and computes per-leg
// value deltas against model output. Every place odds are compared to model
// probabilities must run the same implied -> normalize -> delta pipeline.
package odds

const epsilon = 1e-9

// Implied returns 1/odds for a finite positive price, nil otherwise.
// Missing or invalid odds are information absence, not an error.
func Implied(odds *float64) *float64 {
	if odds == nil || *odds <= epsilon {
		return nil
	}
	p := 1.0 / *odds
	return &p
}

// Normalize scales the given probabilities to sum to 1, treating nil as 0.0
// before summing. A missing leg therefore contributes nothing to the
// denominator and the remaining legs renormalize among themselves; this
// shifts the other legs when exactly one price is absent, which is the
// preserved historical behavior rather than an endorsement of it. When the
// total is zero the result is all-zero, never a division by zero; callers
// must treat all-zero as "no signal".
func Normalize(probs ...*float64) []float64 {
	clean := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		if p != nil {
			clean[i] = *p
			total += *p
		}
	}
	if total <= 0 {
		return clean
	}
	for i := range clean {
		clean[i] /= total
	}
	return clean
}

// Value returns modelProb minus the implied probability, or nil when no
// market price exists for the leg.
func Value(modelProb float64, implied *float64) *float64 {
	if implied == nil {
		return nil
	}
	v := modelProb - *implied
	return &v
}

// ExpectedValue returns the expected profit per unit stake, p*odds - 1, or
// nil for a missing price.
func ExpectedValue(modelProb float64, odds *float64) *float64 {
	if odds == nil || *odds <= epsilon {
		return nil
	}
	ev := modelProb**odds - 1.0
	return &ev
}

// Complete reports whether every leg has a usable price.
func Complete(odds ...*float64) bool {
	for _, o := range odds {
		if o == nil || *o <= epsilon {
			return false
		}
	}
	return true
}
