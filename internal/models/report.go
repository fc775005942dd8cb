package models

// ValueReportRow is one upcoming matchup joined with odds, model output and
// per-outcome value deltas. Pointer fields are nil when the market leg is
// missing; implied probabilities and values are only defined where a price
// exists. Model probabilities always sum to 1 after normalization.
type ValueReportRow struct {
	EventID   string `json:"event_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeAbbr  string `json:"home_abbr"`
	AwayAbbr  string `json:"away_abbr"`

	OddsHome *float64 `json:"odds_home"`
	OddsDraw *float64 `json:"odds_draw"`
	OddsAway *float64 `json:"odds_away"`

	ModelHomeProb float64 `json:"model_home_win"`
	ModelDrawProb float64 `json:"model_draw"`
	ModelAwayProb float64 `json:"model_away_win"`

	ImpliedHomeProb *float64 `json:"implied_home_prob"`
	ImpliedDrawProb *float64 `json:"implied_draw_prob"`
	ImpliedAwayProb *float64 `json:"implied_away_prob"`

	ValueHome *float64 `json:"value_home"`
	ValueDraw *float64 `json:"value_draw"`
	ValueAway *float64 `json:"value_away"`

	BestValue      *Outcome `json:"best_value"`
	BestValueDelta *float64 `json:"best_value_delta"`
}

// Odds returns the decimal odds for the given outcome.
func (r ValueReportRow) Odds(o Outcome) *float64 {
	switch o {
	case OutcomeHome:
		return r.OddsHome
	case OutcomeDraw:
		return r.OddsDraw
	case OutcomeAway:
		return r.OddsAway
	}
	return nil
}

// ModelProb returns the normalized model probability for the given outcome.
func (r ValueReportRow) ModelProb(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return r.ModelHomeProb
	case OutcomeDraw:
		return r.ModelDrawProb
	case OutcomeAway:
		return r.ModelAwayProb
	}
	return 0
}

// Implied returns the normalized implied probability for the given outcome.
func (r ValueReportRow) Implied(o Outcome) *float64 {
	switch o {
	case OutcomeHome:
		return r.ImpliedHomeProb
	case OutcomeDraw:
		return r.ImpliedDrawProb
	case OutcomeAway:
		return r.ImpliedAwayProb
	}
	return nil
}

// Value returns the value delta for the given outcome.
func (r ValueReportRow) Value(o Outcome) *float64 {
	switch o {
	case OutcomeHome:
		return r.ValueHome
	case OutcomeDraw:
		return r.ValueDraw
	case OutcomeAway:
		return r.ValueAway
	}
	return nil
}
