package models

// BetStatus represents the lifecycle state of a ledger entry.
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// BetEntry is one persisted ledger row. Exactly one entry exists per
// (event_id, selection) pair. Settlement fields (Payout, Profit,
// ActualOutcome, UpdatedAt) are written once, at the pending -> won/lost
// transition, and are zero/empty before it.
type BetEntry struct {
	Date          string    `json:"date"`
	EventID       string    `json:"event_id"`
	StartTime     string    `json:"start_time"`
	HomeAbbr      string    `json:"home_abbr"`
	AwayAbbr      string    `json:"away_abbr"`
	Selection     Outcome   `json:"selection"`
	Odds          float64   `json:"odds"`
	ModelProb     float64   `json:"model_prob"`
	ImpliedProb   float64   `json:"implied_prob"`
	Value         float64   `json:"value"`
	Stake         float64   `json:"stake"`
	Status        BetStatus `json:"status"`
	Payout        float64   `json:"payout"`
	Profit        float64   `json:"profit"`
	ActualOutcome string    `json:"actual_outcome"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

// IsPending reports whether the entry still awaits settlement.
func (b BetEntry) IsPending() bool {
	return b.Status == BetStatusPending
}

// PortfolioPoint is one derived point per calendar date present in the
// ledger. Never persisted.
type PortfolioPoint struct {
	Date          string  `json:"date"`
	Invested      float64 `json:"invested"`
	Value         float64 `json:"value"`
	SettledReturn float64 `json:"settled_return"`
	OpenStake     float64 `json:"open_stake"`
	OpenBets      int     `json:"open_bets"`
}

// PortfolioSummary aggregates the ledger as of the latest point.
type PortfolioSummary struct {
	TotalBets     int     `json:"total_bets"`
	OpenBets      int     `json:"open_bets"`
	TotalStaked   float64 `json:"total_staked"`
	SettledReturn float64 `json:"settled_return"`
	CurrentValue  float64 `json:"current_value"`
	Profit        float64 `json:"profit"`
	ROI           float64 `json:"roi"`
}

// PortfolioReport is the full read-derived view over the ledger.
type PortfolioReport struct {
	Timeseries []PortfolioPoint `json:"timeseries"`
	Summary    PortfolioSummary `json:"summary"`
	Bets       []BetEntry       `json:"bets"`
}
