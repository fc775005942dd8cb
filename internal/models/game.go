package models

import "time"

// GameState represents the lifecycle state reported by the schedule provider.
type GameState string

const (
	GameStateScheduled GameState = "FUT"
	GameStateLive      GameState = "LIVE"
	GameStateFinal     GameState = "FINAL"
	GameStateOfficial  GameState = "OFF"
)

// Finished reports whether the game has a final score.
func (s GameState) Finished() bool {
	return s == GameStateFinal || s == GameStateOfficial
}

// Game represents one game from any source. Goals are only meaningful for
// completed games.
type Game struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD or RFC3339
	Home       string    `json:"home"`
	Away       string    `json:"away"`
	HomeGoals  int       `json:"home_goals"`
	AwayGoals  int       `json:"away_goals"`
	State      GameState `json:"state"`
	IsPlayoff  bool      `json:"is_playoff,omitempty"`
	IsOvertime bool      `json:"is_ot,omitempty"`
}

// Key returns the identity used for deduplication: provider id when
// available, else home|away|date.
func (g Game) Key() string {
	if g.ID != "" {
		return g.ID
	}
	return g.Home + "|" + g.Away + "|" + g.Date
}

// ParsedDate parses the game date, tolerating full RFC3339 timestamps.
func (g Game) ParsedDate() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, g.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GameResult is the settlement view of a completed game.
type GameResult struct {
	Finished  bool
	Outcome   Outcome
	HomeGoals int
	AwayGoals int
}

// Matchup is one upcoming game from the odds provider with three-way
// decimal odds. Odds legs may be missing.
type Matchup struct {
	EventID   string   `json:"event_id"`
	StartTime string   `json:"start_time"`
	Home      string   `json:"home"`
	Away      string   `json:"away"`
	HomeAbbr  string   `json:"home_abbr"`
	AwayAbbr  string   `json:"away_abbr"`
	OddsHome  *float64 `json:"odds_home"`
	OddsDraw  *float64 `json:"odds_draw"`
	OddsAway  *float64 `json:"odds_away"`
}
