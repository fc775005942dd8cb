package models

// TeamForm holds rolling statistics over a team's most recent completed
// games for one lookback window. With no games available the goals averages
// are 0.0 and the win rate is the neutral prior 0.5.
type TeamForm struct {
	GoalsForAvg     float64 `json:"goals_for_avg"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`
	WinRate         float64 `json:"win_rate"`
}

// NeutralForm is the prior used when a team has no completed games.
func NeutralForm() TeamForm {
	return TeamForm{GoalsForAvg: 0.0, GoalsAgainstAvg: 0.0, WinRate: 0.5}
}

// GameSummary is a frontend-friendly view of one recent game from a team's
// perspective.
type GameSummary struct {
	Date         string `json:"date"`
	Venue        string `json:"venue"`  // "H" or "A"
	Result       string `json:"result"` // "W" or "L"
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Score        string `json:"score"`
}

// TeamStats aggregates a team's recent games for display.
type TeamStats struct {
	GoalsForAvg     float64 `json:"goals_for_avg"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinPercentage   float64 `json:"win_percentage"`
}
