// Package form computes rolling team-form statistics over a team's most
// recent completed games. Callers must pass a game list that already
// excludes the game being predicted; the engine never looks ahead.
package form

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/puckline/internal/models"
)

// DefaultWindows matches the lookback windows the model was trained with.
var DefaultWindows = []int{5, 10}

// MaxWindow returns the largest window, i.e. how many recent games are
// needed to fill every window.
func MaxWindow(windows []int) int {
	max := 0
	for _, w := range windows {
		if w > max {
			max = w
		}
	}
	return max
}

// CompletedOnly filters out games that have no final score yet. Applying it
// before Compute is what keeps the game being predicted out of its own
// feature window.
func CompletedOnly(games []models.Game) []models.Game {
	completed := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.State.Finished() {
			completed = append(completed, g)
		}
	}
	return completed
}

// Dedup removes duplicate games by composite key (provider id when present,
// else home|away|date) and sorts the result newest-first. The same
// externally-fetched game can appear twice across overlapping scoreboard
// queries.
func Dedup(games []models.Game) []models.Game {
	seen := make(map[string]struct{}, len(games))
	unique := make([]models.Game, 0, len(games))
	for _, g := range games {
		key := g.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, g)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		ti, iok := unique[i].ParsedDate()
		tj, jok := unique[j].ParsedDate()
		if iok && jok {
			return ti.After(tj)
		}
		// Unparseable dates fall back to lexical comparison.
		return unique[i].Date > unique[j].Date
	})
	return unique
}

// Compute returns per-window form for the given team. For each window w the
// first min(w, len) games of the deduplicated newest-first list contribute
// mean goals-for, mean goals-against and win rate (win means goals-for
// strictly greater than goals-against, so OT/SO losses count as non-wins).
// A team with no games gets the neutral prior.
func Compute(teamAbbr string, games []models.Game, windows []int) map[int]models.TeamForm {
	result := make(map[int]models.TeamForm, len(windows))
	sorted := Dedup(games)

	if len(sorted) == 0 {
		for _, w := range windows {
			result[w] = models.NeutralForm()
		}
		return result
	}

	for _, w := range windows {
		subset := sorted
		if len(subset) > w {
			subset = subset[:w]
		}

		var goalsFor, goalsAgainst, wins float64
		for _, g := range subset {
			gf, ga := perspective(g, teamAbbr)
			goalsFor += float64(gf)
			goalsAgainst += float64(ga)
			if gf > ga {
				wins++
			}
		}

		n := float64(len(subset))
		result[w] = models.TeamForm{
			GoalsForAvg:     goalsFor / n,
			GoalsAgainstAvg: goalsAgainst / n,
			WinRate:         wins / n,
		}
	}
	return result
}

// Summaries formats the team's most recent games oldest-first for display.
func Summaries(teamAbbr string, games []models.Game, limit int) []models.GameSummary {
	sorted := Dedup(games)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	summaries := make([]models.GameSummary, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		g := sorted[i]
		gf, ga := perspective(g, teamAbbr)

		venue := "A"
		if g.Home == teamAbbr {
			venue = "H"
		}
		result := "L"
		if gf > ga {
			result = "W"
		}

		date := g.Date
		if t, ok := g.ParsedDate(); ok {
			date = t.Format("2006-01-02")
		} else if len(date) > 10 {
			date = date[:10]
		}

		summaries = append(summaries, models.GameSummary{
			Date:         date,
			Venue:        venue,
			Result:       result,
			GoalsFor:     gf,
			GoalsAgainst: ga,
			Score:        fmt.Sprintf("%d-%d", gf, ga),
		})
	}
	return summaries
}

// Stats aggregates a game list into display statistics.
func Stats(teamAbbr string, games []models.Game) models.TeamStats {
	if len(games) == 0 {
		return models.TeamStats{}
	}

	var goalsFor, goalsAgainst float64
	var wins int
	for _, g := range games {
		gf, ga := perspective(g, teamAbbr)
		goalsFor += float64(gf)
		goalsAgainst += float64(ga)
		if gf > ga {
			wins++
		}
	}

	n := len(games)
	return models.TeamStats{
		GoalsForAvg:     round2(goalsFor / float64(n)),
		GoalsAgainstAvg: round2(goalsAgainst / float64(n)),
		Wins:            wins,
		Losses:          n - wins,
		WinPercentage:   round1(float64(wins) / float64(n) * 100),
	}
}

func perspective(g models.Game, teamAbbr string) (goalsFor, goalsAgainst int) {
	if g.Home == teamAbbr {
		return g.HomeGoals, g.AwayGoals
	}
	return g.AwayGoals, g.HomeGoals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
