package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/puckline/internal/models"
)

func game(id, date, home, away string, hg, ag int) models.Game {
	return models.Game{
		ID: id, Date: date, Home: home, Away: away,
		HomeGoals: hg, AwayGoals: ag, State: models.GameStateOfficial,
	}
}

func TestComputeBasicWindows(t *testing.T) {
	games := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2), // W, newest
		game("2", "2025-01-08", "NYR", "BOS", 1, 3), // W (away)
		game("3", "2025-01-06", "BOS", "TOR", 2, 5), // L
		game("4", "2025-01-04", "DET", "BOS", 2, 2), // tie counts as non-win
		game("5", "2025-01-02", "BOS", "CHI", 1, 0), // W
	}

	result := Compute("BOS", games, []int{3, 5})

	w3 := result[3]
	assert.InDelta(t, (4.0+3.0+2.0)/3.0, w3.GoalsForAvg, 1e-9)
	assert.InDelta(t, (2.0+1.0+5.0)/3.0, w3.GoalsAgainstAvg, 1e-9)
	assert.InDelta(t, 2.0/3.0, w3.WinRate, 1e-9)

	w5 := result[5]
	assert.InDelta(t, 3.0/5.0, w5.WinRate, 1e-9)
}

func TestComputeShortList(t *testing.T) {
	games := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2),
		game("2", "2025-01-08", "BOS", "NYR", 0, 1),
	}

	// Fewer games than the window: average over what is available.
	result := Compute("BOS", games, []int{10})
	w := result[10]
	assert.InDelta(t, 2.0, w.GoalsForAvg, 1e-9)
	assert.InDelta(t, 1.5, w.GoalsAgainstAvg, 1e-9)
	assert.InDelta(t, 0.5, w.WinRate, 1e-9)
}

func TestComputeNoGamesNeutralPrior(t *testing.T) {
	result := Compute("BOS", nil, []int{5, 10})
	for _, w := range []int{5, 10} {
		assert.Equal(t, 0.0, result[w].GoalsForAvg)
		assert.Equal(t, 0.0, result[w].GoalsAgainstAvg)
		assert.Equal(t, 0.5, result[w].WinRate)
	}
}

func TestDedupByCompositeKey(t *testing.T) {
	games := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2),
		game("1", "2025-01-10", "BOS", "MTL", 4, 2), // same id
		game("", "2025-01-08", "BOS", "NYR", 2, 1),
		game("", "2025-01-08", "BOS", "NYR", 2, 1), // same home|away|date
	}

	unique := Dedup(games)
	require.Len(t, unique, 2)
	assert.Equal(t, "1", unique[0].ID)
}

func TestDedupSortsNewestFirst(t *testing.T) {
	games := []models.Game{
		game("a", "2025-01-02", "BOS", "CHI", 1, 0),
		game("b", "2025-01-10T19:00:00Z", "BOS", "MTL", 4, 2),
		game("c", "2025-01-06", "BOS", "TOR", 2, 5),
	}

	sorted := Dedup(games)
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "c", sorted[1].ID)
	assert.Equal(t, "a", sorted[2].ID)
}

func TestComputeNoLookahead(t *testing.T) {
	history := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2),
		game("2", "2025-01-08", "NYR", "BOS", 1, 3),
		game("3", "2025-01-06", "BOS", "TOR", 2, 5),
	}

	baseline := Compute("BOS", CompletedOnly(history), DefaultWindows)

	// Today's game-to-predict has no final score yet; it must never leak
	// into its own feature window regardless of the score it carries.
	today := game("99", "2025-01-12", "BOS", "PIT", 9, 0)
	today.State = models.GameStateScheduled

	withToday := append([]models.Game{today}, history...)
	assert.Equal(t, baseline, Compute("BOS", CompletedOnly(withToday), DefaultWindows))

	today.HomeGoals = 0
	today.AwayGoals = 9
	mutated := append([]models.Game{today}, history...)
	assert.Equal(t, baseline, Compute("BOS", CompletedOnly(mutated), DefaultWindows))
}

func TestSummariesOldestFirst(t *testing.T) {
	games := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2),
		game("2", "2025-01-08", "NYR", "BOS", 1, 3),
		game("3", "2025-01-06", "BOS", "TOR", 2, 5),
	}

	summaries := Summaries("BOS", games, 2)
	require.Len(t, summaries, 2)

	// Two newest games, rendered oldest-first.
	assert.Equal(t, "2025-01-08", summaries[0].Date)
	assert.Equal(t, "A", summaries[0].Venue)
	assert.Equal(t, "W", summaries[0].Result)
	assert.Equal(t, "3-1", summaries[0].Score)

	assert.Equal(t, "2025-01-10", summaries[1].Date)
	assert.Equal(t, "H", summaries[1].Venue)
	assert.Equal(t, "4-2", summaries[1].Score)
}

func TestStats(t *testing.T) {
	games := []models.Game{
		game("1", "2025-01-10", "BOS", "MTL", 4, 2),
		game("2", "2025-01-08", "NYR", "BOS", 1, 3),
		game("3", "2025-01-06", "BOS", "TOR", 2, 5),
	}

	stats := Stats("BOS", games)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.InDelta(t, 3.0, stats.GoalsForAvg, 1e-9)
	assert.InDelta(t, 66.7, stats.WinPercentage, 0.01)

	assert.Equal(t, models.TeamStats{}, Stats("BOS", nil))
}
