package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/puckline/internal/models"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScoreboardParsesGamesByDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"gamesByDate": [{
				"date": "2026-01-10",
				"games": [
					{
						"id": 2026020500,
						"gameDate": "2026-01-10",
						"gameState": "OFF",
						"homeTeam": {"abbrev": "BOS", "score": 4},
						"awayTeam": {"abbrev": "MTL", "score": 2}
					},
					{
						"id": 2026020501,
						"gameDate": "2026-01-10",
						"gameState": "FUT",
						"homeTeam": {"abbrev": "TOR"},
						"awayTeam": {"abbrev": "OTT"}
					}
				]
			}]
		}`))
	}))
	defer server.Close()

	sc := NewScheduleClient(server.URL, newTestClient(), time.Minute, discardLogger())
	games, err := sc.Scoreboard(context.Background(), "2026-01-10")

	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "2026020500", games[0].ID)
	assert.Equal(t, "BOS", games[0].Home)
	assert.Equal(t, "MTL", games[0].Away)
	assert.Equal(t, 4, games[0].HomeGoals)
	assert.Equal(t, 2, games[0].AwayGoals)
	assert.True(t, games[0].State.Finished())

	assert.Equal(t, "TOR", games[1].Home)
	assert.False(t, games[1].State.Finished())
}

func TestScoreboardFlatGamesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"games": [{
				"id": 2026020600,
				"gameDate": "2026-01-11",
				"gameState": "FINAL",
				"homeTeam": {"abbrev": "NYR", "score": 3},
				"awayTeam": {"abbrev": "NYI", "score": 1}
			}]
		}`))
	}))
	defer server.Close()

	sc := NewScheduleClient(server.URL, newTestClient(), time.Minute, discardLogger())
	games, err := sc.Scoreboard(context.Background(), "2026-01-11")

	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "NYR", games[0].Home)
}

func TestScoreboardCachesPerDate(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"games": []}`))
	}))
	defer server.Close()

	sc := NewScheduleClient(server.URL, newTestClient(), time.Minute, discardLogger())
	_, err := sc.Scoreboard(context.Background(), "2026-01-12")
	require.NoError(t, err)
	_, err = sc.Scoreboard(context.Background(), "2026-01-12")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestFinishedGameWithoutScoresIsNotSettleable(t *testing.T) {
	games := flattenScoreboard(scoreboardResponse{
		Games: []scheduleGame{{
			ID:        "1",
			GameDate:  "2026-01-10",
			GameState: "OFF",
			HomeTeam:  scheduleTeam{Abbrev: "BOS"},
			AwayTeam:  scheduleTeam{Abbrev: "MTL"},
		}},
	})

	require.Len(t, games, 1)
	assert.False(t, games[0].State.Finished())
}

func TestResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"games": [
				{
					"id": 1,
					"gameDate": "2026-01-10",
					"gameState": "OFF",
					"homeTeam": {"abbrev": "BOS", "score": 4},
					"awayTeam": {"abbrev": "MTL", "score": 2}
				},
				{
					"id": 2,
					"gameDate": "2026-01-10",
					"gameState": "LIVE",
					"homeTeam": {"abbrev": "TOR", "score": 1},
					"awayTeam": {"abbrev": "OTT", "score": 1}
				}
			]
		}`))
	}))
	defer server.Close()

	sc := NewScheduleClient(server.URL, newTestClient(), time.Minute, discardLogger())

	res, err := sc.Result(context.Background(), "2026-01-10", "BOS", "MTL")
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Equal(t, models.OutcomeHome, res.Outcome)
	assert.Equal(t, 4, res.HomeGoals)
	assert.Equal(t, 2, res.AwayGoals)

	res, err = sc.Result(context.Background(), "2026-01-10", "TOR", "OTT")
	require.NoError(t, err)
	assert.False(t, res.Finished)

	_, err = sc.Result(context.Background(), "2026-01-10", "VGK", "SEA")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTeamRecentGamesWalksBackAndDedups(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, today):
			// One completed game, one not yet played, and a duplicate of
			// yesterday's game carried across both responses.
			fmt.Fprintf(w, `{"games": [
				{"id": 10, "gameDate": %q, "gameState": "OFF",
				 "homeTeam": {"abbrev": "BOS", "score": 3},
				 "awayTeam": {"abbrev": "NYR", "score": 2}},
				{"id": 11, "gameDate": %q, "gameState": "FUT",
				 "homeTeam": {"abbrev": "BOS"},
				 "awayTeam": {"abbrev": "TOR"}},
				{"id": 9, "gameDate": %q, "gameState": "OFF",
				 "homeTeam": {"abbrev": "MTL", "score": 1},
				 "awayTeam": {"abbrev": "BOS", "score": 5}}
			]}`, today, today, yesterday)
		case strings.HasSuffix(r.URL.Path, yesterday):
			fmt.Fprintf(w, `{"games": [
				{"id": 9, "gameDate": %q, "gameState": "OFF",
				 "homeTeam": {"abbrev": "MTL", "score": 1},
				 "awayTeam": {"abbrev": "BOS", "score": 5}},
				{"id": 8, "gameDate": %q, "gameState": "OFF",
				 "homeTeam": {"abbrev": "BOS", "score": 2},
				 "awayTeam": {"abbrev": "FLA", "score": 4}}
			]}`, yesterday, yesterday)
		default:
			_, _ = w.Write([]byte(`{"games": []}`))
		}
	}))
	defer server.Close()

	sc := NewScheduleClient(server.URL, newTestClient(), time.Minute, discardLogger())
	games, err := sc.TeamRecentGames(context.Background(), "BOS", 3)

	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "10", games[0].ID)
	assert.Equal(t, "9", games[1].ID)
	assert.Equal(t, "8", games[2].ID)
}
