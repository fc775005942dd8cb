package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
)

const (
	scheduleProviderName = "schedule"

	// maxLookbackDays bounds the scoreboard walk when collecting a team's
	// recent games.
	maxLookbackDays = 60
)

// scoreboardResponse mirrors the schedule provider's scoreboard payload.
// Older deployments return a flat games list instead of gamesByDate.
type scoreboardResponse struct {
	GamesByDate []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"gamesByDate"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	ID        json.Number  `json:"id"`
	GameDate  string       `json:"gameDate"`
	GameState string       `json:"gameState"`
	HomeTeam  scheduleTeam `json:"homeTeam"`
	AwayTeam  scheduleTeam `json:"awayTeam"`
}

type scheduleTeam struct {
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score"`
}

// ScheduleClient fetches schedules, recent games and final scores from the
// schedule provider. Responses are cached per process with a short TTL;
// staleness beyond the TTL falls through to a live refetch.
type ScheduleClient struct {
	baseURL string
	client  *Client
	cache   *gocache.Cache
	logger  *logrus.Logger
}

// NewScheduleClient creates a schedule provider client.
func NewScheduleClient(baseURL string, client *Client, cacheTTL time.Duration, logger *logrus.Logger) *ScheduleClient {
	return &ScheduleClient{
		baseURL: baseURL,
		client:  client,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		logger:  logger,
	}
}

// Scoreboard returns all games for the given date (YYYY-MM-DD), whatever
// their state.
func (s *ScheduleClient) Scoreboard(ctx context.Context, date string) ([]models.Game, error) {
	cacheKey := "scoreboard:" + date
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Game), nil
	}

	var resp scoreboardResponse
	url := fmt.Sprintf("%s/scoreboard/%s", s.baseURL, date)
	if err := s.client.GetJSON(ctx, scheduleProviderName, url, &resp); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(scheduleProviderName, "error").Inc()
		return nil, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues(scheduleProviderName, "ok").Inc()

	games := flattenScoreboard(resp)
	s.cache.Set(cacheKey, games, gocache.DefaultExpiration)
	return games, nil
}

// TeamRecentGames collects the team's most recent completed games by
// walking scoreboard days backwards until limit games are found or the
// lookback bound is hit. The result is newest-first and cached per team.
func (s *ScheduleClient) TeamRecentGames(ctx context.Context, teamAbbr string, limit int) ([]models.Game, error) {
	cacheKey := fmt.Sprintf("recent:%s:%d", teamAbbr, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Game), nil
	}

	collected := make([]models.Game, 0, limit)
	seen := make(map[string]struct{})

	for daysBack := 0; len(collected) < limit && daysBack < maxLookbackDays; daysBack++ {
		date := time.Now().UTC().AddDate(0, 0, -daysBack).Format("2006-01-02")
		games, err := s.Scoreboard(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("recent games for %s: %w", teamAbbr, err)
		}

		for _, g := range games {
			if g.Home != teamAbbr && g.Away != teamAbbr {
				continue
			}
			if !g.State.Finished() {
				continue
			}
			if _, ok := seen[g.Key()]; ok {
				continue
			}
			seen[g.Key()] = struct{}{}
			collected = append(collected, g)
			if len(collected) >= limit {
				break
			}
		}
	}

	s.cache.Set(cacheKey, collected, gocache.DefaultExpiration)
	return collected, nil
}

// Result looks up the final score for the exact (date, home, away) triple.
// A nil result with models.ErrNotFound means the matchup was not on that
// day's scoreboard; Finished=false means the game exists but has no final
// score yet.
func (s *ScheduleClient) Result(ctx context.Context, date, homeAbbr, awayAbbr string) (*models.GameResult, error) {
	games, err := s.Scoreboard(ctx, date)
	if err != nil {
		return nil, err
	}

	for _, g := range games {
		if g.Home != homeAbbr || g.Away != awayAbbr {
			continue
		}
		if !g.State.Finished() {
			return &models.GameResult{Finished: false}, nil
		}
		return &models.GameResult{
			Finished:  true,
			Outcome:   models.OutcomeFromScore(g.HomeGoals, g.AwayGoals),
			HomeGoals: g.HomeGoals,
			AwayGoals: g.AwayGoals,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s %s vs %s", models.ErrNotFound, date, homeAbbr, awayAbbr)
}

// flattenScoreboard converts the provider payload into games, preferring
// gamesByDate when populated.
func flattenScoreboard(resp scoreboardResponse) []models.Game {
	raw := resp.Games
	if len(resp.GamesByDate) > 0 {
		raw = nil
		for _, day := range resp.GamesByDate {
			raw = append(raw, day.Games...)
		}
	}

	games := make([]models.Game, 0, len(raw))
	for _, g := range raw {
		game := models.Game{
			ID:    g.ID.String(),
			Date:  g.GameDate,
			Home:  g.HomeTeam.Abbrev,
			Away:  g.AwayTeam.Abbrev,
			State: models.GameState(g.GameState),
		}
		if g.HomeTeam.Score != nil {
			game.HomeGoals = *g.HomeTeam.Score
		}
		if g.AwayTeam.Score != nil {
			game.AwayGoals = *g.AwayTeam.Score
		}
		// A "finished" game without scores cannot be settled.
		if game.State.Finished() && (g.HomeTeam.Score == nil || g.AwayTeam.Score == nil) {
			game.State = models.GameStateLive
		}
		games = append(games, game)
	}
	return games
}
