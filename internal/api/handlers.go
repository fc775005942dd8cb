package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yourusername/puckline/internal/form"
	"github.com/yourusername/puckline/internal/ledger"
	"github.com/yourusername/puckline/internal/models"
)

// PredictionRequest names the two sides of the matchup to predict.
type PredictionRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// PredictionResponse carries the model output plus recent-form context for
// both teams.
type PredictionResponse struct {
	HomeTeam    string               `json:"home_team"`
	AwayTeam    string               `json:"away_team"`
	HomeLast5   []models.GameSummary `json:"home_last_5"`
	AwayLast5   []models.GameSummary `json:"away_last_5"`
	HomeStats   models.TeamStats     `json:"home_stats"`
	AwayStats   models.TeamStats     `json:"away_stats"`
	ProbHomeWin float64              `json:"prob_home_win"`
	ProbOT      float64              `json:"prob_ot"`
	ProbAwayWin float64              `json:"prob_away_win"`
	Prediction  string               `json:"prediction"`
}

// LedgerUpdateRequest overrides the configured reconcile parameters for one
// run; zero values fall back to the configured defaults.
type LedgerUpdateRequest struct {
	DaysAhead   int     `json:"days_ahead"`
	StakePerBet float64 `json:"stake_per_bet"`
	MinValue    float64 `json:"min_value"`
}

// LedgerUpdateResponse reports what one reconcile run changed.
type LedgerUpdateResponse struct {
	Created int `json:"created"`
	Settled int `json:"settled"`
}

// outcomeLabels are the user-facing prediction labels. The draw class is
// presented as overtime/shootout since NHL games cannot end level.
var outcomeLabels = map[models.Outcome]string{
	models.OutcomeHome: "Home Win",
	models.OutcomeDraw: "OT / SO",
	models.OutcomeAway: "Away Win",
}

// handleTeams handles GET /api/v1/teams.
func (s *Server) handleTeams(c *fiber.Ctx) error {
	return c.JSON(s.resolver.Teams())
}

// handlePredict handles POST /api/v1/predict. Unknown teams are a 404 and
// upstream failures a 502 so callers can tell bad input from a bad day.
func (s *Server) handlePredict(c *fiber.Ctx) error {
	var req PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	homeAbbr, err := s.resolver.Canonical(req.HomeTeam)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "team " + req.HomeTeam + " not found",
		})
	}
	awayAbbr, err := s.resolver.Canonical(req.AwayTeam)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "team " + req.AwayTeam + " not found",
		})
	}

	ctx := c.Context()
	limit := form.MaxWindow(s.features.Windows())

	homeGames, err := s.games.TeamRecentGames(ctx, homeAbbr, limit)
	if err != nil {
		return s.upstreamError(c, err, "failed to fetch recent games")
	}
	awayGames, err := s.games.TeamRecentGames(ctx, awayAbbr, limit)
	if err != nil {
		return s.upstreamError(c, err, "failed to fetch recent games")
	}

	vec, err := s.features.Build(homeAbbr, awayAbbr, homeGames, awayGames)
	if err != nil {
		if errors.Is(err, models.ErrUnknownTeam) || errors.Is(err, models.ErrMissingTeamID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return s.upstreamError(c, err, "failed to build features")
	}

	probs, err := s.predictor.Predict(ctx, vec)
	if err != nil {
		return s.upstreamError(c, err, "prediction failed")
	}

	prediction := outcomeLabels[models.OutcomeHome]
	best := probs[models.OutcomeHome]
	for _, o := range models.Outcomes[1:] {
		if probs[o] > best {
			best = probs[o]
			prediction = outcomeLabels[o]
		}
	}

	homeRecent := form.Dedup(form.CompletedOnly(homeGames))
	awayRecent := form.Dedup(form.CompletedOnly(awayGames))

	return c.JSON(PredictionResponse{
		HomeTeam:    s.resolver.Display(homeAbbr),
		AwayTeam:    s.resolver.Display(awayAbbr),
		HomeLast5:   form.Summaries(homeAbbr, homeGames, 5),
		AwayLast5:   form.Summaries(awayAbbr, awayGames, 5),
		HomeStats:   form.Stats(homeAbbr, lastN(homeRecent, 5)),
		AwayStats:   form.Stats(awayAbbr, lastN(awayRecent, 5)),
		ProbHomeWin: probs[models.OutcomeHome],
		ProbOT:      probs[models.OutcomeDraw],
		ProbAwayWin: probs[models.OutcomeAway],
		Prediction:  prediction,
	})
}

// handleValueReport handles GET /api/v1/value-report?days=N.
func (s *Server) handleValueReport(c *fiber.Ctx) error {
	days := c.QueryInt("days", s.defaults.DaysAhead)
	if days < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must not be negative",
		})
	}

	rows, err := s.reports.Build(c.Context(), days)
	if err != nil {
		return s.upstreamError(c, err, "failed to build value report")
	}
	return c.JSON(rows)
}

// handleLedger handles GET /api/v1/ledger.
func (s *Server) handleLedger(c *fiber.Ctx) error {
	entries, err := s.store.Load()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load ledger")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load ledger",
		})
	}
	if entries == nil {
		entries = []models.BetEntry{}
	}
	return c.JSON(entries)
}

// handleLedgerUpdate handles POST /api/v1/ledger/update.
func (s *Server) handleLedgerUpdate(c *fiber.Ctx) error {
	req := LedgerUpdateRequest{
		DaysAhead:   s.defaults.DaysAhead,
		StakePerBet: s.defaults.StakePerBet,
		MinValue:    s.defaults.MinValue,
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if req.DaysAhead <= 0 {
		req.DaysAhead = s.defaults.DaysAhead
	}
	if req.StakePerBet <= 0 {
		req.StakePerBet = s.defaults.StakePerBet
	}

	result, err := s.reconciler.Update(c.Context(), req.DaysAhead, req.StakePerBet, req.MinValue)
	if err != nil {
		return s.upstreamError(c, err, "ledger update failed")
	}

	return c.JSON(LedgerUpdateResponse{
		Created: result.Created,
		Settled: result.Settled,
	})
}

// handlePortfolio handles GET /api/v1/portfolio.
func (s *Server) handlePortfolio(c *fiber.Ctx) error {
	entries, err := s.store.Load()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load ledger")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load ledger",
		})
	}
	return c.JSON(ledger.Portfolio(entries))
}

func (s *Server) upstreamError(c *fiber.Ctx, err error, msg string) error {
	s.logger.WithError(err).Error(msg)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": msg,
	})
}

func lastN(games []models.Game, n int) []models.Game {
	if len(games) > n {
		return games[:n]
	}
	return games
}
