// Package report joins upcoming matchups, market odds and model output into
// value report rows. A single bad game never fails the whole report; it is
// logged and skipped.
package report

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/form"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/model"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/odds"
)

// OddsSource provides upcoming matchups with market odds.
type OddsSource interface {
	UpcomingMatchups(ctx context.Context, daysAhead int) ([]models.Matchup, error)
}

// GameSource provides a team's recent completed games.
type GameSource interface {
	TeamRecentGames(ctx context.Context, teamAbbr string, limit int) ([]models.Game, error)
}

// Builder assembles value report rows.
type Builder struct {
	odds      OddsSource
	games     GameSource
	features  *features.Builder
	predictor model.Predictor
	logger    *logrus.Logger
}

// NewBuilder creates a report builder.
func NewBuilder(oddsSrc OddsSource, gameSrc GameSource, featureBuilder *features.Builder, predictor model.Predictor, logger *logrus.Logger) *Builder {
	return &Builder{
		odds:      oddsSrc,
		games:     gameSrc,
		features:  featureBuilder,
		predictor: predictor,
		logger:    logger,
	}
}

// Build produces one row per predictable matchup starting within daysAhead
// days. Matchups with unresolvable teams, missing form data or a failed
// prediction are skipped individually.
func (b *Builder) Build(ctx context.Context, daysAhead int) ([]models.ValueReportRow, error) {
	start := time.Now()
	defer func() {
		metrics.ReportBuildDuration.Observe(time.Since(start).Seconds())
	}()

	matchups, err := b.odds.UpcomingMatchups(ctx, daysAhead)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ValueReportRow, 0, len(matchups))
	for _, m := range matchups {
		row, err := b.buildRow(ctx, m)
		if err != nil {
			metrics.ReportGamesSkippedTotal.Inc()
			b.logger.WithFields(logrus.Fields{
				"event_id": m.EventID,
				"home":     m.Home,
				"away":     m.Away,
			}).WithError(err).Warn("Skipping matchup in value report")
			continue
		}
		rows = append(rows, row)
		metrics.ReportRowsTotal.Inc()
	}

	b.logger.WithFields(logrus.Fields{
		"matchups": len(matchups),
		"rows":     len(rows),
		"duration": time.Since(start),
	}).Info("Value report built")

	return rows, nil
}

func (b *Builder) buildRow(ctx context.Context, m models.Matchup) (models.ValueReportRow, error) {
	if m.HomeAbbr == "" || m.AwayAbbr == "" {
		return models.ValueReportRow{}, models.ErrUnknownTeam
	}

	limit := form.MaxWindow(b.features.Windows())
	homeGames, err := b.games.TeamRecentGames(ctx, m.HomeAbbr, limit)
	if err != nil {
		return models.ValueReportRow{}, err
	}
	awayGames, err := b.games.TeamRecentGames(ctx, m.AwayAbbr, limit)
	if err != nil {
		return models.ValueReportRow{}, err
	}

	vec, err := b.features.Build(m.HomeAbbr, m.AwayAbbr, homeGames, awayGames)
	if err != nil {
		return models.ValueReportRow{}, err
	}

	probs, err := b.predictor.Predict(ctx, vec)
	if err != nil {
		return models.ValueReportRow{}, err
	}
	pHome, pDraw, pAway := normalizeProbs(probs)

	row := models.ValueReportRow{
		EventID:   NormalizeEventID(m.EventID, "", m.StartTime, m.HomeAbbr, m.AwayAbbr),
		Date:      DateOf(m.StartTime),
		StartTime: m.StartTime,
		Home:      m.Home,
		Away:      m.Away,
		HomeAbbr:  m.HomeAbbr,
		AwayAbbr:  m.AwayAbbr,

		OddsHome: m.OddsHome,
		OddsDraw: m.OddsDraw,
		OddsAway: m.OddsAway,

		ModelHomeProb: pHome,
		ModelDrawProb: pDraw,
		ModelAwayProb: pAway,
	}

	implied := odds.Normalize(odds.Implied(m.OddsHome), odds.Implied(m.OddsDraw), odds.Implied(m.OddsAway))
	if m.OddsHome != nil {
		row.ImpliedHomeProb = &implied[0]
	}
	if m.OddsDraw != nil {
		row.ImpliedDrawProb = &implied[1]
	}
	if m.OddsAway != nil {
		row.ImpliedAwayProb = &implied[2]
	}

	row.ValueHome = odds.Value(pHome, row.ImpliedHomeProb)
	row.ValueDraw = odds.Value(pDraw, row.ImpliedDrawProb)
	row.ValueAway = odds.Value(pAway, row.ImpliedAwayProb)

	row.BestValue, row.BestValueDelta = bestValue(row)
	return row, nil
}

// normalizeProbs rescales the model output to sum to 1 across the three
// outcomes.
func normalizeProbs(probs model.Probabilities) (float64, float64, float64) {
	pHome := probs[models.OutcomeHome]
	pDraw := probs[models.OutcomeDraw]
	pAway := probs[models.OutcomeAway]
	total := pHome + pDraw + pAway
	if total <= 0 {
		return 0, 0, 0
	}
	return pHome / total, pDraw / total, pAway / total
}

// bestValue picks the outcome with the largest value delta across priced
// legs. The first outcome in fixed home, draw, away order wins ties. All
// legs missing yields nil.
func bestValue(row models.ValueReportRow) (*models.Outcome, *float64) {
	var best *models.Outcome
	var bestDelta *float64
	for _, o := range models.Outcomes {
		v := row.Value(o)
		if v == nil {
			continue
		}
		if bestDelta == nil || *v > *bestDelta {
			outcome := o
			delta := *v
			best = &outcome
			bestDelta = &delta
		}
	}
	return best, bestDelta
}
