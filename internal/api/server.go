// Package api exposes the prediction, value report and ledger endpoints
// over HTTP.
package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/alias"
	"github.com/yourusername/puckline/internal/config"
	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/ledger"
	"github.com/yourusername/puckline/internal/model"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/report"
)

// Reconciler runs one settle-and-record cycle against the ledger.
type Reconciler interface {
	Update(ctx context.Context, daysAhead int, stakePerBet, minValue float64) (ledger.Result, error)
}

// LedgerReader loads the persisted ledger.
type LedgerReader interface {
	Load() ([]models.BetEntry, error)
}

// ReportSource provides value report rows for a horizon.
type ReportSource interface {
	Build(ctx context.Context, daysAhead int) ([]models.ValueReportRow, error)
}

// Server wires the application services into a fiber app.
type Server struct {
	app        *fiber.App
	resolver   *alias.Resolver
	games      report.GameSource
	features   *features.Builder
	predictor  model.Predictor
	reports    ReportSource
	reconciler Reconciler
	store      LedgerReader
	defaults   config.LedgerConfig
	logger     *logrus.Logger
}

// NewServer creates the API server and registers its routes.
func NewServer(
	resolver *alias.Resolver,
	games report.GameSource,
	featureBuilder *features.Builder,
	predictor model.Predictor,
	reports ReportSource,
	reconciler Reconciler,
	store LedgerReader,
	defaults config.LedgerConfig,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "puckline",
			DisableStartupMessage: true,
		}),
		resolver:   resolver,
		games:      games,
		features:   featureBuilder,
		predictor:  predictor,
		reports:    reports,
		reconciler: reconciler,
		store:      store,
		defaults:   defaults,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given port and blocks.
func (s *Server) Listen(port int) error {
	s.logger.WithField("port", port).Info("API server starting")
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/teams", s.handleTeams)
	v1.Post("/predict", s.handlePredict)
	v1.Get("/value-report", s.handleValueReport)

	ledgerGroup := v1.Group("/ledger")
	ledgerGroup.Get("/", s.handleLedger)
	ledgerGroup.Post("/update", s.handleLedgerUpdate)

	v1.Get("/portfolio", s.handlePortfolio)
}
