// Package main provides the entry point for the puckline service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/puckline/internal/alias"
	"github.com/yourusername/puckline/internal/api"
	"github.com/yourusername/puckline/internal/artifact"
	"github.com/yourusername/puckline/internal/config"
	"github.com/yourusername/puckline/internal/features"
	"github.com/yourusername/puckline/internal/form"
	"github.com/yourusername/puckline/internal/health"
	"github.com/yourusername/puckline/internal/ledger"
	applogger "github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/model"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/provider"
	"github.com/yourusername/puckline/internal/report"
	"github.com/yourusername/puckline/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// fallbackReportDays is the wider horizon the markdown report retries with
// when the configured horizon yields no games.
const fallbackReportDays = 3

var (
	configFile string
	daysFlag   int
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	reconcileCmd.Flags().IntVarP(&daysFlag, "days", "d", 0, "Days ahead to scan for new bets (0 uses the configured default)")
	reportCmd.Flags().IntVarP(&daysFlag, "days", "d", 0, "Days ahead to include in the report (0 uses the configured default)")
}

var rootCmd = &cobra.Command{
	Use:   "puckline",
	Short: "NHL game outcome prediction and value betting service",
	Long:  `Puckline predicts NHL game outcomes from recent team form, compares model probabilities against bookmaker odds, and keeps a CSV ledger of value bets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Secrets.Enabled {
			if err := config.LoadSecretsFromAWS(cfg, cfg.Secrets.Region, cfg.Secrets.SecretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = applogger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, health server and reconcile scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle pending ledger entries and record new value bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the markdown value report artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <home-team> <away-team>",
	Short: "Predict the outcome of a single matchup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.Context(), args[0], args[1])
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, reconcileCmd, reportCmd, predictCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// services holds the wired application components shared by the commands.
type services struct {
	resolver   *alias.Resolver
	schedule   *provider.ScheduleClient
	odds       *provider.OddsClient
	features   *features.Builder
	predictor  model.Predictor
	reports    *report.Builder
	store      *ledger.Store
	reconciler *ledger.Reconciler
	writer     *artifact.Writer
}

func buildServices() *services {
	resolver := alias.New()

	httpClient := provider.NewClient(provider.HTTPClientConfig{
		Timeout:      time.Duration(cfg.Providers.HTTP.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.Providers.HTTP.MaxRetries,
		RetryWaitMin: time.Duration(cfg.Providers.HTTP.RetryWaitMS) * time.Millisecond,
		RateLimit:    cfg.Providers.HTTP.RateLimit,
	}, appLog)

	schedule := provider.NewScheduleClient(cfg.Providers.Schedule.BaseURL, httpClient, cfg.ScheduleCacheTTL(), appLog)
	odds := provider.NewOddsClient(cfg.Providers.Odds.BaseURL, cfg.Providers.Odds.APIKey, httpClient, resolver, cfg.OddsCacheTTL(), appLog)

	featureBuilder := features.NewBuilder(resolver, cfg.Model.Windows)
	predictor := model.NewCachedPredictor(
		model.NewHTTPClient(cfg.Model.URL, cfg.ModelTimeout(), appLog),
		cfg.ModelCacheTTL(),
		appLog,
	)

	reports := report.NewBuilder(odds, schedule, featureBuilder, predictor, appLog)
	store := ledger.NewStore(cfg.Ledger.Path, appLog)
	reconciler := ledger.NewReconciler(store, schedule, reports, applogger.NewAuditLogger(appLog), appLog)
	writer := artifact.NewWriter(reports, cfg.Reports.OutputDir, cfg.Ledger.MinValue, fallbackReportDays, appLog)

	return &services{
		resolver:   resolver,
		schedule:   schedule,
		odds:       odds,
		features:   featureBuilder,
		predictor:  predictor,
		reports:    reports,
		store:      store,
		reconciler: reconciler,
		writer:     writer,
	}
}

func runServe() error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"git_commit":  GitCommit,
		"build_date":  BuildDate,
	}).Info("Puckline starting")

	svc := buildServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var healthServer *health.Server
	if cfg.Metrics.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			Ledger:      svc.store,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(svc.reconciler, cfg.Ledger.DaysAhead, cfg.Ledger.StakePerBet, cfg.Ledger.MinValue, appLog)
		if err := sched.ScheduleReconcile(cfg.Scheduler.ReconcileCron); err != nil {
			return fmt.Errorf("failed to schedule reconcile job: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Reconcile scheduler started")
	}

	server := api.NewServer(
		svc.resolver,
		svc.schedule,
		svc.features,
		svc.predictor,
		svc.reports,
		svc.reconciler,
		svc.store,
		cfg.Ledger,
		appLog,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.API.Port)
	}()

	if healthServer != nil {
		healthServer.SetReady(true)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			appLog.WithError(err).Error("API server stopped")
		}
	}

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}
	if err := server.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error shutting down API server")
	}
	cancel()

	appLog.Info("Puckline shut down")
	return nil
}

func runReconcile(ctx context.Context) error {
	svc := buildServices()

	days := daysFlag
	if days <= 0 {
		days = cfg.Ledger.DaysAhead
	}

	result, err := svc.reconciler.Update(ctx, days, cfg.Ledger.StakePerBet, cfg.Ledger.MinValue)
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"created": result.Created,
		"settled": result.Settled,
		"entries": len(result.Entries),
	}).Info("Reconcile complete")
	fmt.Printf("Recorded %d new bets, settled %d\n", result.Created, result.Settled)
	return nil
}

func runReport(ctx context.Context) error {
	svc := buildServices()

	days := daysFlag
	if days <= 0 {
		days = cfg.Ledger.DaysAhead
	}

	path, err := svc.writer.Write(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Report written to %s\n", path)
	return nil
}

func runPredict(ctx context.Context, home, away string) error {
	svc := buildServices()

	homeAbbr, err := svc.resolver.Canonical(home)
	if err != nil {
		return fmt.Errorf("unknown home team %q: %w", home, err)
	}
	awayAbbr, err := svc.resolver.Canonical(away)
	if err != nil {
		return fmt.Errorf("unknown away team %q: %w", away, err)
	}

	limit := form.MaxWindow(svc.features.Windows())
	homeGames, err := svc.schedule.TeamRecentGames(ctx, homeAbbr, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch games for %s: %w", homeAbbr, err)
	}
	awayGames, err := svc.schedule.TeamRecentGames(ctx, awayAbbr, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch games for %s: %w", awayAbbr, err)
	}

	vec, err := svc.features.Build(homeAbbr, awayAbbr, homeGames, awayGames)
	if err != nil {
		return fmt.Errorf("failed to build features: %w", err)
	}

	probs, err := svc.predictor.Predict(ctx, vec)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Printf("%s vs %s\n", svc.resolver.Display(homeAbbr), svc.resolver.Display(awayAbbr))
	fmt.Printf("  Home Win: %.1f%%\n", probs[models.OutcomeHome]*100)
	fmt.Printf("  OT / SO:  %.1f%%\n", probs[models.OutcomeDraw]*100)
	fmt.Printf("  Away Win: %.1f%%\n", probs[models.OutcomeAway]*100)
	return nil
}
