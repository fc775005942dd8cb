package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/report"
)

// ScheduleSource provides final results for settlement.
type ScheduleSource interface {
	Result(ctx context.Context, date, homeAbbr, awayAbbr string) (*models.GameResult, error)
}

// ReportSource provides fresh value report rows for the record phase.
type ReportSource interface {
	Build(ctx context.Context, daysAhead int) ([]models.ValueReportRow, error)
}

// Result summarizes one reconciler run.
type Result struct {
	Created int               `json:"created"`
	Settled int               `json:"settled"`
	Entries []models.BetEntry `json:"entries"`
}

// Reconciler settles finished bets and records new ones against the CSV
// ledger. Update is idempotent: running it twice in a row settles and
// creates nothing the second time. It assumes a single concurrent caller.
type Reconciler struct {
	store    *Store
	schedule ScheduleSource
	reports  ReportSource
	audit    *logger.AuditLogger
	logger   *logrus.Logger
	now      func() time.Time
}

// NewReconciler creates a reconciler over the given store and sources.
func NewReconciler(store *Store, schedule ScheduleSource, reports ReportSource, audit *logger.AuditLogger, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		schedule: schedule,
		reports:  reports,
		audit:    audit,
		logger:   log,
		now:      time.Now,
	}
}

// Update runs one settle-then-record cycle and persists the ledger once at
// the end. Settlement always runs before recording so a bet created today
// can never be settled by stale data from the same run.
func (r *Reconciler) Update(ctx context.Context, daysAhead int, stakePerBet, minValue float64) (Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	entries, err := r.store.Load()
	if err != nil {
		metrics.ReconcilerRunsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	settled := r.settle(ctx, runID, entries)

	created, entries, err := r.record(ctx, runID, entries, daysAhead, stakePerBet, minValue)
	if err != nil {
		metrics.ReconcilerRunsTotal.WithLabelValues("error").Inc()
		r.audit.LogReconcilerRun(runID, created, settled, len(entries), err)
		return Result{}, err
	}

	if err := r.store.Save(entries); err != nil {
		metrics.ReconcilerRunsTotal.WithLabelValues("error").Inc()
		r.audit.LogReconcilerRun(runID, created, settled, len(entries), err)
		return Result{}, err
	}

	metrics.ReconcilerRunsTotal.WithLabelValues("success").Inc()
	metrics.ReconcilerRunDuration.Observe(time.Since(start).Seconds())
	metrics.LedgerEntries.Set(float64(len(entries)))
	metrics.LedgerOpenStake.Set(openStake(entries))
	r.audit.LogReconcilerRun(runID, created, settled, len(entries), nil)

	return Result{Created: created, Settled: settled, Entries: entries}, nil
}

// settle transitions pending entries whose game has finished. Unfinished
// games, future dates and lookup failures leave the entry untouched for the
// next run.
func (r *Reconciler) settle(ctx context.Context, runID string, entries []models.BetEntry) int {
	today := r.now().UTC().Truncate(24 * time.Hour)
	settled := 0

	for i := range entries {
		entry := &entries[i]
		if !entry.IsPending() {
			continue
		}

		gameDate, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			continue
		}
		if gameDate.After(today) {
			continue
		}

		res, err := r.schedule.Result(ctx, entry.Date, entry.HomeAbbr, entry.AwayAbbr)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				r.logger.WithFields(logrus.Fields{
					"event_id": entry.EventID,
					"date":     entry.Date,
				}).WithError(err).Warn("Result lookup failed, leaving bet pending")
			}
			continue
		}
		if !res.Finished {
			continue
		}

		r.settleEntry(entry, res.Outcome)
		settled++

		metrics.BetsSettledTotal.WithLabelValues(string(entry.Status)).Inc()
		r.audit.LogBetSettled(runID, entry.EventID, string(entry.Selection),
			string(entry.Status), entry.ActualOutcome, entry.Payout, entry.Profit)
	}
	return settled
}

// settleEntry applies the won/lost transition exactly once. Payout math
// goes through decimal so stake*odds never picks up float residue.
func (r *Reconciler) settleEntry(entry *models.BetEntry, outcome models.Outcome) {
	entry.ActualOutcome = string(outcome)

	stake := decimal.NewFromFloat(entry.Stake)
	if outcome == entry.Selection {
		payout := stake.Mul(decimal.NewFromFloat(entry.Odds)).Round(2)
		entry.Payout, _ = payout.Float64()
		entry.Profit, _ = payout.Sub(stake).Round(2).Float64()
		entry.Status = models.BetStatusWon
	} else {
		entry.Payout = 0.0
		entry.Profit, _ = stake.Neg().Round(2).Float64()
		entry.Status = models.BetStatusLost
	}
	entry.UpdatedAt = r.now().UTC().Format(time.RFC3339)
}

// record appends the best qualifying bet per calendar date from a fresh
// value report, skipping (event_id, selection) pairs already in the ledger
// under either their raw or normalized event id.
func (r *Reconciler) record(ctx context.Context, runID string, entries []models.BetEntry, daysAhead int, stakePerBet, minValue float64) (int, []models.BetEntry, error) {
	rows, err := r.reports.Build(ctx, daysAhead)
	if err != nil {
		return 0, entries, err
	}

	existing := existingKeys(entries)
	created := 0

	for _, row := range bestPerDay(rows, minValue) {
		entry, ok := r.buildEntry(row, stakePerBet)
		if !ok {
			continue
		}

		key := entry.EventID + "|" + string(entry.Selection)
		if _, dup := existing[key]; dup {
			continue
		}

		entries = append(entries, entry)
		existing[key] = struct{}{}
		created++

		metrics.BetsCreatedTotal.Inc()
		r.audit.LogBetRecorded(runID, entry.EventID, string(entry.Selection),
			entry.Odds, entry.ModelProb, entry.Value, entry.Stake)
	}
	return created, entries, nil
}

// buildEntry turns one report row into a pending ledger entry. Rows without
// a best-value selection or without a price on that selection produce
// nothing.
func (r *Reconciler) buildEntry(row models.ValueReportRow, stake float64) (models.BetEntry, bool) {
	if row.BestValue == nil {
		return models.BetEntry{}, false
	}
	selection := *row.BestValue

	oddsPtr := row.Odds(selection)
	if oddsPtr == nil {
		return models.BetEntry{}, false
	}

	date := row.Date
	if date == "" {
		date = report.DateOf(row.StartTime)
	}

	now := r.now().UTC().Format(time.RFC3339)
	entry := models.BetEntry{
		Date:      date,
		EventID:   report.NormalizeEventID(row.EventID, row.Date, row.StartTime, row.HomeAbbr, row.AwayAbbr),
		StartTime: row.StartTime,
		HomeAbbr:  row.HomeAbbr,
		AwayAbbr:  row.AwayAbbr,
		Selection: selection,
		Odds:      *oddsPtr,
		ModelProb: row.ModelProb(selection),
		Stake:     stake,
		Status:    models.BetStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if implied := row.Implied(selection); implied != nil {
		entry.ImpliedProb = *implied
	}
	if value := row.Value(selection); value != nil {
		entry.Value = *value
	}
	return entry, true
}

// bestPerDay keeps the single highest-delta row per calendar date among rows
// meeting minValue. The first row seen wins ties.
func bestPerDay(rows []models.ValueReportRow, minValue float64) []models.ValueReportRow {
	best := make(map[string]models.ValueReportRow)
	order := make([]string, 0)

	for _, row := range rows {
		if row.BestValueDelta == nil || *row.BestValueDelta < minValue {
			continue
		}
		dateKey := row.Date
		if dateKey == "" {
			dateKey = report.DateOf(row.StartTime)
		}
		if dateKey == "" {
			continue
		}

		existing, seen := best[dateKey]
		if !seen {
			best[dateKey] = row
			order = append(order, dateKey)
			continue
		}
		if *row.BestValueDelta > *existing.BestValueDelta {
			best[dateKey] = row
		}
	}

	picked := make([]models.ValueReportRow, 0, len(order))
	for _, dateKey := range order {
		picked = append(picked, best[dateKey])
	}
	return picked
}

// existingKeys builds the dedup set from both raw and normalized event ids,
// so rows written before event-id normalization existed still dedup.
func existingKeys(entries []models.BetEntry) map[string]struct{} {
	keys := make(map[string]struct{}, 2*len(entries))
	for _, entry := range entries {
		keys[entry.EventID+"|"+string(entry.Selection)] = struct{}{}
		norm := report.NormalizeEventID(entry.EventID, entry.Date, entry.StartTime, entry.HomeAbbr, entry.AwayAbbr)
		keys[norm+"|"+string(entry.Selection)] = struct{}{}
	}
	return keys
}

func openStake(entries []models.BetEntry) float64 {
	total := decimal.Zero
	for _, entry := range entries {
		if entry.IsPending() {
			total = total.Add(decimal.NewFromFloat(entry.Stake))
		}
	}
	v, _ := total.Float64()
	return v
}
