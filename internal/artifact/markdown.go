// Package artifact renders the daily value-bet report to a markdown file.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/odds"
)

// ReportSource provides value report rows for a horizon.
type ReportSource interface {
	Build(ctx context.Context, daysAhead int) ([]models.ValueReportRow, error)
}

// Writer renders TODAY.md. When the primary horizon yields no qualifying
// bets it widens to the fallback horizon once, and says so in the output.
type Writer struct {
	reports      ReportSource
	outputDir    string
	minValue     float64
	fallbackDays int
	logger       *logrus.Logger
	now          func() time.Time
}

// NewWriter creates a markdown report writer.
func NewWriter(reports ReportSource, outputDir string, minValue float64, fallbackDays int, logger *logrus.Logger) *Writer {
	return &Writer{
		reports:      reports,
		outputDir:    outputDir,
		minValue:     minValue,
		fallbackDays: fallbackDays,
		logger:       logger,
		now:          time.Now,
	}
}

type tableRow struct {
	date       string
	matchup    string
	selection  string
	modelProb  float64
	marketOdds float64
	implied    string
	ev         float64
}

// Write builds the value report and renders it to <outputDir>/TODAY.md
// atomically. Returns the output path.
func (w *Writer) Write(ctx context.Context, daysAhead int) (string, error) {
	rows, err := w.reports.Build(ctx, daysAhead)
	if err != nil {
		return "", err
	}

	horizon := daysAhead
	fallbackUsed := false
	table := w.buildTable(rows)
	if len(table) == 0 && w.fallbackDays > daysAhead {
		fallback, err := w.reports.Build(ctx, w.fallbackDays)
		if err != nil {
			return "", err
		}
		fallbackTable := w.buildTable(fallback)
		if len(fallbackTable) > 0 {
			rows = fallback
			table = fallbackTable
			horizon = w.fallbackDays
			fallbackUsed = true
		}
	}

	content := w.render(rows, table, horizon, fallbackUsed)

	outPath := filepath.Join(w.outputDir, "TODAY.md")
	if err := atomicWriteText(outPath, content); err != nil {
		return "", err
	}

	w.logger.WithFields(logrus.Fields{
		"path":     outPath,
		"rows":     len(table),
		"fallback": fallbackUsed,
	}).Info("Markdown report written")
	return outPath, nil
}

// buildTable keeps rows with a priced best-value selection over the
// threshold and sorts by expected value, best first.
func (w *Writer) buildTable(rows []models.ValueReportRow) []tableRow {
	out := make([]tableRow, 0, len(rows))
	for _, row := range rows {
		if row.BestValueDelta == nil || *row.BestValueDelta < w.minValue {
			continue
		}
		if row.BestValue == nil {
			continue
		}
		selection := *row.BestValue

		price := row.Odds(selection)
		if price == nil {
			continue
		}
		ev := odds.ExpectedValue(row.ModelProb(selection), price)
		if ev == nil {
			continue
		}

		implied := "-"
		if p := row.Implied(selection); p != nil {
			implied = fmt.Sprintf("%.3f", *p)
		}

		out = append(out, tableRow{
			date:       row.Date,
			matchup:    matchupLabel(row),
			selection:  selectionLabel(selection, row),
			modelProb:  row.ModelProb(selection),
			marketOdds: *price,
			implied:    implied,
			ev:         *ev,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ev > out[j].ev
	})
	return out
}

func (w *Writer) render(rows []models.ValueReportRow, table []tableRow, daysAhead int, fallbackUsed bool) string {
	var b strings.Builder

	dateRange := reportDateRange(rows)
	fmt.Fprintf(&b, "# Value Bets for %s\n\n", dateRange)
	fmt.Fprintf(&b, "Generated at %s UTC\n", w.now().UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Data window: %s (days_ahead=%d)\n", dateRange, daysAhead)
	fmt.Fprintf(&b, "Min EV threshold: %.2f\n", w.minValue)
	fmt.Fprintf(&b, "Games scanned: %d | Value bets: %d\n\n", len(rows), len(table))

	if fallbackUsed {
		fmt.Fprintf(&b, "Note: primary window empty; used fallback horizon (%d days ahead).\n\n", daysAhead)
	}

	if len(table) == 0 {
		b.WriteString("_No value bets over the threshold in this window._\n")
		return b.String()
	}

	b.WriteString("| Date | Matchup | Selection | Model Probability | Market Odds | Implied Prob | Expected Value |\n")
	b.WriteString("|------|---------|-----------|-------------------|-------------|--------------|----------------|\n")
	for _, row := range table {
		fmt.Fprintf(&b, "| %s | %s | %s | %.3f | %.2f | %s | %.3f |\n",
			row.date, row.matchup, row.selection, row.modelProb, row.marketOdds, row.implied, row.ev)
	}
	return b.String()
}

func matchupLabel(row models.ValueReportRow) string {
	home := firstNonEmpty(row.HomeAbbr, row.Home)
	away := firstNonEmpty(row.AwayAbbr, row.Away)
	if home != "" && away != "" {
		return home + " vs " + away
	}
	if row.EventID != "" {
		return row.EventID
	}
	return "Unknown matchup"
}

func selectionLabel(selection models.Outcome, row models.ValueReportRow) string {
	switch selection {
	case models.OutcomeHome:
		return firstNonEmpty(row.HomeAbbr, row.Home, "Home")
	case models.OutcomeAway:
		return firstNonEmpty(row.AwayAbbr, row.Away, "Away")
	case models.OutcomeDraw:
		return "Draw"
	}
	return string(selection)
}

func reportDateRange(rows []models.ValueReportRow) string {
	dateSet := make(map[string]struct{})
	for _, row := range rows {
		if row.Date != "" {
			dateSet[row.Date] = struct{}{}
		}
	}
	if len(dateSet) == 0 {
		return "Unknown date"
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) == 1 {
		return dates[0]
	}
	return dates[0] + " to " + dates[len(dates)-1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func atomicWriteText(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".today-*.md")
	if err != nil {
		return fmt.Errorf("report temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
