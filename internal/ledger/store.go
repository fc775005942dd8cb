// Package ledger persists bets to a CSV file and reconciles them against
// game results. The CSV is the only durable state in the service; the file
// format, including column order, is a compatibility contract with earlier
// deployments and external spreadsheets.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/puckline/internal/models"
)

// columns is the ledger CSV header, in order. Never reorder.
var columns = []string{
	"date", "event_id", "start_time", "home_abbr", "away_abbr",
	"selection", "odds", "model_prob", "implied_prob", "value",
	"stake", "status", "payout", "profit", "actual_outcome",
	"created_at", "updated_at",
}

// Store reads and writes the ledger CSV. Writes replace the whole file
// atomically; there is no append path.
type Store struct {
	path   string
	logger *logrus.Logger
}

// NewStore creates a ledger store for the given CSV path.
func NewStore(path string, logger *logrus.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Check reports whether the backing file is accessible. A missing file is
// fine, it just means an empty ledger.
func (s *Store) Check() error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads all ledger entries. A missing file is an empty ledger, not an
// error.
func (s *Store) Load() ([]models.BetEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	entries := make([]models.BetEntry, 0, len(records)-1)
	for i, rec := range records[1:] {
		entry, err := entryFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Save rewrites the whole ledger atomically via a temp file and rename.
func (s *Store) Save(entries []models.BetEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("ledger temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write(recordFromEntry(entry)); err != nil {
			tmp.Close()
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":    s.path,
		"entries": len(entries),
	}).Debug("Ledger persisted")
	return nil
}

func entryFromRecord(rec []string) (models.BetEntry, error) {
	if len(rec) != len(columns) {
		return models.BetEntry{}, fmt.Errorf("expected %d columns, got %d", len(columns), len(rec))
	}

	entry := models.BetEntry{
		Date:          rec[0],
		EventID:       rec[1],
		StartTime:     rec[2],
		HomeAbbr:      rec[3],
		AwayAbbr:      rec[4],
		Selection:     models.Outcome(rec[5]),
		Status:        models.BetStatus(rec[11]),
		ActualOutcome: rec[14],
		CreatedAt:     rec[15],
		UpdatedAt:     rec[16],
	}

	var err error
	numeric := []struct {
		field *float64
		raw   string
		name  string
	}{
		{&entry.Odds, rec[6], "odds"},
		{&entry.ModelProb, rec[7], "model_prob"},
		{&entry.ImpliedProb, rec[8], "implied_prob"},
		{&entry.Value, rec[9], "value"},
		{&entry.Stake, rec[10], "stake"},
		{&entry.Payout, rec[12], "payout"},
		{&entry.Profit, rec[13], "profit"},
	}
	for _, n := range numeric {
		if *n.field, err = parseFloat(n.raw); err != nil {
			return models.BetEntry{}, fmt.Errorf("%s: %w", n.name, err)
		}
	}
	return entry, nil
}

func recordFromEntry(entry models.BetEntry) []string {
	return []string{
		entry.Date,
		entry.EventID,
		entry.StartTime,
		entry.HomeAbbr,
		entry.AwayAbbr,
		string(entry.Selection),
		formatFloat(entry.Odds),
		formatFloat(entry.ModelProb),
		formatFloat(entry.ImpliedProb),
		formatFloat(entry.Value),
		formatFloat(entry.Stake),
		string(entry.Status),
		formatFloat(entry.Payout),
		formatFloat(entry.Profit),
		entry.ActualOutcome,
		entry.CreatedAt,
		entry.UpdatedAt,
	}
}

// parseFloat treats an empty cell as 0, matching rows written by hand or by
// older versions.
func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
