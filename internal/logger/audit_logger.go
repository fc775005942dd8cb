// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for ledger mutations. Every
// entry created or settled leaves one audit line tagged with the
// reconciler run that produced it.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetRecorded logs a new ledger entry.
func (al *AuditLogger) LogBetRecorded(runID, eventID, selection string, odds, modelProb, value, stake float64) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"event_id":   eventID,
		"selection":  selection,
		"odds":       odds,
		"model_prob": modelProb,
		"value":      value,
		"stake":      stake,
	}).Info("Bet recorded")
}

// LogBetSettled logs a pending -> won/lost transition.
func (al *AuditLogger) LogBetSettled(runID, eventID, selection, status, actualOutcome string, payout, profit float64) {
	al.WithFields(logrus.Fields{
		"run_id":         runID,
		"event_id":       eventID,
		"selection":      selection,
		"status":         status,
		"actual_outcome": actualOutcome,
		"payout":         payout,
		"profit":         profit,
	}).Info("Bet settled")
}

// LogReconcilerRun logs the outcome of one reconciler run.
func (al *AuditLogger) LogReconcilerRun(runID string, created, settled, entries int, err error) {
	fields := logrus.Fields{
		"run_id":  runID,
		"created": created,
		"settled": settled,
		"entries": entries,
	}
	if err != nil {
		al.WithFields(fields).WithError(err).Error("Reconciler run failed")
		return
	}
	al.WithFields(fields).Info("Reconciler run completed")
}
