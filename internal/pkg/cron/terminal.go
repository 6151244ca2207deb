package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
)

// System operator recorded on scheduler-triggered fetches.
const pollOperatorID = "system:terminal-poller"

// TerminalJobs polls the biometric terminals on a schedule and feeds the
// punch logs through the same ingestion path operators use. Ingestion is
// idempotent, so overlapping windows across runs are harmless.
type TerminalJobs struct {
	ingestionSvc attendance.IngestionService
	pollInterval time.Duration
}

func NewTerminalJobs(ingestionSvc attendance.IngestionService, pollInterval time.Duration) *TerminalJobs {
	return &TerminalJobs{
		ingestionSvc: ingestionSvc,
		pollInterval: pollInterval,
	}
}

func (j *TerminalJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("poll_terminal_punch_logs", j.pollInterval, j.PollPunchLogs)
}

// PollPunchLogs fetches yesterday-to-today so late punches around midnight
// are picked up on the next run.
func (j *TerminalJobs) PollPunchLogs(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	result, err := j.ingestionSvc.FetchFromTerminal(ctx, attendance.FetchRequest{
		StartDate: yesterday.Format("2006-01-02"),
		EndDate:   today.Format("2006-01-02"),
	}, pollOperatorID)
	if err != nil {
		return err
	}

	slog.Info("Cron: terminal punch logs ingested",
		"processed", result.TotalRecordsProcessed,
		"created", result.RecordsCreated,
		"skipped", result.RecordsSkipped,
		"errors", result.RecordsWithErrors)
	return nil
}
