package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
)

// RecalculationJobs closes out each day's attendance after the fact: late
// punches, forgotten clock-outs and device syncs that arrive overnight all
// get folded in by reclassifying the trailing window.
type RecalculationJobs struct {
	attendanceSvc attendance.AttendanceService
	lookbackDays  int
}

func NewRecalculationJobs(attendanceSvc attendance.AttendanceService, lookbackDays int) *RecalculationJobs {
	if lookbackDays < 1 {
		lookbackDays = 2
	}
	return &RecalculationJobs{
		attendanceSvc: attendanceSvc,
		lookbackDays:  lookbackDays,
	}
}

func (j *RecalculationJobs) RegisterJobs(scheduler *Scheduler, at DailyTime) {
	scheduler.AddDailyJob("nightly_recalculation", at, j.RecalculateRecentDays)
}

// RecalculateRecentDays reclassifies the trailing lookback window ending
// yesterday. Recalculation is idempotent, so overlapping runs are harmless.
func (j *RecalculationJobs) RecalculateRecentDays(ctx context.Context) error {
	end := time.Now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(j.lookbackDays - 1))

	slog.Info("Cron: Starting nightly recalculation",
		"start_date", start.Format("2006-01-02"),
		"end_date", end.Format("2006-01-02"))

	result, err := j.attendanceSvc.Recalculate(ctx, attendance.RecalculateRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("nightly recalculation failed: %w", err)
	}

	slog.Info("Cron: Nightly recalculation completed",
		"total", result.Total,
		"updated", result.Updated,
		"skipped", result.Skipped)
	return nil
}
