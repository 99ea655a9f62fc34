package dashboard

import (
	"context"
	"time"
)

// StatusCounts holds the per-status record counts for one date.
type StatusCounts struct {
	Present         int64
	Late            int64
	HalfDay         int64
	ShiftIncomplete int64
	Absent          int64
}

// PresentLike sums the statuses that count toward presence.
func (c StatusCounts) PresentLike() int64 {
	return c.Present + c.Late + c.HalfDay + c.ShiftIncomplete
}

// DashboardRepository provides aggregate attendance counts. Each method is
// a single grouped query; rows are never materialized.
type DashboardRepository interface {
	// GetStatusCountsByDate returns status counts for one date.
	GetStatusCountsByDate(ctx context.Context, date time.Time) (StatusCounts, error)

	// GetStatusCountsBetween returns status counts per date over [start, end]
	// inclusive, keyed by YYYY-MM-DD. Dates with no records are absent.
	GetStatusCountsBetween(ctx context.Context, start, end time.Time) (map[string]StatusCounts, error)
}
