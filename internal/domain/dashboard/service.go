package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStats returns headcounts, today's attendance and the trailing
	// seven-day attendance-rate trend, fetched concurrently.
	GetStats(ctx context.Context) (*StatsResponse, error)
}
