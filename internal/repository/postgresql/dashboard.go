package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/dashboard"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type dashboardRepository struct {
	db *database.DB
}

// GetStatusCountsByDate implements dashboard.DashboardRepository.
func (d *dashboardRepository) GetStatusCountsByDate(ctx context.Context, date time.Time) (dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT
			count(*) FILTER (WHERE status = 'Present'),
			count(*) FILTER (WHERE status = 'Late'),
			count(*) FILTER (WHERE status = 'HalfDay'),
			count(*) FILTER (WHERE status = 'ShiftIncomplete'),
			count(*) FILTER (WHERE status = 'Absent')
		FROM attendance_records
		WHERE date = $1
	`

	var counts dashboard.StatusCounts
	err := q.QueryRow(ctx, query, date).Scan(
		&counts.Present, &counts.Late, &counts.HalfDay,
		&counts.ShiftIncomplete, &counts.Absent,
	)
	if err != nil {
		return dashboard.StatusCounts{}, fmt.Errorf("failed to get status counts: %w", err)
	}

	return counts, nil
}

// GetStatusCountsBetween implements dashboard.DashboardRepository.
func (d *dashboardRepository) GetStatusCountsBetween(ctx context.Context, start, end time.Time) (map[string]dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT
			date,
			count(*) FILTER (WHERE status = 'Present'),
			count(*) FILTER (WHERE status = 'Late'),
			count(*) FILTER (WHERE status = 'HalfDay'),
			count(*) FILTER (WHERE status = 'ShiftIncomplete'),
			count(*) FILTER (WHERE status = 'Absent')
		FROM attendance_records
		WHERE date BETWEEN $1 AND $2
		GROUP BY date
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	byDate := make(map[string]dashboard.StatusCounts)
	for rows.Next() {
		var date time.Time
		var counts dashboard.StatusCounts
		if err := rows.Scan(
			&date, &counts.Present, &counts.Late, &counts.HalfDay,
			&counts.ShiftIncomplete, &counts.Absent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status counts: %w", err)
		}
		byDate[date.Format("2006-01-02")] = counts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	return byDate, nil
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepository{db: db}
}
