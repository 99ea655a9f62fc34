package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

// Create implements attendance.PunchRepository.
func (p *punchRepository) Create(ctx context.Context, punch attendance.PunchEvent) (attendance.PunchEvent, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO punch_events (employee_id, ts, direction, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		punch.EmployeeID,
		punch.Timestamp,
		punch.Direction,
		punch.Source,
	).Scan(&punch.ID, &punch.CreatedAt)

	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return punch, nil
}

// ListByEmployeeBetween implements attendance.PunchRepository.
func (p *punchRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.PunchEvent, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, employee_id, ts, direction, source, created_at
		FROM punch_events
		WHERE employee_id = $1
		  AND ts >= $2
		  AND ts < $3
		ORDER BY ts ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.PunchEvent
	for rows.Next() {
		var punch attendance.PunchEvent
		if err := rows.Scan(
			&punch.ID, &punch.EmployeeID, &punch.Timestamp,
			&punch.Direction, &punch.Source, &punch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, punch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read punches: %w", err)
	}

	return punches, nil
}

// ListBetween implements attendance.PunchRepository.
func (p *punchRepository) ListBetween(ctx context.Context, start, end time.Time) (map[string][]attendance.PunchEvent, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, employee_id, ts, direction, source, created_at
		FROM punch_events
		WHERE ts >= $1
		  AND ts < $2
		ORDER BY employee_id, ts ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]attendance.PunchEvent)
	for rows.Next() {
		var punch attendance.PunchEvent
		if err := rows.Scan(
			&punch.ID, &punch.EmployeeID, &punch.Timestamp,
			&punch.Direction, &punch.Source, &punch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		grouped[punch.EmployeeID] = append(grouped[punch.EmployeeID], punch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read punches: %w", err)
	}

	return grouped, nil
}

// Bounds implements attendance.PunchRepository.
func (p *punchRepository) Bounds(ctx context.Context) (time.Time, time.Time, error) {
	q := GetQuerier(ctx, p.db)

	query := `SELECT min(ts), max(ts) FROM punch_events`

	var first, last *time.Time
	if err := q.QueryRow(ctx, query).Scan(&first, &last); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to read punch bounds: %w", err)
	}
	if first == nil || last == nil {
		return time.Time{}, time.Time{}, nil
	}
	return *first, *last, nil
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}
