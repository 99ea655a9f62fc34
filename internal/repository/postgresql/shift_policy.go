package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type shiftPolicyRepository struct {
	db *database.DB
}

// Shift clock times are stored as minutes from local midnight.
func scanShiftPolicy(row pgx.Row) (attendance.ShiftPolicy, error) {
	var policy attendance.ShiftPolicy
	var startMinutes, endMinutes int

	err := row.Scan(
		&policy.EmployeeID, &policy.Timezone, &startMinutes, &endMinutes,
		&policy.GraceMinutes, &policy.BreakMinutes, &policy.HalfDayThreshold,
	)
	if err != nil {
		return attendance.ShiftPolicy{}, err
	}

	policy.ExpectedStart = time.Duration(startMinutes) * time.Minute
	policy.ExpectedEnd = time.Duration(endMinutes) * time.Minute
	return policy, nil
}

const shiftPolicyQuery = `
	SELECT employee_id, timezone, start_minutes, end_minutes,
		   grace_minutes, break_minutes, half_day_threshold
	FROM shift_policies`

// GetByEmployee implements attendance.ShiftPolicyRepository.
func (s *shiftPolicyRepository) GetByEmployee(ctx context.Context, employeeID string) (attendance.ShiftPolicy, error) {
	q := GetQuerier(ctx, s.db)

	policy, err := scanShiftPolicy(q.QueryRow(ctx, shiftPolicyQuery+` WHERE employee_id = $1`, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ShiftPolicy{}, attendance.ErrShiftPolicyNotFound
		}
		return attendance.ShiftPolicy{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	return policy, nil
}

// ListByEmployees implements attendance.ShiftPolicyRepository.
func (s *shiftPolicyRepository) ListByEmployees(ctx context.Context, employeeIDs []string) (map[string]attendance.ShiftPolicy, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, shiftPolicyQuery+` WHERE employee_id = ANY($1)`, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	policies := make(map[string]attendance.ShiftPolicy)
	for rows.Next() {
		policy, err := scanShiftPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift policy: %w", err)
		}
		policies[policy.EmployeeID] = policy
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shift policies: %w", err)
	}

	return policies, nil
}

func NewShiftPolicyRepository(db *database.DB) attendance.ShiftPolicyRepository {
	return &shiftPolicyRepository{db: db}
}
