package attendance

import (
	"context"
	"time"
)

// PunchRepository stores raw clock events. Punches are append-only.
type PunchRepository interface {
	// Create persists a new punch and returns it with ID and CreatedAt set.
	Create(ctx context.Context, punch PunchEvent) (PunchEvent, error)

	// ListByEmployeeBetween returns an employee's punches with timestamps in
	// [start, end), ordered by timestamp ascending.
	ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]PunchEvent, error)

	// ListBetween returns all punches in [start, end) grouped by employee.
	ListBetween(ctx context.Context, start, end time.Time) (map[string][]PunchEvent, error)

	// Bounds returns the timestamps of the earliest and latest stored
	// punches. Zero times mean no punches exist.
	Bounds(ctx context.Context) (time.Time, time.Time, error)
}

// ShiftPolicyRepository resolves the shift policy in force for an employee.
type ShiftPolicyRepository interface {
	// GetByEmployee returns the employee's policy, or ErrShiftPolicyNotFound.
	GetByEmployee(ctx context.Context, employeeID string) (ShiftPolicy, error)

	// ListByEmployees returns policies keyed by employee ID. Employees
	// without a policy are simply absent from the map.
	ListByEmployees(ctx context.Context, employeeIDs []string) (map[string]ShiftPolicy, error)
}

// AttendanceRepository stores derived attendance records, one row per
// employee per date.
type AttendanceRepository interface {
	// Upsert writes a record keyed on (employee_id, date), replacing any
	// existing row, and returns the stored record.
	Upsert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByEmployeeAndDate returns the record for one employee/day pair,
	// or ErrAttendanceNotFound.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (AttendanceRecord, error)

	// ListByDate returns all records for one date, ordered by employee ID.
	ListByDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)

	// ListByEmployeeBetween returns one employee's records with dates in
	// [start, end] inclusive, ordered by date ascending.
	ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)

	// ListBetween returns all records with dates in [start, end] inclusive,
	// grouped by employee ID.
	ListBetween(ctx context.Context, start, end time.Time) (map[string][]AttendanceRecord, error)
}
