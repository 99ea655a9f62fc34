package attendance

import (
	"context"
)

// AttendanceService defines business logic for punch ingestion,
// classification and recalculation.
type AttendanceService interface {
	// CreatePunch stores a punch and reclassifies the day it lands on.
	CreatePunch(ctx context.Context, req CreatePunchRequest) (CreatePunchResponse, error)

	// GetDay returns the stored attendance record for one employee and day.
	GetDay(ctx context.Context, employeeID, date string) (AttendanceResponse, error)

	// ListEmployeeRange returns one employee's records over an inclusive
	// date range, ordered by date.
	ListEmployeeRange(ctx context.Context, filter RangeFilter) ([]AttendanceResponse, error)

	// Recalculate reclassifies every employee/day pair in the inclusive
	// range. With EmployeeIDs set it narrows to those employees; otherwise
	// it covers all active employees. Idempotent: a second identical run
	// reports zero updated.
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)
}
