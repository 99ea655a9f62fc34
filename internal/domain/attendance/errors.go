package attendance

import "errors"

// Attendance domain errors
var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrShiftPolicyNotFound = errors.New("no shift policy found for employee")

	// ErrComputeSkipped marks an employee/day pair that recalculation could
	// not classify. The batch keeps going; the pair is reported as skipped.
	ErrComputeSkipped = errors.New("attendance computation skipped")

	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrFutureDate       = errors.New("date must not be in the future")
)
