package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Upsert writes a record keyed on (employee_id, period_year,
	// period_month) and returns the stored record. Paid records are never
	// overwritten; regenerating over one returns ErrPayrollRecordAlreadyPaid.
	Upsert(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	// ListByPeriod returns all records for one period joined with employee
	// name and code, ordered by employee code.
	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecord, error)

	// MarkPaid transitions draft records to paid and returns how many rows
	// changed. Already-paid records are left alone.
	MarkPaid(ctx context.Context, ids []string) (int64, error)

	// GetAttendanceSummary aggregates the attendance feed per employee for
	// one period: present-like days, late minutes, total working hours.
	GetAttendanceSummary(ctx context.Context, month, year int, employeeIDs []string) ([]AttendanceSummary, error)
}
