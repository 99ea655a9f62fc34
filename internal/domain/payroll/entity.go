package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// PayrollRecord is one employee's pay for one period, prorated from the
// attendance feed: gross pay is the daily rate times present-like days.
type PayrollRecord struct {
	ID                string
	EmployeeID        string
	PeriodMonth       int
	PeriodYear        int
	WorkingDays       int
	PresentDays       int
	LateMinutes       int
	TotalWorkingHours float64
	BaseSalary        decimal.Decimal
	DailyRate         decimal.Decimal
	GrossPay          decimal.Decimal
	LateDeduction     decimal.Decimal
	NetPay            decimal.Decimal
	Status            PayrollStatus
	PaidAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// AttendanceSummary is the per-employee aggregate the generator consumes.
type AttendanceSummary struct {
	EmployeeID        string
	PresentDays       int
	LateMinutes       int
	TotalWorkingHours float64
}
