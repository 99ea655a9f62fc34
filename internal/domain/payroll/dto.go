package payroll

import (
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"periodMonth"`
	PeriodYear  int      `json:"periodYear"`
	EmployeeIDs []string `json:"employeeIds,omitempty"` // empty = all active employees
	Department  string   `json:"department,omitempty"`  // narrow to one department
	Branch      string   `json:"branch,omitempty"`      // narrow to one branch
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "periodMonth", Message: "must be between 1 and 12"})
	}

	currentYear := time.Now().Year()
	if r.PeriodYear < 2000 || r.PeriodYear > currentYear+1 {
		errs = append(errs, validator.ValidationError{Field: "periodYear", Message: fmt.Sprintf("must be between 2000 and %d", currentYear+1)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GeneratePayrollResponse struct {
	PeriodMonth int                     `json:"periodMonth"`
	PeriodYear  int                     `json:"periodYear"`
	Generated   int                     `json:"generated"`
	Skipped     int                     `json:"skipped"` // no base salary, or record already paid
	Records     []PayrollRecordResponse `json:"records"`
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employeeId"`
	EmployeeName      string          `json:"employeeName"`
	EmployeeCode      string          `json:"employeeCode"`
	PeriodMonth       int             `json:"periodMonth"`
	PeriodYear        int             `json:"periodYear"`
	WorkingDays       int             `json:"workingDays"`
	PresentDays       int             `json:"presentDays"`
	LateMinutes       int             `json:"lateMinutes"`
	TotalWorkingHours float64         `json:"totalWorkingHours"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	DailyRate         decimal.Decimal `json:"dailyRate"`
	GrossPay          decimal.Decimal `json:"grossPay"`
	LateDeduction     decimal.Decimal `json:"lateDeduction"`
	NetPay            decimal.Decimal `json:"netPay"`
	Status            string          `json:"status"`
	PaidAt            *string         `json:"paidAt,omitempty"`
}

func NewPayrollRecordResponse(rec PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		PeriodMonth:       rec.PeriodMonth,
		PeriodYear:        rec.PeriodYear,
		WorkingDays:       rec.WorkingDays,
		PresentDays:       rec.PresentDays,
		LateMinutes:       rec.LateMinutes,
		TotalWorkingHours: rec.TotalWorkingHours,
		BaseSalary:        rec.BaseSalary,
		DailyRate:         rec.DailyRate,
		GrossPay:          rec.GrossPay,
		LateDeduction:     rec.LateDeduction,
		NetPay:            rec.NetPay,
		Status:            string(rec.Status),
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	if rec.EmployeeCode != nil {
		resp.EmployeeCode = *rec.EmployeeCode
	}
	if rec.PaidAt != nil {
		s := rec.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

type PeriodFilter struct {
	PeriodMonth int `json:"periodMonth"`
	PeriodYear  int `json:"periodYear"`
}

func (f *PeriodFilter) Validate() error {
	req := GeneratePayrollRequest{PeriodMonth: f.PeriodMonth, PeriodYear: f.PeriodYear}
	return req.Validate()
}

type ListPayrollResponse struct {
	PeriodMonth int                     `json:"periodMonth"`
	PeriodYear  int                     `json:"periodYear"`
	TotalNetPay decimal.Decimal         `json:"totalNetPay"`
	Records     []PayrollRecordResponse `json:"records"`
}

type MarkPaidRequest struct {
	RecordIDs []string `json:"recordIds"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "recordIds", Message: "at least one record is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidResponse struct {
	Paid int `json:"paid"`
}
