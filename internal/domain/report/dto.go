package report

import (
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY REPORT
// ========================================

type DailyReportRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DailyReport lists every active employee for one date. Employees with no
// stored record appear as Absent rows so the report always covers the full
// roster.
type DailyReport struct {
	Date        string     `json:"date"`
	GeneratedAt string     `json:"generatedAt"`
	Rows        []DailyRow `json:"rows"`
}

type DailyRow struct {
	EmployeeID   string   `json:"employeeId"`
	EmployeeCode string   `json:"employeeCode"`
	EmployeeName string   `json:"employeeName"`
	Department   string   `json:"department"`
	Branch       string   `json:"branch"`
	FirstIn      *string  `json:"firstIn"`
	LastOut      *string  `json:"lastOut"`
	WorkingHours *float64 `json:"workingHours"`
	LateMinutes  int      `json:"lateMinutes"`
	Status       string   `json:"status"`
}

// ========================================
// MONTHLY REPORT
// ========================================

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	GeneratedAt string            `json:"generatedAt"`
	Employees   []MonthlyEmployee `json:"employees"`
}

// MonthlyEmployee is one employee's month. DailyData holds one cell per
// calendar day of the month, index day-1; days with no stored record are
// rendered as Absent cells with null times.
type MonthlyEmployee struct {
	EmployeeID   string         `json:"employeeId"`
	EmployeeCode string         `json:"employeeCode"`
	EmployeeName string         `json:"employeeName"`
	Department   string         `json:"department"`
	Branch       string         `json:"branch"`
	DailyData    []DayCell      `json:"dailyData"`
	Summary      MonthlySummary `json:"summary"`
}

type DayCell struct {
	FirstIn      *string  `json:"firstIn"`
	LastOut      *string  `json:"lastOut"`
	WorkingHours *float64 `json:"workingHours"`
	Status       string   `json:"status"`
}

type MonthlySummary struct {
	PresentDays       int     `json:"presentDays"`
	AbsentDays        int     `json:"absentDays"`
	LateDays          int     `json:"lateDays"`
	TotalWorkingHours float64 `json:"totalWorkingHours"`
}

// ========================================
// DATE-RANGE REPORT
// ========================================

// GroupByDepartment and GroupByBranch are the accepted groupBy values for
// the date-range report. An empty groupBy falls back to department.
const (
	GroupByDepartment = "department"
	GroupByBranch     = "branch"
)

type RangeReportRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	GroupBy   string `json:"groupBy,omitempty"`
}

func (r *RangeReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if r.GroupBy != "" && !validator.IsInSlice(r.GroupBy, []string{GroupByDepartment, GroupByBranch}) {
		errs = append(errs, validator.ValidationError{
			Field:   "groupBy",
			Message: "groupBy must be one of: department, branch",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RangeReport is the print-friendly matrix: one column per date in the
// inclusive range, one row group per employee group. Group order and
// employee order within a group follow employee code so repeated runs
// render identically.
type RangeReport struct {
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	GeneratedAt string          `json:"generatedAt"`
	Dates       []RangeDate     `json:"dates"`
	Groups      []EmployeeGroup `json:"groups"`
}

type RangeDate struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Day     int    `json:"day"`
	Month   int    `json:"month"`
	DayName string `json:"dayName"` // Mon, Tue, ...
}

type EmployeeGroup struct {
	GroupName string          `json:"groupName"`
	Employees []RangeEmployee `json:"employees"`
}

// RangeEmployee carries one cell per date in the range, keyed by
// YYYY-MM-DD. Days without a stored record map to an Absent cell.
type RangeEmployee struct {
	EmployeeID   string             `json:"employeeId"`
	EmployeeCode string             `json:"employeeCode"`
	EmployeeName string             `json:"employeeName"`
	Department   string             `json:"department"`
	Branch       string             `json:"branch"`
	Days         map[string]DayCell `json:"days"`
	Summary      RangeSummary       `json:"summary"`
}

// RangeSummary totals one employee's range. PresentDays counts present-like
// days, AbsentDays is the complement, so the two always sum to the range
// length.
type RangeSummary struct {
	PresentDays       int     `json:"presentDays"`
	AbsentDays        int     `json:"absentDays"`
	TotalWorkingHours float64 `json:"totalWorkingHours"`
}

// ========================================
// EXCEPTION REPORT
// ========================================

type ExceptionReportRequest struct {
	StartDate string   `json:"startDate"` // YYYY-MM-DD
	EndDate   string   `json:"endDate"`   // YYYY-MM-DD
	Statuses  []string `json:"statuses,omitempty"`
}

func (r *ExceptionReportRequest) Validate() error {
	var errs validator.ValidationErrors

	rangeReq := RangeReportRequest{StartDate: r.StartDate, EndDate: r.EndDate}
	if err := rangeReq.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}

	valid := []string{"Absent", "Late", "HalfDay", "ShiftIncomplete"}
	for _, s := range r.Statuses {
		if !validator.IsInSlice(s, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "statuses",
				Message: "statuses must be a subset of: Absent, Late, HalfDay, ShiftIncomplete",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExceptionReport struct {
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	GeneratedAt string         `json:"generatedAt"`
	Summary     map[string]int `json:"summary"` // row count per status
	Rows        []ExceptionRow `json:"rows"`
}

type ExceptionRow struct {
	Date         string `json:"date"`
	EmployeeID   string `json:"employeeId"`
	EmployeeCode string `json:"employeeCode"`
	EmployeeName string `json:"employeeName"`
	Department   string `json:"department"`
	Branch       string `json:"branch"`
	Status       string `json:"status"`
	LateMinutes  int    `json:"lateMinutes"`
}
