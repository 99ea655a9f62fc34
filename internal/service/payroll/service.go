package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/payroll"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	employee.EmployeeRepository

	// lateDeductionPerMinute is deducted from gross pay for every late
	// minute in the period.
	lateDeductionPerMinute decimal.Decimal
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	lateDeductionPerMinute decimal.Decimal,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository:      payrollRepo,
		EmployeeRepository:     employeeRepo,
		lateDeductionPerMinute: lateDeductionPerMinute,
	}
}

// Generate implements payroll.PayrollService.
func (p *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	var employees []employee.Employee
	var err error
	if len(req.EmployeeIDs) > 0 {
		employees, err = p.EmployeeRepository.ListActiveByIDs(ctx, req.EmployeeIDs)
	} else {
		employees, err = p.EmployeeRepository.ListActive(ctx)
	}
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	employees = filterByOrgUnit(employees, req.Department, req.Branch)

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	summaries, err := p.PayrollRepository.GetAttendanceSummary(ctx, req.PeriodMonth, req.PeriodYear, employeeIDs)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	byEmployee := make(map[string]payroll.AttendanceSummary, len(summaries))
	for _, s := range summaries {
		byEmployee[s.EmployeeID] = s
	}

	workingDays := weekdaysInMonth(req.PeriodYear, req.PeriodMonth)

	resp := payroll.GeneratePayrollResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
	}

	for _, emp := range employees {
		if emp.BaseSalary == nil {
			resp.Skipped++
			slog.Warn("Payroll generation skipped employee",
				"employee_code", emp.EmployeeCode,
				"reason", payroll.ErrEmployeeHasNoBaseSalary)
			continue
		}

		rec := buildRecord(emp, byEmployee[emp.ID], req.PeriodMonth, req.PeriodYear, workingDays, p.lateDeductionPerMinute)

		stored, err := p.PayrollRepository.Upsert(ctx, rec)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid) {
				resp.Skipped++
				continue
			}
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to store payroll record: %w", err)
		}

		stored.EmployeeName = &emp.FullName
		stored.EmployeeCode = &emp.EmployeeCode
		resp.Generated++
		resp.Records = append(resp.Records, payroll.NewPayrollRecordResponse(stored))
	}

	sort.Slice(resp.Records, func(i, j int) bool {
		return resp.Records[i].EmployeeCode < resp.Records[j].EmployeeCode
	})

	slog.Info("Payroll generated",
		"period_month", req.PeriodMonth,
		"period_year", req.PeriodYear,
		"generated", resp.Generated,
		"skipped", resp.Skipped)

	return resp, nil
}

// ListByPeriod implements payroll.PayrollService.
func (p *PayrollServiceImpl) ListByPeriod(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	records, err := p.PayrollRepository.ListByPeriod(ctx, filter.PeriodMonth, filter.PeriodYear)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	resp := payroll.ListPayrollResponse{
		PeriodMonth: filter.PeriodMonth,
		PeriodYear:  filter.PeriodYear,
		TotalNetPay: decimal.Zero,
	}
	for _, rec := range records {
		resp.TotalNetPay = resp.TotalNetPay.Add(rec.NetPay)
		resp.Records = append(resp.Records, payroll.NewPayrollRecordResponse(rec))
	}
	return resp, nil
}

// MarkPaid implements payroll.PayrollService.
func (p *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.MarkPaidResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.MarkPaidResponse{}, err
	}

	paid, err := p.PayrollRepository.MarkPaid(ctx, req.RecordIDs)
	if err != nil {
		return payroll.MarkPaidResponse{}, fmt.Errorf("failed to mark payroll records paid: %w", err)
	}
	if paid == 0 {
		return payroll.MarkPaidResponse{}, payroll.ErrPayrollRecordNotFound
	}

	slog.Info("Payroll records marked paid", "requested", len(req.RecordIDs), "paid", paid)
	return payroll.MarkPaidResponse{Paid: int(paid)}, nil
}

// buildRecord prices one employee's period from the attendance summary.
// Gross pay prorates the base salary by present-like days; late minutes
// deduct at the configured per-minute rate. Net pay never goes negative.
func buildRecord(emp employee.Employee, summary payroll.AttendanceSummary, month, year, workingDays int, perMinute decimal.Decimal) payroll.PayrollRecord {
	dailyRate := emp.BaseSalary.DivRound(decimal.NewFromInt(int64(workingDays)), 2)
	grossPay := dailyRate.Mul(decimal.NewFromInt(int64(summary.PresentDays))).Round(2)
	lateDeduction := perMinute.Mul(decimal.NewFromInt(int64(summary.LateMinutes))).Round(2)

	netPay := grossPay.Sub(lateDeduction)
	if netPay.IsNegative() {
		netPay = decimal.Zero
	}

	return payroll.PayrollRecord{
		EmployeeID:        emp.ID,
		PeriodMonth:       month,
		PeriodYear:        year,
		WorkingDays:       workingDays,
		PresentDays:       summary.PresentDays,
		LateMinutes:       summary.LateMinutes,
		TotalWorkingHours: summary.TotalWorkingHours,
		BaseSalary:        *emp.BaseSalary,
		DailyRate:         dailyRate,
		GrossPay:          grossPay,
		LateDeduction:     lateDeduction,
		NetPay:            netPay,
		Status:            payroll.PayrollStatusDraft,
	}
}

// filterByOrgUnit narrows the roster to one department and/or branch.
// Empty filters pass everyone through.
func filterByOrgUnit(employees []employee.Employee, department, branch string) []employee.Employee {
	if department == "" && branch == "" {
		return employees
	}
	out := employees[:0:0]
	for _, emp := range employees {
		if department != "" && (emp.Department == nil || *emp.Department != department) {
			continue
		}
		if branch != "" && (emp.Branch == nil || *emp.Branch != branch) {
			continue
		}
		out = append(out, emp)
	}
	return out
}

// weekdaysInMonth counts Monday through Friday in the period.
func weekdaysInMonth(year, month int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
