package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/payroll"
)

// ===== IN-MEMORY FAKES =====

type fakePayrollRepo struct {
	records   map[string]payroll.PayrollRecord // keyed employee|year|month
	summaries map[string]payroll.AttendanceSummary
}

func periodKey(employeeID string, year, month int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, year, month)
}

func (f *fakePayrollRepo) Upsert(_ context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	key := periodKey(rec.EmployeeID, rec.PeriodYear, rec.PeriodMonth)
	if existing, ok := f.records[key]; ok {
		if existing.Status == payroll.PayrollStatusPaid {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
		}
		rec.ID = existing.ID
	} else {
		rec.ID = fmt.Sprintf("pay-%d", len(f.records)+1)
	}
	f.records[key] = rec
	return rec, nil
}

func (f *fakePayrollRepo) ListByPeriod(_ context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	var out []payroll.PayrollRecord
	for _, rec := range f.records {
		if rec.PeriodMonth == month && rec.PeriodYear == year {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) MarkPaid(_ context.Context, ids []string) (int64, error) {
	var paid int64
	now := time.Now()
	for key, rec := range f.records {
		for _, id := range ids {
			if rec.ID == id && rec.Status == payroll.PayrollStatusDraft {
				rec.Status = payroll.PayrollStatusPaid
				rec.PaidAt = &now
				f.records[key] = rec
				paid++
			}
		}
	}
	return paid, nil
}

func (f *fakePayrollRepo) GetAttendanceSummary(_ context.Context, _, _ int, employeeIDs []string) ([]payroll.AttendanceSummary, error) {
	var out []payroll.AttendanceSummary
	for _, id := range employeeIDs {
		if s, ok := f.summaries[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.Active {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActiveByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		for _, id := range ids {
			if emp.ID == id && emp.Active {
				out = append(out, emp)
			}
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) CountAll(_ context.Context) (int64, int64, error) {
	return int64(len(f.employees)), int64(len(f.employees)), nil
}

// ===== FIXTURES =====

func salariedEmployee(id, code string, salary string) employee.Employee {
	d := decimal.RequireFromString(salary)
	return employee.Employee{ID: id, EmployeeCode: code, FullName: "Employee " + code, BaseSalary: &d, Active: true}
}

// ===== TESTS =====

func TestGenerateProratesBySummary(t *testing.T) {
	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{},
		summaries: map[string]payroll.AttendanceSummary{
			"emp-1": {EmployeeID: "emp-1", PresentDays: 20, LateMinutes: 30, TotalWorkingHours: 158.5},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		salariedEmployee("emp-1", "1001", "4400"),
	}}

	svc := NewPayrollService(repo, employees, decimal.RequireFromString("0.50"))

	// March 2026 has 22 weekdays.
	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 0, resp.Skipped)
	require.Len(t, resp.Records, 1)

	rec := resp.Records[0]
	assert.Equal(t, 22, rec.WorkingDays)
	assert.Equal(t, 20, rec.PresentDays)
	assert.Equal(t, "200", rec.DailyRate.String())
	assert.Equal(t, "4000", rec.GrossPay.String())
	assert.Equal(t, "15", rec.LateDeduction.String())
	assert.Equal(t, "3985", rec.NetPay.String())
	assert.Equal(t, "draft", rec.Status)
}

func TestGenerateSkipsEmployeesWithoutSalary(t *testing.T) {
	repo := &fakePayrollRepo{records: map[string]payroll.PayrollRecord{}, summaries: map[string]payroll.AttendanceSummary{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		salariedEmployee("emp-1", "1001", "4400"),
		{ID: "emp-2", EmployeeCode: "1002", FullName: "Employee 1002", Active: true},
	}}

	svc := NewPayrollService(repo, employees, decimal.Zero)

	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)
}

func TestGenerateFiltersByOrgUnit(t *testing.T) {
	warehouse := "Warehouse"
	office := "Office"
	north := "North"

	empA := salariedEmployee("emp-1", "1001", "4400")
	empA.Department = &warehouse
	empA.Branch = &north
	empB := salariedEmployee("emp-2", "1002", "4400")
	empB.Department = &office

	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{},
		summaries: map[string]payroll.AttendanceSummary{
			"emp-1": {EmployeeID: "emp-1", PresentDays: 22},
			"emp-2": {EmployeeID: "emp-2", PresentDays: 22},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{empA, empB}}

	svc := NewPayrollService(repo, employees, decimal.Zero)

	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		PeriodMonth: 3,
		PeriodYear:  2026,
		Department:  "Warehouse",
	})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "1001", resp.Records[0].EmployeeCode)

	missed, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{
		PeriodMonth: 3,
		PeriodYear:  2026,
		Department:  "Warehouse",
		Branch:      "South",
	})
	require.NoError(t, err)
	assert.Zero(t, missed.Generated, "both filters must match")
}

func TestGenerateDoesNotTouchPaidRecords(t *testing.T) {
	paidAt := time.Now()
	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{
			periodKey("emp-1", 2026, 3): {
				ID:          "pay-1",
				EmployeeID:  "emp-1",
				PeriodMonth: 3,
				PeriodYear:  2026,
				NetPay:      decimal.RequireFromString("4000"),
				Status:      payroll.PayrollStatusPaid,
				PaidAt:      &paidAt,
			},
		},
		summaries: map[string]payroll.AttendanceSummary{},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		salariedEmployee("emp-1", "1001", "4400"),
	}}

	svc := NewPayrollService(repo, employees, decimal.Zero)

	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, payroll.PayrollStatusPaid, repo.records[periodKey("emp-1", 2026, 3)].Status)
}

func TestGenerateNetPayNeverNegative(t *testing.T) {
	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{},
		summaries: map[string]payroll.AttendanceSummary{
			"emp-1": {EmployeeID: "emp-1", PresentDays: 1, LateMinutes: 10000},
		},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		salariedEmployee("emp-1", "1001", "2200"),
	}}

	svc := NewPayrollService(repo, employees, decimal.RequireFromString("1"))

	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.True(t, resp.Records[0].NetPay.IsZero())
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	svc := NewPayrollService(
		&fakePayrollRepo{records: map[string]payroll.PayrollRecord{}, summaries: map[string]payroll.AttendanceSummary{}},
		&fakeEmployeeRepo{},
		decimal.Zero,
	)

	_, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{PeriodMonth: 0, PeriodYear: 2026})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "periodMonth")
}

func TestListByPeriodTotals(t *testing.T) {
	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{
			periodKey("emp-1", 2026, 3): {ID: "pay-1", EmployeeID: "emp-1", PeriodMonth: 3, PeriodYear: 2026, NetPay: decimal.RequireFromString("3985.50")},
			periodKey("emp-2", 2026, 3): {ID: "pay-2", EmployeeID: "emp-2", PeriodMonth: 3, PeriodYear: 2026, NetPay: decimal.RequireFromString("2014.50")},
			periodKey("emp-1", 2026, 2): {ID: "pay-3", EmployeeID: "emp-1", PeriodMonth: 2, PeriodYear: 2026, NetPay: decimal.RequireFromString("999")},
		},
		summaries: map[string]payroll.AttendanceSummary{},
	}

	svc := NewPayrollService(repo, &fakeEmployeeRepo{}, decimal.Zero)

	resp, err := svc.ListByPeriod(context.Background(), payroll.PeriodFilter{PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)

	assert.Len(t, resp.Records, 2)
	assert.Equal(t, "6000", resp.TotalNetPay.String())
}

func TestMarkPaid(t *testing.T) {
	repo := &fakePayrollRepo{
		records: map[string]payroll.PayrollRecord{
			periodKey("emp-1", 2026, 3): {ID: "pay-1", EmployeeID: "emp-1", PeriodMonth: 3, PeriodYear: 2026, Status: payroll.PayrollStatusDraft},
		},
		summaries: map[string]payroll.AttendanceSummary{},
	}

	svc := NewPayrollService(repo, &fakeEmployeeRepo{}, decimal.Zero)

	resp, err := svc.MarkPaid(context.Background(), payroll.MarkPaidRequest{RecordIDs: []string{"pay-1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Paid)

	stored := repo.records[periodKey("emp-1", 2026, 3)]
	assert.Equal(t, payroll.PayrollStatusPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestMarkPaidUnknownRecords(t *testing.T) {
	svc := NewPayrollService(
		&fakePayrollRepo{records: map[string]payroll.PayrollRecord{}, summaries: map[string]payroll.AttendanceSummary{}},
		&fakeEmployeeRepo{},
		decimal.Zero,
	)

	_, err := svc.MarkPaid(context.Background(), payroll.MarkPaidRequest{RecordIDs: []string{"ghost"}})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestMarkPaidRequiresIDs(t *testing.T) {
	svc := NewPayrollService(
		&fakePayrollRepo{records: map[string]payroll.PayrollRecord{}, summaries: map[string]payroll.AttendanceSummary{}},
		&fakeEmployeeRepo{},
		decimal.Zero,
	)

	_, err := svc.MarkPaid(context.Background(), payroll.MarkPaidRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recordIds")
}
