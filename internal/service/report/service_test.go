package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/report"
)

// ===== IN-MEMORY FAKES =====

type fakeAttendanceRepo struct {
	records []attendance.AttendanceRecord
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeBetween(_ context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListBetween(_ context.Context, start, end time.Time) (map[string][]attendance.AttendanceRecord, error) {
	out := make(map[string][]attendance.AttendanceRecord)
	for _, rec := range f.records {
		if !rec.Date.Before(start) && !rec.Date.After(end) {
			out[rec.EmployeeID] = append(out[rec.EmployeeID], rec)
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
	var active int64
	for _, emp := range f.employees {
		if emp.Active {
			active++
		}
	}
	return int64(len(f.employees)), active, nil
}

// ===== FIXTURES =====

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func roster() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", EmployeeCode: "1001", FullName: "Ana Silva", Department: strPtr("Warehouse"), Branch: strPtr("North"), Active: true},
		{ID: "emp-2", EmployeeCode: "1002", FullName: "Budi Santoso", Branch: strPtr("South"), Active: true},
		{ID: "emp-3", EmployeeCode: "1003", FullName: "Citra Dewi", Department: strPtr("Warehouse"), Branch: strPtr("South"), Active: true},
	}}
}

func presentRecord(employeeID string, date time.Time, hours float64) attendance.AttendanceRecord {
	firstIn := date.Add(9 * time.Hour)
	lastOut := firstIn.Add(time.Duration(hours+1) * time.Hour)
	return attendance.AttendanceRecord{
		EmployeeID:   employeeID,
		Date:         date,
		FirstIn:      &firstIn,
		LastOut:      &lastOut,
		WorkingHours: floatPtr(hours),
		TotalPunches: 2,
		Status:       attendance.StatusPresent,
	}
}

// ===== TESTS =====

func TestDailyReportSynthesizesAbsentRows(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		presentRecord("emp-1", day, 8),
	}}

	svc := NewReportService(records, roster())

	rep, err := svc.Daily(context.Background(), report.DailyReportRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)

	assert.Equal(t, "Present", rep.Rows[0].Status)
	assert.NotNil(t, rep.Rows[0].FirstIn)
	assert.Equal(t, "Warehouse", rep.Rows[0].Department)
	assert.Equal(t, "North", rep.Rows[0].Branch)

	assert.Equal(t, "Absent", rep.Rows[1].Status)
	assert.Nil(t, rep.Rows[1].FirstIn)
	assert.Equal(t, "", rep.Rows[1].Department, "no department renders empty")
}

func TestDailyReportInvalidDate(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, roster())

	_, err := svc.Daily(context.Background(), report.DailyReportRequest{Date: "02-03-2026"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestMonthlyReportSummary(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	late := presentRecord("emp-1", day2, 7.5)
	late.Status = attendance.StatusLate
	late.LateMinutes = 20

	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		presentRecord("emp-1", day1, 8),
		late,
		{EmployeeID: "emp-1", Date: day3, Status: attendance.StatusAbsent},
	}}

	svc := NewReportService(records, roster())

	rep, err := svc.Monthly(context.Background(), report.MonthlyReportRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	require.Len(t, rep.Employees, 3)

	me := rep.Employees[0]
	assert.Equal(t, "1001", me.EmployeeCode)
	require.Len(t, me.DailyData, 31, "one cell per calendar day of March")
	assert.Equal(t, "Absent", me.DailyData[0].Status, "day without a record renders absent")
	assert.Nil(t, me.DailyData[0].FirstIn)
	assert.Equal(t, "Present", me.DailyData[1].Status)
	assert.Equal(t, "Late", me.DailyData[2].Status)
	assert.Equal(t, "Absent", me.DailyData[3].Status)
	assert.Equal(t, "Absent", me.DailyData[30].Status)

	assert.Equal(t, 2, me.Summary.PresentDays, "late days still count as present")
	assert.Equal(t, 1, me.Summary.LateDays)
	assert.Equal(t, 29, me.Summary.AbsentDays)
	assert.Equal(t, 31, me.Summary.PresentDays+me.Summary.AbsentDays, "every day lands in exactly one bucket")
	assert.InDelta(t, 15.5, me.Summary.TotalWorkingHours, 0.001)
}

func TestMonthlyReportCountsShiftIncompleteAsPresent(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day, Status: attendance.StatusShiftIncomplete, TotalPunches: 1},
	}}

	svc := NewReportService(records, roster())

	rep, err := svc.Monthly(context.Background(), report.MonthlyReportRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	me := rep.Employees[0]
	assert.Equal(t, 1, me.Summary.PresentDays, "an open shift still counts as showing up")
	assert.Equal(t, 30, me.Summary.AbsentDays)
}

func TestMonthlyReportRejectsBadMonth(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, roster())

	_, err := svc.Monthly(context.Background(), report.MonthlyReportRequest{Month: 13, Year: 2026})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month")
}

func TestRangeReportGroupsAndFills(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		presentRecord("emp-1", day1, 8),
	}}

	svc := NewReportService(records, roster())

	rep, err := svc.Range(context.Background(), report.RangeReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-04",
	})
	require.NoError(t, err)

	require.Len(t, rep.Dates, 3)
	assert.Equal(t, "Mon", rep.Dates[0].DayName)
	assert.Equal(t, 2, rep.Dates[0].Day)
	assert.Equal(t, 3, rep.Dates[0].Month)

	// Warehouse appears first because its first member leads in roster order.
	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "Warehouse", rep.Groups[0].GroupName)
	assert.Equal(t, employee.UngroupedName, rep.Groups[1].GroupName)
	require.Len(t, rep.Groups[0].Employees, 2)

	ana := rep.Groups[0].Employees[0]
	assert.Equal(t, "Present", ana.Days["2026-03-02"].Status)
	assert.Equal(t, "Absent", ana.Days["2026-03-03"].Status, "missing days fill as absent")
	assert.Equal(t, "Absent", ana.Days["2026-03-04"].Status)

	assert.Equal(t, 1, ana.Summary.PresentDays)
	assert.Equal(t, 2, ana.Summary.AbsentDays, "present plus absent covers the range")
	assert.InDelta(t, 8.0, ana.Summary.TotalWorkingHours, 0.001)
}

func TestRangeReportGroupsByBranch(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, roster())

	rep, err := svc.Range(context.Background(), report.RangeReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-02",
		GroupBy:   report.GroupByBranch,
	})
	require.NoError(t, err)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "North", rep.Groups[0].GroupName)
	assert.Equal(t, "South", rep.Groups[1].GroupName)
	require.Len(t, rep.Groups[1].Employees, 2)
	assert.Equal(t, "1002", rep.Groups[1].Employees[0].EmployeeCode)
}

func TestRangeReportRejectsUnknownGroupBy(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, roster())

	_, err := svc.Range(context.Background(), report.RangeReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-04",
		GroupBy:   "shift",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groupBy")
}

func TestRangeReportNoEmployees(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Range(context.Background(), report.RangeReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-04",
	})
	assert.ErrorIs(t, err, report.ErrNoEmployees)
}

func TestExceptionReportFiltersAndSorts(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	late := presentRecord("emp-3", day1, 7)
	late.Status = attendance.StatusLate
	late.LateMinutes = 25

	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		presentRecord("emp-1", day1, 8),
		late,
		{EmployeeID: "emp-2", Date: day1, Status: attendance.StatusAbsent},
		{EmployeeID: "emp-1", Date: day2, Status: attendance.StatusAbsent},
	}}

	svc := NewReportService(records, roster())

	rep, err := svc.Exceptions(context.Background(), report.ExceptionReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-03",
	})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3, "present days are excluded")
	assert.Equal(t, map[string]int{"Absent": 2, "Late": 1}, rep.Summary)

	assert.Equal(t, "2026-03-02", rep.Rows[0].Date)
	assert.Equal(t, "1002", rep.Rows[0].EmployeeCode)
	assert.Equal(t, "1003", rep.Rows[1].EmployeeCode)
	assert.Equal(t, 25, rep.Rows[1].LateMinutes)
	assert.Equal(t, "2026-03-03", rep.Rows[2].Date)

	narrowed, err := svc.Exceptions(context.Background(), report.ExceptionReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-03",
		Statuses:  []string{"Late"},
	})
	require.NoError(t, err)
	require.Len(t, narrowed.Rows, 1)
	assert.Equal(t, "Late", narrowed.Rows[0].Status)
}

func TestExceptionReportRejectsUnknownStatus(t *testing.T) {
	svc := NewReportService(&fakeAttendanceRepo{}, roster())

	_, err := svc.Exceptions(context.Background(), report.ExceptionReportRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-03",
		Statuses:  []string{"Vacation"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statuses")
}

func TestExportMonthlyExcel(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	records := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		presentRecord("emp-1", day, 8),
	}}

	svc := NewReportService(records, roster())

	data, filename, err := svc.ExportMonthlyExcel(context.Background(), report.MonthlyReportRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, "attendance-2026-03.xlsx", filename)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	name, err := wb.GetCellValue("Attendance", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", name)
}
