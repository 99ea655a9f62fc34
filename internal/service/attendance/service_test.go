package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
)

// ===== IN-MEMORY FAKES =====

type fakePunchRepo struct {
	punches map[string][]attendance.PunchEvent
}

func (f *fakePunchRepo) Create(_ context.Context, punch attendance.PunchEvent) (attendance.PunchEvent, error) {
	punch.ID = fmt.Sprintf("punch-%d", len(f.punches[punch.EmployeeID])+1)
	f.punches[punch.EmployeeID] = append(f.punches[punch.EmployeeID], punch)
	return punch, nil
}

func (f *fakePunchRepo) ListByEmployeeBetween(_ context.Context, employeeID string, start, end time.Time) ([]attendance.PunchEvent, error) {
	var out []attendance.PunchEvent
	for _, p := range f.punches[employeeID] {
		if !p.Timestamp.Before(start) && p.Timestamp.Before(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) Bounds(_ context.Context) (time.Time, time.Time, error) {
	var first, last time.Time
	for _, punches := range f.punches {
		for _, p := range punches {
			if first.IsZero() || p.Timestamp.Before(first) {
				first = p.Timestamp
			}
			if p.Timestamp.After(last) {
				last = p.Timestamp
			}
		}
	}
	return first, last, nil
}

func (f *fakePunchRepo) ListBetween(_ context.Context, start, end time.Time) (map[string][]attendance.PunchEvent, error) {
	out := make(map[string][]attendance.PunchEvent)
	for id := range f.punches {
		punches, _ := f.ListByEmployeeBetween(context.Background(), id, start, end)
		if len(punches) > 0 {
			out[id] = punches
		}
	}
	return out, nil
}

type fakePolicyRepo struct {
	policies map[string]attendance.ShiftPolicy
}

func (f *fakePolicyRepo) GetByEmployee(_ context.Context, employeeID string) (attendance.ShiftPolicy, error) {
	policy, ok := f.policies[employeeID]
	if !ok {
		return attendance.ShiftPolicy{}, attendance.ErrShiftPolicyNotFound
	}
	return policy, nil
}

func (f *fakePolicyRepo) ListByEmployees(_ context.Context, employeeIDs []string) (map[string]attendance.ShiftPolicy, error) {
	out := make(map[string]attendance.ShiftPolicy)
	for _, id := range employeeIDs {
		if policy, ok := f.policies[id]; ok {
			out[id] = policy
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.AttendanceRecord
	upserts int
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(rec.EmployeeID, rec.Date)
	if existing, ok := f.records[key]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	}
	f.records[key] = rec
	f.upserts++
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[recordKey(employeeID, date)]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeBetween(_ context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.AttendanceRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if rec, ok := f.records[recordKey(employeeID, d)]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListBetween(_ context.Context, start, end time.Time) (map[string][]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func testPolicy() attendance.ShiftPolicy {
	return attendance.ShiftPolicy{
		Timezone:         "UTC",
		ExpectedStart:    9 * time.Hour,
		ExpectedEnd:      17 * time.Hour,
		GraceMinutes:     15,
		BreakMinutes:     60,
		HalfDayThreshold: 4,
	}
}

func newTestService(punches *fakePunchRepo, policies *fakePolicyRepo, records *fakeAttendanceRepo, employees *fakeEmployeeRepo) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		PunchRepository:       punches,
		ShiftPolicyRepository: policies,
		AttendanceRepository:  records,
		EmployeeRepository:    employees,
	}
}

func activeEmployee(id, code string) employee.Employee {
	return employee.Employee{ID: id, EmployeeCode: code, FullName: "Employee " + code, Active: true}
}

// ===== RECALCULATION TESTS =====

func TestRecalculateCreatesRecords(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	punches := &fakePunchRepo{punches: map[string][]attendance.PunchEvent{
		"emp-1": {
			{EmployeeID: "emp-1", Timestamp: day1.Add(9 * time.Hour), Direction: attendance.DirectionIn},
			{EmployeeID: "emp-1", Timestamp: day1.Add(17 * time.Hour), Direction: attendance.DirectionOut},
		},
	}}
	policies := &fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{
		"emp-1": testPolicy(),
		"emp-2": testPolicy(),
	}}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "1001"),
		activeEmployee("emp-2", "1002"),
	}}

	svc := newTestService(punches, policies, records, employees)

	resp, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 4, resp.Updated)
	assert.Equal(t, 0, resp.Skipped)
	assert.Empty(t, resp.Errors)

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", day1)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	rec, err = records.GetByEmployeeAndDate(context.Background(), "emp-2", day1)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
}

func TestRecalculateIdempotent(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	punches := &fakePunchRepo{punches: map[string][]attendance.PunchEvent{
		"emp-1": {
			{EmployeeID: "emp-1", Timestamp: day.Add(9 * time.Hour), Direction: attendance.DirectionIn},
			{EmployeeID: "emp-1", Timestamp: day.Add(17 * time.Hour), Direction: attendance.DirectionOut},
		},
	}}
	policies := &fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{"emp-1": testPolicy()}}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}}

	svc := newTestService(punches, policies, records, employees)
	req := attendance.RecalculateRequest{StartDate: "2026-03-02", EndDate: "2026-03-02"}

	first, err := svc.Recalculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Updated)

	upsertsAfterFirst := records.upserts

	second, err := svc.Recalculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 0, second.Skipped)
	assert.Equal(t, upsertsAfterFirst, records.upserts, "unchanged pairs must not be rewritten")
}

func TestRecalculateSkipsEmployeesWithoutPolicy(t *testing.T) {
	policies := &fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}}
	punches := &fakePunchRepo{punches: map[string][]attendance.PunchEvent{}}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}}

	svc := newTestService(punches, policies, records, employees)

	resp, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-04",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 0, resp.Updated)
	assert.Equal(t, 3, resp.Skipped)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "no shift policy")
}

func TestRecalculateNarrowsToRequestedEmployees(t *testing.T) {
	policies := &fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{
		"emp-1": testPolicy(),
		"emp-2": testPolicy(),
	}}
	punches := &fakePunchRepo{punches: map[string][]attendance.PunchEvent{}}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "1001"),
		activeEmployee("emp-2", "1002"),
	}}

	svc := newTestService(punches, policies, records, employees)

	resp, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-02",
		EmployeeIDs: []string{"emp-2", "emp-ghost"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Errors, 1, "unknown filter IDs are reported, not dropped")
	assert.Contains(t, resp.Errors[0], "emp-ghost")
	_, err = records.GetByEmployeeAndDate(context.Background(), "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestRecalculateEmptyFilterSpansStoredPunches(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 := day1.AddDate(0, 0, 2)

	punches := &fakePunchRepo{punches: map[string][]attendance.PunchEvent{
		"emp-1": {
			{EmployeeID: "emp-1", Timestamp: day1.Add(9 * time.Hour), Direction: attendance.DirectionIn},
			{EmployeeID: "emp-1", Timestamp: day3.Add(17 * time.Hour), Direction: attendance.DirectionOut},
		},
	}}
	policies := &fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{"emp-1": testPolicy()}}
	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}}

	svc := newTestService(punches, policies, records, employees)

	// No dates, no employee IDs: the run covers every day with punches.
	resp, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total, "span runs from the first punch day to the last")
	assert.Equal(t, 3, resp.Updated)

	rec, err := records.GetByEmployeeAndDate(context.Background(), "emp-1", day1)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusShiftIncomplete, rec.Status)
}

func TestRecalculateEmptyFilterNoPunches(t *testing.T) {
	svc := newTestService(
		&fakePunchRepo{punches: map[string][]attendance.PunchEvent{}},
		&fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}},
		&fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}},
		&fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}},
	)

	resp, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0, resp.Updated)
	assert.Empty(t, resp.Errors)
}

func TestRecalculateRejectsReversedRange(t *testing.T) {
	svc := newTestService(
		&fakePunchRepo{punches: map[string][]attendance.PunchEvent{}},
		&fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}},
		&fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}},
		&fakeEmployeeRepo{},
	)

	_, err := svc.Recalculate(context.Background(), attendance.RecalculateRequest{
		StartDate: "2026-03-05",
		EndDate:   "2026-03-02",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endDate")
}

// ===== QUERY TESTS =====

func TestGetDayNotFound(t *testing.T) {
	svc := newTestService(
		&fakePunchRepo{punches: map[string][]attendance.PunchEvent{}},
		&fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}},
		&fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}},
		&fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}},
	)

	_, err := svc.GetDay(context.Background(), "emp-1", "2026-03-02")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestListEmployeeRange(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	records := &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{
		recordKey("emp-1", day1): {ID: "rec-1", EmployeeID: "emp-1", Date: day1, Status: attendance.StatusPresent},
		recordKey("emp-1", day2): {ID: "rec-2", EmployeeID: "emp-1", Date: day2, Status: attendance.StatusAbsent},
	}}

	svc := newTestService(
		&fakePunchRepo{punches: map[string][]attendance.PunchEvent{}},
		&fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}},
		records,
		&fakeEmployeeRepo{employees: []employee.Employee{activeEmployee("emp-1", "1001")}},
	)

	responses, err := svc.ListEmployeeRange(context.Background(), attendance.RangeFilter{
		EmployeeID: "emp-1",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-03",
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "2026-03-02", responses[0].Date)
	assert.Equal(t, "Present", responses[0].Status)
	assert.Equal(t, "2026-03-03", responses[1].Date)
	assert.Equal(t, "Absent", responses[1].Status)
}

func TestListEmployeeRangeUnknownEmployee(t *testing.T) {
	svc := newTestService(
		&fakePunchRepo{punches: map[string][]attendance.PunchEvent{}},
		&fakePolicyRepo{policies: map[string]attendance.ShiftPolicy{}},
		&fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}},
		&fakeEmployeeRepo{},
	)

	_, err := svc.ListEmployeeRange(context.Background(), attendance.RangeFilter{
		EmployeeID: "ghost",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-03",
	})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}
