package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/metrics"
	"github.com/clockwise-hr/attendance-backend-go/internal/repository/postgresql"
)

// recalcWorkers caps concurrent per-employee recalculation goroutines.
const recalcWorkers = 8

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.PunchRepository
	attendance.ShiftPolicyRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewAttendanceService(
	db *database.DB,
	punchRepo attendance.PunchRepository,
	policyRepo attendance.ShiftPolicyRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                    db,
		PunchRepository:       punchRepo,
		ShiftPolicyRepository: policyRepo,
		AttendanceRepository:  attendanceRepo,
		EmployeeRepository:    employeeRepo,
	}
}

// CreatePunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreatePunch(ctx context.Context, req attendance.CreatePunchRequest) (attendance.CreatePunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CreatePunchResponse{}, err
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.CreatePunchResponse{}, attendance.ErrEmployeeNotFound
		}
		return attendance.CreatePunchResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	policy, err := a.ShiftPolicyRepository.GetByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.CreatePunchResponse{}, err
	}

	punch := req.ToEntity()
	day := policy.DayFor(punch.Timestamp)

	var stored attendance.PunchEvent
	var rec attendance.AttendanceRecord

	// Punch insert and day reclassification commit together; the upsert's
	// row lock serializes concurrent writes to the same employee/day.
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		stored, err = a.PunchRepository.Create(txCtx, punch)
		if err != nil {
			return err
		}

		rec, err = a.reclassifyDay(txCtx, req.EmployeeID, day, policy)
		return err
	})
	if err != nil {
		return attendance.CreatePunchResponse{}, err
	}

	source := "device"
	if punch.Source != nil {
		source = *punch.Source
	}
	metrics.PunchesIngestedTotal.WithLabelValues(source).Inc()

	slog.Info("Punch ingested",
		"employee_id", req.EmployeeID,
		"date", day.Format("2006-01-02"),
		"status", rec.Status)

	return attendance.CreatePunchResponse{
		Punch:      attendance.NewPunchResponse(stored),
		Attendance: attendance.NewAttendanceResponse(rec),
	}, nil
}

// reclassifyDay rebuilds one employee/day record from its punches.
func (a *AttendanceServiceImpl) reclassifyDay(ctx context.Context, employeeID string, day time.Time, policy attendance.ShiftPolicy) (attendance.AttendanceRecord, error) {
	winStart, winEnd := policy.DayWindow(day)

	punches, err := a.PunchRepository.ListByEmployeeBetween(ctx, employeeID, winStart, winEnd)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	rec := attendance.Classify(employeeID, day, punches, policy)
	stored, err := a.AttendanceRepository.Upsert(ctx, rec)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	metrics.ClassificationsTotal.WithLabelValues(string(stored.Status)).Inc()
	return stored, nil
}

// GetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID, date string) (attendance.AttendanceResponse, error) {
	filter := attendance.RangeFilter{EmployeeID: employeeID, StartDate: date, EndDate: date}
	if err := filter.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, _ := time.Parse("2006-01-02", date)
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(rec), nil
}

// ListEmployeeRange implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEmployeeRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, filter.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, attendance.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	start, _ := time.Parse("2006-01-02", filter.StartDate)
	end, _ := time.Parse("2006-01-02", filter.EndDate)

	records, err := a.AttendanceRepository.ListByEmployeeBetween(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewAttendanceResponse(rec))
	}
	return responses, nil
}

// Recalculate implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Recalculate(ctx context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecalculateResponse{}, err
	}
	started := time.Now()

	start, end, err := a.resolveRange(ctx, req)
	if err != nil {
		return attendance.RecalculateResponse{}, err
	}
	if start.IsZero() {
		// No punches stored yet: an unbounded run has nothing to recompute.
		return attendance.RecalculateResponse{}, nil
	}

	var employees []employee.Employee
	var unknownIDs []string
	if len(req.EmployeeIDs) > 0 {
		employees, err = a.EmployeeRepository.ListActiveByIDs(ctx, req.EmployeeIDs)
		if err == nil {
			found := make(map[string]bool, len(employees))
			for _, emp := range employees {
				found[emp.ID] = true
			}
			for _, id := range req.EmployeeIDs {
				if !found[id] {
					unknownIDs = append(unknownIDs, id)
				}
			}
		}
	} else {
		employees, err = a.EmployeeRepository.ListActive(ctx)
	}
	if err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	days := enumerateDays(start, end)

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	policies, err := a.ShiftPolicyRepository.ListByEmployees(ctx, employeeIDs)
	if err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to list shift policies: %w", err)
	}

	// One fetch covers every employee's punches; the extra day on each side
	// absorbs displaced overnight windows. Classify filters per day anyway.
	punchesByEmployee, err := a.PunchRepository.ListBetween(ctx, start.AddDate(0, 0, -1), end.AddDate(0, 0, 2))
	if err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	resp := attendance.RecalculateResponse{Total: len(employees) * len(days)}
	// Filter IDs that match no active employee are reported, not dropped.
	for _, id := range unknownIDs {
		resp.Errors = append(resp.Errors,
			fmt.Sprintf("employee %s: %v", id, employee.ErrEmployeeNotFound))
	}
	var mu sync.Mutex

	// One goroutine per employee: all writes for a given employee/day pair
	// stay on a single goroutine, so pairs are never raced.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(recalcWorkers)

	for _, emp := range employees {
		g.Go(func() error {
			policy, ok := policies[emp.ID]
			if !ok {
				mu.Lock()
				resp.Skipped += len(days)
				resp.Errors = append(resp.Errors,
					fmt.Sprintf("employee %s: %v", emp.EmployeeCode, attendance.ErrShiftPolicyNotFound))
				mu.Unlock()
				metrics.RecalculationSkippedTotal.Add(float64(len(days)))
				return nil
			}

			punches := punchesByEmployee[emp.ID]
			var updated, skipped int
			var errStrings []string

			for _, day := range days {
				changed, err := a.recalculatePair(gCtx, emp.ID, day, punches, policy)
				if err != nil {
					skipped++
					errStrings = append(errStrings,
						fmt.Sprintf("employee %s date %s: %v", emp.EmployeeCode, day.Format("2006-01-02"), err))
					metrics.RecalculationSkippedTotal.Inc()
					continue
				}
				if changed {
					updated++
				}
			}

			mu.Lock()
			resp.Updated += updated
			resp.Skipped += skipped
			resp.Errors = append(resp.Errors, errStrings...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.RecalculateResponse{}, err
	}

	sort.Strings(resp.Errors)

	metrics.RecalculationRunsTotal.Inc()
	metrics.RecalculationDurationSeconds.Observe(time.Since(started).Seconds())

	slog.Info("Recalculation completed",
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"total", resp.Total,
		"updated", resp.Updated,
		"skipped", resp.Skipped,
		"duration", time.Since(started))

	return resp, nil
}

// recalculatePair reclassifies one employee/day pair and reports whether
// the stored record materially changed. Unchanged pairs are not rewritten,
// which keeps repeated runs idempotent.
func (a *AttendanceServiceImpl) recalculatePair(ctx context.Context, employeeID string, day time.Time, punches []attendance.PunchEvent, policy attendance.ShiftPolicy) (bool, error) {
	rec := attendance.Classify(employeeID, day, punches, policy)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err == nil && existing.Same(rec) {
		return false, nil
	}
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return false, fmt.Errorf("%w: %v", attendance.ErrComputeSkipped, err)
	}

	if _, err := a.AttendanceRepository.Upsert(ctx, rec); err != nil {
		return false, fmt.Errorf("%w: %v", attendance.ErrComputeSkipped, err)
	}

	metrics.ClassificationsTotal.WithLabelValues(string(rec.Status)).Inc()
	return true, nil
}

// resolveRange picks the day span for one recalculation run. An unbounded
// request defaults to the UTC dates of the earliest and latest stored
// punches; zero times mean there are no punches at all.
func (a *AttendanceServiceImpl) resolveRange(ctx context.Context, req attendance.RecalculateRequest) (time.Time, time.Time, error) {
	if req.StartDate != "" {
		start, _ := time.Parse("2006-01-02", req.StartDate)
		end, _ := time.Parse("2006-01-02", req.EndDate)
		return start, end, nil
	}

	first, last, err := a.PunchRepository.Bounds(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to read punch bounds: %w", err)
	}
	if first.IsZero() {
		return time.Time{}, time.Time{}, nil
	}
	return dayOf(first), dayOf(last), nil
}

// dayOf truncates an instant to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// enumerateDays lists the UTC midnights of [start, end] inclusive.
func enumerateDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	return days
}
