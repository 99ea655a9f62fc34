package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/report"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/export"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/metrics"
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
	}
}

// Daily implements report.ReportService.
func (s *ReportServiceImpl) Daily(ctx context.Context, req report.DailyReportRequest) (report.DailyReport, error) {
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}
	defer observe("daily", time.Now())

	date, _ := time.Parse("2006-01-02", req.Date)

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byEmployee := make(map[string]attendance.AttendanceRecord, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = rec
	}

	rows := make([]report.DailyRow, 0, len(employees))
	for _, emp := range employees {
		row := report.DailyRow{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.FullName,
			Department:   orEmpty(emp.Department),
			Branch:       orEmpty(emp.Branch),
			Status:       string(attendance.StatusAbsent),
		}
		if rec, ok := byEmployee[emp.ID]; ok {
			row.FirstIn = timeString(rec.FirstIn)
			row.LastOut = timeString(rec.LastOut)
			row.WorkingHours = rec.WorkingHours
			row.LateMinutes = rec.LateMinutes
			row.Status = string(rec.Status)
		}
		rows = append(rows, row)
	}

	return report.DailyReport{
		Date:        req.Date,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// Monthly implements report.ReportService.
func (s *ReportServiceImpl) Monthly(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}
	defer observe("monthly", time.Now())

	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	daysInMonth := end.Day()

	employees, recordsByEmployee, err := s.loadRange(ctx, start, end)
	if err != nil {
		return report.MonthlyReport{}, err
	}

	out := make([]report.MonthlyEmployee, 0, len(employees))
	for _, emp := range employees {
		me := report.MonthlyEmployee{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.FullName,
			Department:   orEmpty(emp.Department),
			Branch:       orEmpty(emp.Branch),
			DailyData:    make([]report.DayCell, 0, daysInMonth),
		}

		byDay := make(map[int]attendance.AttendanceRecord, len(recordsByEmployee[emp.ID]))
		for _, rec := range recordsByEmployee[emp.ID] {
			byDay[rec.Date.Day()] = rec
		}

		// Every calendar day gets a cell; days without a record are absent.
		for d := 1; d <= daysInMonth; d++ {
			rec, ok := byDay[d]
			if !ok {
				me.DailyData = append(me.DailyData, report.DayCell{Status: string(attendance.StatusAbsent)})
				continue
			}
			me.DailyData = append(me.DailyData, dayCell(rec))

			if attendance.IsPresentLike(rec.Status) {
				me.Summary.PresentDays++
			}
			if rec.Status == attendance.StatusLate {
				me.Summary.LateDays++
			}
			if rec.WorkingHours != nil {
				me.Summary.TotalWorkingHours += *rec.WorkingHours
			}
		}
		me.Summary.AbsentDays = daysInMonth - me.Summary.PresentDays

		out = append(out, me)
	}

	return report.MonthlyReport{
		Month:       req.Month,
		Year:        req.Year,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Employees:   out,
	}, nil
}

// Range implements report.ReportService.
func (s *ReportServiceImpl) Range(ctx context.Context, req report.RangeReportRequest) (report.RangeReport, error) {
	if err := req.Validate(); err != nil {
		return report.RangeReport{}, err
	}
	defer observe("range", time.Now())

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	employees, recordsByEmployee, err := s.loadRange(ctx, start, end)
	if err != nil {
		return report.RangeReport{}, err
	}

	var dates []report.RangeDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, report.RangeDate{
			Date:    d.Format("2006-01-02"),
			Day:     d.Day(),
			Month:   int(d.Month()),
			DayName: d.Format("Mon"),
		})
	}

	// Group rows follow roster order (employee code), so the first employee
	// seen in a group fixes that group's position.
	var groupOrder []string
	grouped := make(map[string][]report.RangeEmployee)

	for _, emp := range employees {
		gn := rangeBucket(emp, req.GroupBy)
		if _, ok := grouped[gn]; !ok {
			groupOrder = append(groupOrder, gn)
		}

		re := report.RangeEmployee{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.FullName,
			Department:   orEmpty(emp.Department),
			Branch:       orEmpty(emp.Branch),
			Days:         make(map[string]report.DayCell, len(dates)),
		}

		byDate := make(map[string]attendance.AttendanceRecord)
		for _, rec := range recordsByEmployee[emp.ID] {
			byDate[rec.Date.Format("2006-01-02")] = rec
		}
		for _, d := range dates {
			rec, ok := byDate[d.Date]
			if !ok {
				re.Days[d.Date] = report.DayCell{Status: string(attendance.StatusAbsent)}
				continue
			}
			re.Days[d.Date] = dayCell(rec)
			if attendance.IsPresentLike(rec.Status) {
				re.Summary.PresentDays++
			}
			if rec.WorkingHours != nil {
				re.Summary.TotalWorkingHours += *rec.WorkingHours
			}
		}
		re.Summary.AbsentDays = len(dates) - re.Summary.PresentDays

		grouped[gn] = append(grouped[gn], re)
	}

	groups := make([]report.EmployeeGroup, 0, len(groupOrder))
	for _, gn := range groupOrder {
		groups = append(groups, report.EmployeeGroup{GroupName: gn, Employees: grouped[gn]})
	}

	return report.RangeReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Dates:       dates,
		Groups:      groups,
	}, nil
}

// Exceptions implements report.ReportService.
func (s *ReportServiceImpl) Exceptions(ctx context.Context, req report.ExceptionReportRequest) (report.ExceptionReport, error) {
	if err := req.Validate(); err != nil {
		return report.ExceptionReport{}, err
	}
	defer observe("exceptions", time.Now())

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	wanted := make(map[attendance.Status]bool, len(req.Statuses))
	for _, st := range req.Statuses {
		wanted[attendance.Status(st)] = true
	}

	employees, recordsByEmployee, err := s.loadRange(ctx, start, end)
	if err != nil {
		return report.ExceptionReport{}, err
	}

	summary := make(map[string]int)
	var rows []report.ExceptionRow
	for _, emp := range employees {
		for _, rec := range recordsByEmployee[emp.ID] {
			if rec.Status == attendance.StatusPresent {
				continue
			}
			if len(wanted) > 0 && !wanted[rec.Status] {
				continue
			}
			summary[string(rec.Status)]++
			rows = append(rows, report.ExceptionRow{
				Date:         rec.Date.Format("2006-01-02"),
				EmployeeID:   emp.ID,
				EmployeeCode: emp.EmployeeCode,
				EmployeeName: emp.FullName,
				Department:   orEmpty(emp.Department),
				Branch:       orEmpty(emp.Branch),
				Status:       string(rec.Status),
				LateMinutes:  rec.LateMinutes,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].EmployeeCode < rows[j].EmployeeCode
	})

	return report.ExceptionReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Rows:        rows,
	}, nil
}

// ExportMonthlyExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyExcel(ctx context.Context, req report.MonthlyReportRequest) ([]byte, string, error) {
	rep, err := s.Monthly(ctx, req)
	if err != nil {
		return nil, "", err
	}

	data, err := export.MonthlyWorkbook(rep)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}
	return data, export.MonthlyFilename(req.Month, req.Year), nil
}

// ExportDailyExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportDailyExcel(ctx context.Context, req report.DailyReportRequest) ([]byte, string, error) {
	rep, err := s.Daily(ctx, req)
	if err != nil {
		return nil, "", err
	}

	data, err := export.DailyWorkbook(rep)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}
	return data, export.DailyFilename(req.Date), nil
}

// ExportRangeExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportRangeExcel(ctx context.Context, req report.RangeReportRequest) ([]byte, string, error) {
	rep, err := s.Range(ctx, req)
	if err != nil {
		return nil, "", err
	}

	data, err := export.RangeWorkbook(rep)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}
	return data, export.RangeFilename(req.StartDate, req.EndDate), nil
}

// loadRange fetches the active roster plus all attendance records in
// [start, end] inclusive, grouped by employee.
func (s *ReportServiceImpl) loadRange(ctx context.Context, start, end time.Time) ([]employee.Employee, map[string][]attendance.AttendanceRecord, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, nil, report.ErrNoEmployees
	}

	records, err := s.AttendanceRepository.ListBetween(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	for _, recs := range records {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	}
	return employees, records, nil
}

func observe(kind string, started time.Time) {
	metrics.ReportDurationSeconds.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// rangeBucket picks the grouping field for the date-range report. An empty
// groupBy means department.
func rangeBucket(emp employee.Employee, groupBy string) string {
	if groupBy == report.GroupByBranch {
		return bucketName(emp.Branch)
	}
	return bucketName(emp.Department)
}

func bucketName(name *string) string {
	if name != nil && *name != "" {
		return *name
	}
	return employee.UngroupedName
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dayCell(rec attendance.AttendanceRecord) report.DayCell {
	return report.DayCell{
		FirstIn:      timeString(rec.FirstIn),
		LastOut:      timeString(rec.LastOut),
		WorkingHours: rec.WorkingHours,
		Status:       string(rec.Status),
	}
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
