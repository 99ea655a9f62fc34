package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/dashboard"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
)

// trendDays is the trailing window length of the attendance-rate series,
// today included.
const trendDays = 7

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employee.EmployeeRepository

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewDashboardService(
	dashboardRepo dashboard.DashboardRepository,
	employeeRepo employee.EmployeeRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: dashboardRepo,
		EmployeeRepository:  employeeRepo,
		now:                 time.Now,
	}
}

// GetStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*dashboard.StatsResponse, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	trendStart := today.AddDate(0, 0, -(trendDays - 1))

	var total, active int64
	var todayCounts dashboard.StatusCounts
	var trendCounts map[string]dashboard.StatusCounts

	// The three aggregates are independent; fetch them concurrently.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		total, active, err = s.EmployeeRepository.CountAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		todayCounts, err = s.DashboardRepository.GetStatusCountsByDate(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to count today's attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		trendCounts, err = s.DashboardRepository.GetStatusCountsBetween(gCtx, trendStart, today)
		if err != nil {
			return fmt.Errorf("failed to load attendance trend: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Absent is derived from the roster, not stored rows: intraday most
	// employees who haven't shown up have no record yet, so counting stored
	// Absent rows would report zero until the nightly recalculation.
	presentToday := todayCounts.PresentLike()
	absentToday := active - presentToday
	if absentToday < 0 {
		absentToday = 0
	}

	trend := make([]dashboard.TrendPoint, 0, trendDays)
	for d := trendStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		counts := trendCounts[key]
		trend = append(trend, dashboard.TrendPoint{
			Date:           key,
			Present:        counts.PresentLike(),
			AttendanceRate: attendanceRate(counts.PresentLike(), active),
		})
	}

	return &dashboard.StatsResponse{
		Counts: dashboard.CountsResponse{
			TotalEmployees:  total,
			ActiveEmployees: active,
		},
		Today: dashboard.TodayResponse{
			Date:           today.Format("2006-01-02"),
			Present:        presentToday,
			Absent:         absentToday,
			Late:           todayCounts.Late,
			AttendanceRate: attendanceRate(presentToday, active),
		},
		Trend:       trend,
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

// attendanceRate is present over active headcount as a percentage rounded
// to one decimal. Zero when there is nobody to attend.
func attendanceRate(present, active int64) float64 {
	if active == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(active)*1000) / 10
}
