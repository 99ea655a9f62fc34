package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/clockwise-hr/attendance-backend-go/internal/handler/http"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockwise-hr/attendance-backend-go/internal/service/attendance"
	dashboardService "github.com/clockwise-hr/attendance-backend-go/internal/service/dashboard"
	payrollService "github.com/clockwise-hr/attendance-backend-go/internal/service/payroll"
	reportService "github.com/clockwise-hr/attendance-backend-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	lateDeduction, err := decimal.NewFromString(cfg.Payroll.LateDeductionPerMinute)
	if err != nil {
		return fmt.Errorf("invalid PAYROLL_LATE_DEDUCTION_PER_MINUTE: %w", err)
	}

	punchRepo := postgresql.NewPunchRepository(db)
	shiftPolicyRepo := postgresql.NewShiftPolicyRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.DeviceTokenDuration)

	attendanceSvc := attendanceService.NewAttendanceService(db, punchRepo, shiftPolicyRepo, attendanceRepo, employeeRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, lateDeduction)

	deviceHandler := appHTTP.NewDeviceHandler(jwtService, cfg.JWT.EnrollmentKey)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		jwtService,
		deviceHandler,
		attendanceHandler,
		reportHandler,
		dashboardHandler,
		payrollHandler,
	)

	scheduler := cron.NewScheduler()
	recalcJobs := cron.NewRecalculationJobs(attendanceSvc, cfg.Attendance.RecalcLookback)
	recalcJobs.RegisterJobs(scheduler, cron.DailyTime{
		Hour:   cfg.Attendance.RecalcHour,
		Minute: cfg.Attendance.RecalcMinute,
	})
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "port", cfg.App.Port, "env", cfg.App.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
