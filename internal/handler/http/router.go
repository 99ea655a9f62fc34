package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/metrics"
)

func NewRouter(
	env string,
	jwtService jwt.Service,
	deviceHandler DeviceHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	dashboardHandler DashboardHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "clockwise-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.CountRequests)

	r.Method("GET", "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/devices/enroll", deviceHandler.Enroll)

		// Punch ingestion requires a device token.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.DeviceRequired(jwtService.JWTAuth()))

			r.Post("/punches", attendanceHandler.CreatePunch)
		})

		r.Route("/employees/{employeeID}/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListEmployeeRange)
			r.Get("/{date}", attendanceHandler.GetDay)
		})

		r.Post("/attendance/recalculate", attendanceHandler.Recalculate)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily", reportHandler.GetDailyReport)
			r.Get("/daily/export", reportHandler.ExportDailyReport)
			r.Get("/monthly", reportHandler.GetMonthlyReport)
			r.Get("/monthly/export", reportHandler.ExportMonthlyReport)
			r.Get("/range", reportHandler.GetRangeReport)
			r.Get("/range/export", reportHandler.ExportRangeReport)
			r.Get("/exceptions", reportHandler.GetExceptionReport)
		})

		r.Get("/dashboard", dashboardHandler.GetStats)

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", payrollHandler.ListByPeriod)
			r.Post("/generate", payrollHandler.Generate)
			r.Post("/mark-paid", payrollHandler.MarkPaid)
		})
	})
	return r
}
