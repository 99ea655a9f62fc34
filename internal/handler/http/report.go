package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/report"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Daily Attendance Report
	GetDailyReport(w http.ResponseWriter, r *http.Request)

	// Monthly Attendance Report
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// Date-Range Attendance Report
	GetRangeReport(w http.ResponseWriter, r *http.Request)

	// Exception Report
	GetExceptionReport(w http.ResponseWriter, r *http.Request)

	// Excel Exports
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)
	ExportDailyReport(w http.ResponseWriter, r *http.Request)
	ExportRangeReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailyReport handles GET /reports/daily
func (h *reportHandlerImpl) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	req := report.DailyReportRequest{
		Date: r.URL.Query().Get("date"),
	}

	result, err := h.reportService.Daily(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := monthlyRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.Monthly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRangeReport handles GET /reports/range
func (h *reportHandlerImpl) GetRangeReport(w http.ResponseWriter, r *http.Request) {
	req := report.RangeReportRequest{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		GroupBy:   r.URL.Query().Get("groupBy"),
	}

	result, err := h.reportService.Range(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetExceptionReport handles GET /reports/exceptions
func (h *reportHandlerImpl) GetExceptionReport(w http.ResponseWriter, r *http.Request) {
	req := report.ExceptionReportRequest{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}
	if statuses := r.URL.Query().Get("statuses"); statuses != "" {
		req.Statuses = strings.Split(statuses, ",")
	}

	result, err := h.reportService.Exceptions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyReport handles GET /reports/monthly/export
func (h *reportHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := monthlyRequest(w, r)
	if !ok {
		return
	}

	data, filename, err := h.reportService.ExportMonthlyExcel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeWorkbook(w, data, filename)
}

// ExportDailyReport handles GET /reports/daily/export
func (h *reportHandlerImpl) ExportDailyReport(w http.ResponseWriter, r *http.Request) {
	req := report.DailyReportRequest{
		Date: r.URL.Query().Get("date"),
	}

	data, filename, err := h.reportService.ExportDailyExcel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeWorkbook(w, data, filename)
}

// ExportRangeReport handles GET /reports/range/export
func (h *reportHandlerImpl) ExportRangeReport(w http.ResponseWriter, r *http.Request) {
	req := report.RangeReportRequest{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		GroupBy:   r.URL.Query().Get("groupBy"),
	}

	data, filename, err := h.reportService.ExportRangeExcel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeWorkbook(w, data, filename)
}

func writeWorkbook(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func monthlyRequest(w http.ResponseWriter, r *http.Request) (report.MonthlyReportRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	return report.MonthlyReportRequest{Month: month, Year: year}, true
}
