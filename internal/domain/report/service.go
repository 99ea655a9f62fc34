package report

import (
	"context"
)

// ReportService builds attendance reports over stored records. All reports
// order groups and employees by employee code so output is deterministic.
type ReportService interface {
	// Daily covers every active employee for one date, synthesizing Absent
	// rows for employees with no stored record.
	Daily(ctx context.Context, req DailyReportRequest) (DailyReport, error)

	// Monthly builds the per-employee day matrix and summary for one month.
	Monthly(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// Range builds the print matrix over an inclusive date range.
	Range(ctx context.Context, req RangeReportRequest) (RangeReport, error)

	// Exceptions lists the non-Present days in a range, optionally narrowed
	// to a status subset.
	Exceptions(ctx context.Context, req ExceptionReportRequest) (ExceptionReport, error)

	// ExportMonthlyExcel renders the monthly report as an .xlsx workbook and
	// returns its bytes with a suggested filename.
	ExportMonthlyExcel(ctx context.Context, req MonthlyReportRequest) ([]byte, string, error)

	// ExportDailyExcel renders the daily report as a flat .xlsx.
	ExportDailyExcel(ctx context.Context, req DailyReportRequest) ([]byte, string, error)

	// ExportRangeExcel renders the date-range report as a flat .xlsx, one
	// row per employee per date.
	ExportRangeExcel(ctx context.Context, req RangeReportRequest) ([]byte, string, error)
}
