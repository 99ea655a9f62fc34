package payroll

import "context"

// PayrollService generates and manages attendance-fed payroll records.
type PayrollService interface {
	// Generate builds one draft record per active employee for the period,
	// prorating gross pay by present-like days. Employees without a base
	// salary are skipped and counted.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	// ListByPeriod returns the period's records with the net pay total.
	ListByPeriod(ctx context.Context, filter PeriodFilter) (ListPayrollResponse, error)

	// MarkPaid finalizes draft records.
	MarkPaid(ctx context.Context, req MarkPaidRequest) (MarkPaidResponse, error)
}
