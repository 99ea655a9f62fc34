package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/payroll"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

// Upsert implements payroll.PayrollRepository.
func (p *payrollRepository) Upsert(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, p.db)

	// The conditional update leaves paid rows untouched; a regeneration that
	// hits one returns no row.
	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year, working_days, present_days,
			late_minutes, total_working_hours, base_salary, daily_rate,
			gross_pay, late_deduction, net_pay, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			present_days = EXCLUDED.present_days,
			late_minutes = EXCLUDED.late_minutes,
			total_working_hours = EXCLUDED.total_working_hours,
			base_salary = EXCLUDED.base_salary,
			daily_rate = EXCLUDED.daily_rate,
			gross_pay = EXCLUDED.gross_pay,
			late_deduction = EXCLUDED.late_deduction,
			net_pay = EXCLUDED.net_pay,
			updated_at = now()
		WHERE payroll_records.status = 'draft'
		RETURNING id, status, paid_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.PeriodMonth,
		record.PeriodYear,
		record.WorkingDays,
		record.PresentDays,
		record.LateMinutes,
		record.TotalWorkingHours,
		record.BaseSalary,
		record.DailyRate,
		record.GrossPay,
		record.LateDeduction,
		record.NetPay,
		payroll.PayrollStatusDraft,
	).Scan(&record.ID, &record.Status, &record.PaidAt, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return record, nil
}

// ListByPeriod implements payroll.PayrollRepository.
func (p *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT pr.id, pr.employee_id, pr.period_month, pr.period_year,
			   pr.working_days, pr.present_days, pr.late_minutes,
			   pr.total_working_hours, pr.base_salary, pr.daily_rate,
			   pr.gross_pay, pr.late_deduction, pr.net_pay, pr.status,
			   pr.paid_at, pr.created_at, pr.updated_at,
			   e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.period_month = $1
		  AND pr.period_year = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
			&rec.WorkingDays, &rec.PresentDays, &rec.LateMinutes,
			&rec.TotalWorkingHours, &rec.BaseSalary, &rec.DailyRate,
			&rec.GrossPay, &rec.LateDeduction, &rec.NetPay, &rec.Status,
			&rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll records: %w", err)
	}

	return records, nil
}

// MarkPaid implements payroll.PayrollRepository.
func (p *payrollRepository) MarkPaid(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = now(), updated_at = now()
		WHERE id = ANY($1)
		  AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payroll records paid: %w", err)
	}

	return tag.RowsAffected(), nil
}

// GetAttendanceSummary implements payroll.PayrollRepository.
func (p *payrollRepository) GetAttendanceSummary(ctx context.Context, month, year int, employeeIDs []string) ([]payroll.AttendanceSummary, error) {
	q := GetQuerier(ctx, p.db)

	// Present-like statuses feed the day count; the late and hours sums
	// cover all rows of the period.
	query := `
		SELECT employee_id,
			   count(*) FILTER (WHERE status IN ('Present', 'Late', 'HalfDay', 'ShiftIncomplete')),
			   coalesce(sum(late_minutes), 0),
			   coalesce(sum(working_hours), 0)
		FROM attendance_records
		WHERE date_part('month', date) = $1
		  AND date_part('year', date) = $2
		  AND ($3::text[] IS NULL OR employee_id = ANY($3))
		GROUP BY employee_id
	`

	var idsArg interface{}
	if len(employeeIDs) > 0 {
		idsArg = employeeIDs
	}

	rows, err := q.Query(ctx, query, month, year, idsArg)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance summary: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.AttendanceSummary
	for rows.Next() {
		var s payroll.AttendanceSummary
		if err := rows.Scan(&s.EmployeeID, &s.PresentDays, &s.LateMinutes, &s.TotalWorkingHours); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance summaries: %w", err)
	}

	return summaries, nil
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}
