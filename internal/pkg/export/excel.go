// Package export renders reports as downloadable spreadsheet workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/report"
)

// statusMarks are the single-letter day cells in the monthly sheet.
var statusMarks = map[string]string{
	"Present":         "P",
	"Late":            "L",
	"HalfDay":         "H",
	"ShiftIncomplete": "I",
	"Absent":          "A",
}

// MonthlyWorkbook renders a monthly report as an .xlsx: one row per
// employee, one letter-coded column per day, summary columns at the end.
func MonthlyWorkbook(rep report.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	daysInMonth := time.Date(rep.Year, time.Month(rep.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	headers := []string{"Code", "Name", "Department"}
	for d := 1; d <= daysInMonth; d++ {
		headers = append(headers, fmt.Sprintf("%d", d))
	}
	headers = append(headers, "Present", "Absent", "Late", "Hours")

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i, emp := range rep.Employees {
		row := i + 2
		values := []interface{}{emp.EmployeeCode, emp.EmployeeName, emp.Department}

		for d := 1; d <= daysInMonth; d++ {
			if d > len(emp.DailyData) {
				values = append(values, "")
				continue
			}
			values = append(values, statusMarks[emp.DailyData[d-1].Status])
		}

		values = append(values,
			emp.Summary.PresentDays,
			emp.Summary.AbsentDays,
			emp.Summary.LateDays,
			emp.Summary.TotalWorkingHours,
		)

		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	// Widen the name column; day columns stay narrow.
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// MonthlyFilename suggests a download name for the workbook.
func MonthlyFilename(month, year int) string {
	return fmt.Sprintf("attendance-%04d-%02d.xlsx", year, month)
}

// DailyWorkbook renders a daily report as a flat .xlsx: one row per
// employee with punch times and status spelled out.
func DailyWorkbook(rep report.DailyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []interface{}{"Code", "Name", "Department", "Branch", "First In", "Last Out", "Hours", "Late Min", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, row := range rep.Rows {
		values := []interface{}{
			row.EmployeeCode,
			row.EmployeeName,
			row.Department,
			row.Branch,
			clockTime(row.FirstIn),
			clockTime(row.LastOut),
			hoursCell(row.WorkingHours),
			row.LateMinutes,
			row.Status,
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "D", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DailyFilename suggests a download name for the daily workbook.
func DailyFilename(date string) string {
	return fmt.Sprintf("attendance-daily-%s.xlsx", date)
}

// RangeWorkbook renders a date-range report as a flat .xlsx: one row per
// employee per date, grouped rows in report order.
func RangeWorkbook(rep report.RangeReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []interface{}{"Code", "Name", "Department", "Branch", "Date", "First In", "Last Out", "Hours", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	row := 2
	for _, group := range rep.Groups {
		for _, emp := range group.Employees {
			for _, d := range rep.Dates {
				cell := emp.Days[d.Date]
				values := []interface{}{
					emp.EmployeeCode,
					emp.EmployeeName,
					emp.Department,
					emp.Branch,
					d.Date,
					clockTime(cell.FirstIn),
					clockTime(cell.LastOut),
					hoursCell(cell.WorkingHours),
					cell.Status,
				}
				start, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetSheetRow(sheet, start, &values); err != nil {
					return nil, fmt.Errorf("failed to write row %d: %w", row, err)
				}
				row++
			}
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RangeFilename suggests a download name for the date-range workbook.
func RangeFilename(startDate, endDate string) string {
	return fmt.Sprintf("attendance-%s_%s.xlsx", startDate, endDate)
}

// clockTime shortens an RFC 3339 instant to HH:MM for the sheet.
func clockTime(ts *string) string {
	if ts == nil {
		return ""
	}
	t, err := time.Parse(time.RFC3339, *ts)
	if err != nil {
		return *ts
	}
	return t.Format("15:04")
}

func hoursCell(hours *float64) interface{} {
	if hours == nil {
		return ""
	}
	return *hours
}
