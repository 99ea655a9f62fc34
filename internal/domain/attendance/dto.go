package attendance

import (
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type CreatePunchRequest struct {
	EmployeeID string  `json:"employeeId"`
	Timestamp  string  `json:"timestamp"` // RFC 3339
	Direction  string  `json:"direction"` // IN or OUT
	Source     *string `json:"source,omitempty"`
}

func (r *CreatePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid RFC 3339 datetime",
		})
	}

	if !validator.IsInSlice(r.Direction, []string{string(DirectionIn), string(DirectionOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be one of: IN, OUT",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToEntity converts a validated request into a PunchEvent. Validate must
// have been called first; the timestamp parse cannot fail afterwards.
func (r *CreatePunchRequest) ToEntity() PunchEvent {
	ts, _ := time.Parse(time.RFC3339, r.Timestamp)
	return PunchEvent{
		EmployeeID: r.EmployeeID,
		Timestamp:  ts,
		Direction:  Direction(r.Direction),
		Source:     r.Source,
	}
}

// ========================================
// RECALCULATION DTOs
// ========================================

// maxRecalculateDays caps an explicitly bounded recalculation request to a
// year of days. Unbounded requests span the stored punches instead.
const maxRecalculateDays = 366

// RecalculateRequest narrows a recalculation run. Every field is optional:
// an empty filter recalculates all active employees over the full span of
// stored punches. Dates come as a pair; giving only one is a validation
// error.
type RecalculateRequest struct {
	StartDate   string   `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate     string   `json:"endDate,omitempty"`   // YYYY-MM-DD
	EmployeeIDs []string `json:"employeeIds,omitempty"`
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != "" || r.EndDate != "" {
		start, startOK := validator.IsValidDate(r.StartDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must be in YYYY-MM-DD format",
			})
		}

		end, endOK := validator.IsValidDate(r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be in YYYY-MM-DD format",
			})
		}

		if startOK && endOK {
			if end.Before(start) {
				errs = append(errs, validator.ValidationError{
					Field:   "endDate",
					Message: "endDate must not be before startDate",
				})
			} else if end.Sub(start) > maxRecalculateDays*24*time.Hour {
				errs = append(errs, validator.ValidationError{
					Field:   "endDate",
					Message: "date range must not exceed 366 days",
				})
			}
		}
	}

	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "employeeIds",
				Message: "employeeIds must not contain empty values",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RecalculateResponse summarizes one recalculation run. Total counts every
// employee/day pair in scope; updated counts pairs whose stored record
// materially changed; skipped counts pairs the classifier could not process.
type RecalculateResponse struct {
	Updated int      `json:"updated"`
	Total   int      `json:"total"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ========================================
// QUERY DTOs
// ========================================

type RangeFilter struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"` // YYYY-MM-DD
	EndDate    string `json:"endDate"`   // YYYY-MM-DD
}

func (f *RangeFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employeeId"`
	Date         string   `json:"date"`
	FirstIn      *string  `json:"firstIn"`
	LastOut      *string  `json:"lastOut"`
	WorkingHours *float64 `json:"workingHours"`
	TotalPunches int      `json:"totalPunches"`
	LateMinutes  int      `json:"lateMinutes"`
	Status       string   `json:"status"`
}

func NewAttendanceResponse(rec AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		Date:         rec.Date.Format("2006-01-02"),
		WorkingHours: rec.WorkingHours,
		TotalPunches: rec.TotalPunches,
		LateMinutes:  rec.LateMinutes,
		Status:       string(rec.Status),
	}
	if rec.FirstIn != nil {
		s := rec.FirstIn.Format(time.RFC3339)
		resp.FirstIn = &s
	}
	if rec.LastOut != nil {
		s := rec.LastOut.Format(time.RFC3339)
		resp.LastOut = &s
	}
	return resp
}

type PunchResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Timestamp  string  `json:"timestamp"`
	Direction  string  `json:"direction"`
	Source     *string `json:"source,omitempty"`
}

func NewPunchResponse(p PunchEvent) PunchResponse {
	return PunchResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Timestamp:  p.Timestamp.Format(time.RFC3339),
		Direction:  string(p.Direction),
		Source:     p.Source,
	}
}

// CreatePunchResponse pairs the stored punch with the attendance record
// reclassified as a side effect of the write.
type CreatePunchResponse struct {
	Punch      PunchResponse      `json:"punch"`
	Attendance AttendanceResponse `json:"attendance"`
}
