package attendance

import (
	"time"
)

// Direction of a single time-clock punch.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// PunchEvent is one immutable clock event pushed by a device or entered
// manually. Timestamp is an absolute instant; the local calendar day it
// belongs to is derived from the employee's shift policy, not from UTC.
type PunchEvent struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	Direction  Direction
	Source     *string
	CreatedAt  time.Time
}

// Status of one attendance day.
type Status string

const (
	StatusAbsent          Status = "Absent"
	StatusPresent         Status = "Present"
	StatusLate            Status = "Late"
	StatusHalfDay         Status = "HalfDay"
	StatusShiftIncomplete Status = "ShiftIncomplete"
)

// IsPresentLike reports whether a status counts toward "present" buckets.
// ShiftIncomplete is present-like: the employee showed up, the shift just
// isn't closed out. Every aggregate (reports, dashboard, payroll) must go
// through this predicate instead of re-listing the status set.
func IsPresentLike(s Status) bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusShiftIncomplete:
		return true
	}
	return false
}

// ShiftPolicy is the expected shift window and grace rules for one employee.
// Clock times are offsets from local midnight in the policy's zone.
type ShiftPolicy struct {
	EmployeeID       string
	Timezone         string
	ExpectedStart    time.Duration
	ExpectedEnd      time.Duration
	GraceMinutes     int
	BreakMinutes     int
	HalfDayThreshold float64 // hours
}

// CrossesMidnight reports whether the shift ends on the next calendar day.
func (p ShiftPolicy) CrossesMidnight() bool {
	return p.ExpectedEnd <= p.ExpectedStart
}

// Location resolves the policy's time zone, falling back to UTC.
func (p ShiftPolicy) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// overnightSlack is how far past a midnight-crossing shift's end a punch may
// land and still attach to the shift's start day.
const overnightSlack = 2 * time.Hour

// DayWindow returns the half-open instant range [start, end) of punches that
// belong to the attendance day `date` under this policy. For day shifts the
// window is the local calendar day. For midnight-crossing shifts the window
// is displaced so that early-morning punches attach to the day the shift
// started on.
func (p ShiftPolicy) DayWindow(date time.Time) (time.Time, time.Time) {
	loc := p.Location()
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	var offset time.Duration
	if p.CrossesMidnight() {
		offset = p.ExpectedEnd + overnightSlack
	}

	start := midnight.Add(offset)
	return start, start.Add(24 * time.Hour)
}

// DayFor returns the attendance day (midnight UTC) a punch instant belongs
// to under this policy. Inverse of DayWindow.
func (p ShiftPolicy) DayFor(ts time.Time) time.Time {
	local := ts.In(p.Location())
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	if p.CrossesMidnight() {
		sinceMidnight := time.Duration(local.Hour())*time.Hour +
			time.Duration(local.Minute())*time.Minute +
			time.Duration(local.Second())*time.Second
		if sinceMidnight < p.ExpectedEnd+overnightSlack {
			day = day.AddDate(0, 0, -1)
		}
	}
	return day
}

// ShiftStart returns the instant the shift is expected to begin on `date`.
func (p ShiftPolicy) ShiftStart(date time.Time) time.Time {
	loc := p.Location()
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(p.ExpectedStart)
}

// AttendanceRecord is the derived per-employee per-day attendance row.
// It is produced whole by the classifier and replaced, never patched.
type AttendanceRecord struct {
	ID           string
	EmployeeID   string
	Date         time.Time // calendar day, midnight UTC
	FirstIn      *time.Time
	LastOut      *time.Time
	WorkingHours *float64
	TotalPunches int
	LateMinutes  int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Same reports whether two records are materially equal: same status, punch
// ends and working hours. Recalculation uses this to decide whether a row
// actually changed — identity and timestamps are ignored.
func (r AttendanceRecord) Same(other AttendanceRecord) bool {
	if r.Status != other.Status {
		return false
	}
	if !timePtrEqual(r.FirstIn, other.FirstIn) || !timePtrEqual(r.LastOut, other.LastOut) {
		return false
	}
	return floatPtrEqual(r.WorkingHours, other.WorkingHours)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Stored precision is two decimals; compare at that grain.
	return int64(*a*100+0.5) == int64(*b*100+0.5)
}
