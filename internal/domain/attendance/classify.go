package attendance

import (
	"math"
	"time"
)

// minPairGap is the smallest first-in/last-out spacing that still counts as
// two distinct punches. Anything closer is treated as a double tap.
const minPairGap = time.Minute

// Classify derives the attendance record for one employee on one calendar
// day from the raw punches and the employee's shift policy. It is pure:
// same inputs, same record. Punches outside the policy's day window are
// ignored, so callers may pass a superset.
func Classify(employeeID string, date time.Time, punches []PunchEvent, policy ShiftPolicy) AttendanceRecord {
	rec := AttendanceRecord{
		EmployeeID: employeeID,
		Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}

	winStart, winEnd := policy.DayWindow(date)

	inWindow := make([]PunchEvent, 0, len(punches))
	for _, p := range punches {
		if !p.Timestamp.Before(winStart) && p.Timestamp.Before(winEnd) {
			inWindow = append(inWindow, p)
		}
	}

	rec.TotalPunches = len(inWindow)
	if len(inWindow) == 0 {
		rec.Status = StatusAbsent
		return rec
	}

	// Ends are direction-aware: the day opens at the earliest IN and closes
	// at the latest OUT strictly after it. An OUT before any IN is a stray
	// tap and never anchors the day. A day with punches but no IN at all
	// has no usable pair and stays ShiftIncomplete.
	var firstIn, lastOut time.Time
	for _, p := range inWindow {
		switch p.Direction {
		case DirectionIn:
			if firstIn.IsZero() || p.Timestamp.Before(firstIn) {
				firstIn = p.Timestamp
			}
		case DirectionOut:
			if p.Timestamp.After(lastOut) {
				lastOut = p.Timestamp
			}
		}
	}
	if firstIn.IsZero() {
		rec.Status = StatusShiftIncomplete
		return rec
	}

	rec.FirstIn = &firstIn
	rec.LateMinutes = lateMinutes(firstIn, policy.ShiftStart(date))

	if lastOut.Sub(firstIn) < minPairGap {
		// No OUT after the IN (or only a double tap): the shift was opened
		// but never closed.
		rec.Status = StatusShiftIncomplete
		return rec
	}
	rec.LastOut = &lastOut

	hours := workedHours(firstIn, lastOut, policy.BreakMinutes)
	rec.WorkingHours = &hours

	switch {
	case hours < policy.HalfDayThreshold:
		rec.Status = StatusHalfDay
	case rec.LateMinutes > policy.GraceMinutes:
		rec.Status = StatusLate
	default:
		rec.Status = StatusPresent
	}
	return rec
}

func lateMinutes(firstIn, shiftStart time.Time) int {
	d := firstIn.Sub(shiftStart)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

func workedHours(firstIn, lastOut time.Time, breakMinutes int) float64 {
	span := lastOut.Sub(firstIn) - time.Duration(breakMinutes)*time.Minute
	if span < 0 {
		span = 0
	}
	return math.Round(span.Hours()*100) / 100
}
