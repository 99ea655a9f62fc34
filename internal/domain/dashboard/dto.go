package dashboard

// ========== COMBINED DASHBOARD ==========

// StatsResponse is the combined payload for the main dashboard endpoint.
type StatsResponse struct {
	Counts      CountsResponse `json:"counts"`
	Today       TodayResponse  `json:"today"`
	Trend       []TrendPoint   `json:"trend"`
	GeneratedAt string         `json:"generatedAt"`
}

// ========== HEADCOUNT ==========

type CountsResponse struct {
	TotalEmployees  int64 `json:"totalEmployees"`
	ActiveEmployees int64 `json:"activeEmployees"`
}

// ========== TODAY ==========

// TodayResponse summarizes today's attendance. Present counts present-like
// statuses; AttendanceRate is present over active headcount as a percentage
// rounded to one decimal, zero when there are no active employees.
type TodayResponse struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	Late           int64   `json:"late"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// ========== TREND ==========

// TrendPoint is one day of the trailing attendance-rate series.
type TrendPoint struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Present        int64   `json:"present"`
	AttendanceRate float64 `json:"attendanceRate"`
}
