package dto

// ReportResponse is the performance report payload.
type ReportResponse struct {
	Series       []SeriesPoint     `json:"series"`
	Filters      ReportFilters     `json:"filters"`
	Records      []RecordRow       `json:"records"`
	Ranking      []RankingRow      `json:"ranking,omitempty"`
	Achievements *AchievementsView `json:"achievements,omitempty"`
}

// SeriesPoint is one month of the team evolution chart.
type SeriesPoint struct {
	Label    string  `json:"label"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Hours    float64 `json:"hours"`
	HoursHMS string  `json:"hoursHms"`
}

// ReportFilters echoes the applied filters and the available choices.
type ReportFilters struct {
	Department  string   `json:"department,omitempty"`
	Employee    string   `json:"employee,omitempty"`
	Month       int      `json:"month,omitempty"`
	Year        int      `json:"year,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Employees   []string `json:"employees,omitempty"`
}

// RankingRow is a ranked employee.
type RankingRow struct {
	Rank     int     `json:"rank"`
	Employee string  `json:"employee"`
	Mean     float64 `json:"mean"`
	Display  string  `json:"display"`
}

// AchievementsView is the personal report card.
type AchievementsView struct {
	Trainings  int     `json:"trainings"`
	TotalHours float64 `json:"totalHours"`
	TotalHMS   string  `json:"totalHms"`
	TopTopic   string  `json:"topTopic"`
}

// ExportFile is a rendered report download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
