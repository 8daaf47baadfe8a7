package dto

import "github.com/noah-isme/training-hours-api/internal/metrics"

// DashboardResponse is the monthly dashboard payload.
type DashboardResponse struct {
	Title       string                   `json:"title"`
	Month       int                      `json:"month"`
	Year        int                      `json:"year"`
	Empty       bool                     `json:"empty"`
	TargetUsers []string                 `json:"targetUsers"`
	Metrics     metrics.DashboardMetrics `json:"metrics"`
	TotalHMS    string                   `json:"totalHms"`
	QuotaHMS    string                   `json:"quotaHms"`
	StatusLabel string                   `json:"statusLabel"`
	Topics      []metrics.TopicHours     `json:"topics"`
	Compliance  *ComplianceView          `json:"compliance,omitempty"`
	History     RecordListResponse       `json:"history"`
	Filters     DashboardFilters         `json:"filters"`
}

// DashboardFilters lists the choices the principal may filter by.
type DashboardFilters struct {
	Enabled     bool     `json:"enabled"`
	Departments []string `json:"departments,omitempty"`
	Employees   []string `json:"employees"`
}

// ComplianceView splits the team at the individual quota.
type ComplianceView struct {
	Met     []ComplianceRow `json:"met"`
	Pending []ComplianceRow `json:"pending"`
}

// ComplianceRow is one user's monthly total.
type ComplianceRow struct {
	Name         string  `json:"name"`
	Total        float64 `json:"total"`
	TotalHMS     string  `json:"totalHms"`
	Remaining    float64 `json:"remaining"`
	RemainingHMS string  `json:"remainingHms"`
}
