// Package metrics aggregates training records into dashboard figures. All
// functions are pure; sums run left to right in the order records are given.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/noah-isme/training-hours-api/internal/models"
)

// Defaults applied when an Engine is built with zero values.
const (
	DefaultQuotaHours     = 7.0
	DefaultInactivityDays = 15
	DefaultSeriesMonths   = 6
)

// StatusBand classifies progress against a quota.
type StatusBand string

const (
	BandCritical StatusBand = "critical"
	BandWarning  StatusBand = "warning"
	BandOnTrack  StatusBand = "onTrack"
)

// DashboardMetrics summarises a group's hours for one month.
type DashboardMetrics struct {
	TotalHours  float64    `json:"total_hours"`
	Quota       float64    `json:"quota"`
	ProgressPct float64    `json:"progress_pct"`
	StatusBand  StatusBand `json:"status_band"`
}

// ComplianceEntry is one user's monthly total.
type ComplianceEntry struct {
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	Remaining float64 `json:"remaining"`
}

// Compliance partitions users by whether they met the individual quota.
type Compliance struct {
	Met     []ComplianceEntry `json:"met"`
	Pending []ComplianceEntry `json:"pending"`
}

// AlertKind distinguishes inactivity alerts.
type AlertKind string

const (
	AlertNoRecords AlertKind = "no_records"
	AlertInactive  AlertKind = "inactive"
)

// InactivityAlert flags a user without recent training.
type InactivityAlert struct {
	Username string    `json:"username"`
	Kind     AlertKind `json:"kind"`
	Days     int       `json:"days,omitempty"`
}

// Engine carries the configurable thresholds.
type Engine struct {
	quotaHours     float64
	inactivityDays int
}

// NewEngine builds an engine; non-positive arguments fall back to defaults.
func NewEngine(quotaHours float64, inactivityDays int) *Engine {
	if quotaHours <= 0 {
		quotaHours = DefaultQuotaHours
	}
	if inactivityDays <= 0 {
		inactivityDays = DefaultInactivityDays
	}
	return &Engine{quotaHours: quotaHours, inactivityDays: inactivityDays}
}

// QuotaHours returns the individual monthly quota.
func (e *Engine) QuotaHours() float64 { return e.quotaHours }

// GroupQuota scales the individual quota by headcount, counting at least one.
func (e *Engine) GroupQuota(headcount int) float64 {
	if headcount < 1 {
		headcount = 1
	}
	return e.quotaHours * float64(headcount)
}

// ComputeDashboard totals the hours of targetUsers dated in month/year.
func (e *Engine) ComputeDashboard(records []models.TrainingRecord, targetUsers []string, month time.Month, year int) DashboardMetrics {
	targets := toSet(targetUsers)
	total := 0.0
	for _, rec := range records {
		if _, ok := targets[rec.Employee]; !ok || !rec.InMonth(month, year) {
			continue
		}
		total += rec.Hours
	}
	quota := e.GroupQuota(len(targetUsers))
	progress := 0.0
	if quota > 0 {
		progress = math.Min(100, total/quota*100)
	}
	return DashboardMetrics{
		TotalHours:  total,
		Quota:       quota,
		ProgressPct: progress,
		StatusBand:  StatusBandFor(total, quota),
	}
}

// StatusBandFor is critical below 40% of quota, warning below quota and on
// track otherwise.
func StatusBandFor(total, quota float64) StatusBand {
	switch {
	case total < 0.4*quota:
		return BandCritical
	case total < quota:
		return BandWarning
	default:
		return BandOnTrack
	}
}

// QuotaCompliance sums monthRecords per user, zero-filling users without
// records, and splits them at the individual quota. Output follows the order
// of users.
func (e *Engine) QuotaCompliance(users []string, monthRecords []models.TrainingRecord) Compliance {
	totals := make(map[string]float64, len(users))
	for _, rec := range monthRecords {
		totals[rec.Employee] += rec.Hours
	}
	out := Compliance{Met: []ComplianceEntry{}, Pending: []ComplianceEntry{}}
	seen := make(map[string]struct{}, len(users))
	for _, user := range users {
		if _, dup := seen[user]; dup {
			continue
		}
		seen[user] = struct{}{}
		total := totals[user]
		entry := ComplianceEntry{Name: user, Total: total, Remaining: math.Max(0, e.quotaHours-total)}
		if total >= e.quotaHours {
			out.Met = append(out.Met, entry)
		} else {
			out.Pending = append(out.Pending, entry)
		}
	}
	return out
}

// InactivityAlerts flags users with no dated record and users whose latest
// record is more than the configured number of whole days before asOf.
func (e *Engine) InactivityAlerts(users []string, records []models.TrainingRecord, asOf time.Time) []InactivityAlert {
	latest := make(map[string]time.Time)
	for _, rec := range records {
		if rec.Date == nil {
			continue
		}
		if last, ok := latest[rec.Employee]; !ok || rec.Date.After(last) {
			latest[rec.Employee] = *rec.Date
		}
	}
	// Record dates are calendar days stored at UTC midnight; compare them with
	// the wall clock of asOf, not its instant.
	asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), asOf.Hour(), asOf.Minute(), asOf.Second(), 0, time.UTC)
	alerts := make([]InactivityAlert, 0)
	for _, user := range users {
		last, ok := latest[user]
		if !ok {
			alerts = append(alerts, InactivityAlert{Username: user, Kind: AlertNoRecords})
			continue
		}
		days := int(math.Floor(asOf.Sub(last).Hours() / 24))
		if days > e.inactivityDays {
			alerts = append(alerts, InactivityAlert{Username: user, Kind: AlertInactive, Days: days})
		}
	}
	return alerts
}

// SumHours adds hours left to right.
func SumHours(records []models.TrainingRecord) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.Hours
	}
	return total
}

// RankEntry is an employee's mean leader rating.
type RankEntry struct {
	Employee string  `json:"employee"`
	Mean     float64 `json:"mean"`
	Ratings  int     `json:"ratings"`
}

// Ranking averages numeric leader ratings per employee, best first. Employees
// without any numeric rating are left out; ties keep alphabetical order.
func Ranking(records []models.TrainingRecord) []RankEntry {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		v, ok := numericRating(rec.LeaderRating)
		if !ok {
			continue
		}
		sums[rec.Employee] += v
		counts[rec.Employee]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]RankEntry, 0, len(names))
	for _, name := range names {
		out = append(out, RankEntry{Employee: name, Mean: sums[name] / float64(counts[name]), Ratings: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	return out
}

func numericRating(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MonthBucket is the hours logged in one calendar month.
type MonthBucket struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Hours float64    `json:"hours"`
}

// Label renders the bucket as YYYY-MM.
func (b MonthBucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthlySeries buckets dated records by calendar month over the contiguous
// range from the first to the last dated record, filling gaps with zero, and
// returns the last monthsBack buckets in chronological order.
func MonthlySeries(records []models.TrainingRecord, monthsBack int) []MonthBucket {
	if monthsBack <= 0 {
		monthsBack = DefaultSeriesMonths
	}
	sums := make(map[int]float64)
	first, last := 0, 0
	found := false
	for _, rec := range records {
		if rec.Date == nil {
			continue
		}
		key := monthIndex(rec.Date.Year(), rec.Date.Month())
		sums[key] += rec.Hours
		if !found || key < first {
			first = key
		}
		if !found || key > last {
			last = key
		}
		found = true
	}
	if !found {
		return []MonthBucket{}
	}
	if start := last - monthsBack + 1; start > first {
		first = start
	}
	out := make([]MonthBucket, 0, last-first+1)
	for key := first; key <= last; key++ {
		out = append(out, MonthBucket{Year: key / 12, Month: time.Month(key%12 + 1), Hours: sums[key]})
	}
	return out
}

func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// FormatHMS renders decimal hours as HH:MM:SS. Seconds are rounded half to
// even and a rounded 60 carries into minutes, then hours.
func FormatHMS(hours float64) string {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 0
	}
	h := int(hours)
	fracMinutes := (hours - float64(h)) * 60
	m := int(fracMinutes)
	s := int(math.RoundToEven((fracMinutes - float64(m)) * 60))
	if s == 60 {
		s = 0
		m++
	}
	if m == 60 {
		m = 0
		h++
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// TopicHours is the bar chart datum for one topic and employee.
type TopicHours struct {
	Topic    string  `json:"topic"`
	Employee string  `json:"employee"`
	Hours    float64 `json:"hours"`
}

// TopicBreakdown sums hours per (topic, employee) in first-seen order.
func TopicBreakdown(records []models.TrainingRecord) []TopicHours {
	type key struct{ topic, employee string }
	index := make(map[key]int)
	out := make([]TopicHours, 0)
	for _, rec := range records {
		k := key{rec.Topic, rec.Employee}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, TopicHours{Topic: rec.Topic, Employee: rec.Employee})
		}
		out[i].Hours += rec.Hours
	}
	return out
}

// AchievementSummary is the personal report card.
type AchievementSummary struct {
	Trainings  int     `json:"trainings"`
	TotalHours float64 `json:"total_hours"`
	TopTopic   string  `json:"top_topic"`
}

// Achievements counts trainings, sums hours and picks the most frequent topic,
// breaking ties alphabetically. TopTopic is "-" when there are no records.
func Achievements(records []models.TrainingRecord) AchievementSummary {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Topic]++
	}
	top := models.RatingUnset
	best := 0
	for topic, n := range counts {
		if n > best || (n == best && topic < top) {
			top, best = topic, n
		}
	}
	return AchievementSummary{Trainings: len(records), TotalHours: SumHours(records), TopTopic: top}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
