package service

import (
	"sort"
	"time"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
)

// recordRows renders records for pr: leader ratings masked, the leader rating
// column dropped when pr may not see it, and per-row permissions attached
// when withPermissions is set.
func recordRows(pol *policy.Policy, pr models.Principal, records []models.TrainingRecord, withPermissions bool) []dto.RecordRow {
	showLeader := pol.ShowsLeaderRating(pr)
	out := make([]dto.RecordRow, 0, len(records))
	for _, rec := range records {
		row := dto.RecordRow{
			Position:   rec.Position,
			ID:         rec.ID,
			Date:       formatDate(rec.Date),
			Employee:   rec.Employee,
			Department: rec.Department,
			Leader:     rec.Leader,
			Topic:      rec.Topic,
			Hours:      rec.Hours,
			HoursHMS:   metrics.FormatHMS(rec.Hours),
			PeerRating: rec.PeerRating,
		}
		if showLeader {
			masked := pol.MaskLeaderRating(pr, rec)
			row.LeaderRating = &masked
		}
		if withPermissions {
			row.Permissions = &dto.RecordPermissions{
				Access:          pol.CanEdit(pr, rec).String(),
				CanRateAsLeader: pol.CanRateAsLeader(pr, rec),
				CanDelete:       pol.CanDelete(pr, rec),
			}
		}
		out = append(out, row)
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}

func uniqueEmployees(records []models.TrainingRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		if rec.Employee == "" {
			continue
		}
		if _, ok := seen[rec.Employee]; ok {
			continue
		}
		seen[rec.Employee] = struct{}{}
		out = append(out, rec.Employee)
	}
	sort.Strings(out)
	return out
}

func hasDatedRecord(records []models.TrainingRecord) bool {
	for _, rec := range records {
		if rec.Date != nil {
			return true
		}
	}
	return false
}

// departmentsOf lists the distinct departments found in records, sorted.
func departmentsOf(records []models.TrainingRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		if rec.Department == "" {
			continue
		}
		if _, ok := seen[rec.Department]; ok {
			continue
		}
		seen[rec.Department] = struct{}{}
		out = append(out, rec.Department)
	}
	sort.Strings(out)
	return out
}

// departmentChoices prefers the configured department list.
func departmentChoices(configured []string, records []models.TrainingRecord) []string {
	if len(configured) > 0 {
		return append([]string(nil), configured...)
	}
	return departmentsOf(records)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
