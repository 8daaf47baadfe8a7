package service

import (
	"time"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/models"
)

// ConfigurationService exposes the configured pick lists used by forms.
type ConfigurationService struct {
	departments []string
	leaders     []string
	quotaHours  float64
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(departments, leaders []string, quotaHours float64) *ConfigurationService {
	if quotaHours <= 0 {
		quotaHours = metrics.DefaultQuotaHours
	}
	return &ConfigurationService{
		departments: append([]string(nil), departments...),
		leaders:     append([]string(nil), leaders...),
		quotaHours:  quotaHours,
	}
}

// Options returns the form choices.
func (s *ConfigurationService) Options() dto.OptionsResponse {
	months := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m.String())
	}
	roles := make([]string, 0, 4)
	for _, role := range models.KnownRoles() {
		roles = append(roles, string(role))
	}
	return dto.OptionsResponse{
		Departments: nonNil(s.departments),
		Leaders:     nonNil(s.leaders),
		Ratings:     models.ValidRatings(),
		Months:      months,
		Roles:       roles,
		QuotaHours:  s.quotaHours,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
