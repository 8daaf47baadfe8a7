// Package policy decides which training records a principal may see, which
// fields they may change and which values are masked from them. Every rule is
// a pure predicate over the principal's role tags, department and record
// ownership; nothing is cached between calls.
package policy

import (
	"github.com/noah-isme/training-hours-api/internal/models"
)

// DefaultBoardDepartment is the department treated as the board.
const DefaultBoardDepartment = "Diretoria"

// Access is the edit level a principal holds over a record.
type Access int

const (
	AccessNone Access = iota
	// AccessEvaluationOnly allows changing the leader rating only.
	AccessEvaluationOnly
	AccessFull
)

func (a Access) String() string {
	switch a {
	case AccessFull:
		return "full"
	case AccessEvaluationOnly:
		return "evaluationOnly"
	default:
		return "none"
	}
}

// ScopeFilter narrows a visible scope. Empty fields do not filter.
type ScopeFilter struct {
	Department string
	Employees  []string
	Status     models.EvaluationStatus
}

// Policy evaluates authorization rules.
type Policy struct {
	boardDepartment   string
	boardIsManagement bool
}

// New builds a policy. boardIsManagement decides whether board members may
// evaluate and rate records the way managers do.
func New(boardDepartment string, boardIsManagement bool) *Policy {
	if boardDepartment == "" {
		boardDepartment = DefaultBoardDepartment
	}
	return &Policy{boardDepartment: boardDepartment, boardIsManagement: boardIsManagement}
}

// BoardDepartment returns the configured board department.
func (p *Policy) BoardDepartment() string { return p.boardDepartment }

// IsBoard reports whether the principal sits in the board department.
func (p *Policy) IsBoard(pr models.Principal) bool {
	return pr.Department != "" && pr.Department == p.boardDepartment
}

// IsManagement reports Manager or Admin. It gates dashboard group filters and
// quota compliance.
func (p *Policy) IsManagement(pr models.Principal) bool {
	return pr.Roles.Has(models.RoleManager) || pr.Roles.Has(models.RoleAdmin)
}

// SeesAllDepartments reports Admin or board membership.
func (p *Policy) SeesAllDepartments(pr models.Principal) bool {
	return pr.Roles.Has(models.RoleAdmin) || p.IsBoard(pr)
}

// ShowsLeaderRating reports whether the leader rating column is displayed.
func (p *Policy) ShowsLeaderRating(pr models.Principal) bool {
	return p.IsManagement(pr) || p.IsBoard(pr)
}

// CanAdminister reports Admin or Editor.
func (p *Policy) CanAdminister(pr models.Principal) bool {
	return pr.Roles.Has(models.RoleAdmin) || pr.Roles.Has(models.RoleEditor)
}

func (p *Policy) evaluates(pr models.Principal) bool {
	return pr.Roles.Has(models.RoleManager) || (p.boardIsManagement && p.IsBoard(pr))
}

func owns(pr models.Principal, rec models.TrainingRecord) bool {
	return rec.Employee == pr.Username
}

// CanSee reports whether rec lies in the principal's unfiltered scope.
func (p *Policy) CanSee(pr models.Principal, rec models.TrainingRecord) bool {
	switch {
	case p.SeesAllDepartments(pr):
		return true
	case pr.Roles.Has(models.RoleManager):
		return rec.Department == pr.Department || owns(pr, rec)
	default:
		return owns(pr, rec)
	}
}

// VisibleScope returns the records the principal may see, narrowed by filter.
// The department filter only applies to principals who see all departments.
func (p *Policy) VisibleScope(pr models.Principal, records []models.TrainingRecord, filter ScopeFilter) []models.TrainingRecord {
	employees := make(map[string]struct{}, len(filter.Employees))
	for _, e := range filter.Employees {
		employees[e] = struct{}{}
	}
	department := ""
	if p.SeesAllDepartments(pr) {
		department = filter.Department
	}

	out := make([]models.TrainingRecord, 0, len(records))
	for _, rec := range records {
		if !p.CanSee(pr, rec) {
			continue
		}
		if department != "" && rec.Department != department {
			continue
		}
		if len(employees) > 0 {
			if _, ok := employees[rec.Employee]; !ok {
				continue
			}
		}
		if !matchesStatus(rec, filter.Status) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesStatus(rec models.TrainingRecord, status models.EvaluationStatus) bool {
	switch status {
	case models.EvaluationRated:
		return rec.IsRated()
	case models.EvaluationPending:
		return !rec.IsRated()
	default:
		return true
	}
}

// CanEdit returns the edit level over rec. Owners and admins get full access;
// managers and (when configured) board members may evaluate records of others
// they can see.
func (p *Policy) CanEdit(pr models.Principal, rec models.TrainingRecord) Access {
	if owns(pr, rec) || pr.Roles.Has(models.RoleAdmin) {
		return AccessFull
	}
	if p.evaluates(pr) && p.CanSee(pr, rec) {
		return AccessEvaluationOnly
	}
	return AccessNone
}

// CanRateAsLeader reports whether the principal may set the leader rating of
// rec. Nobody rates their own record.
func (p *Policy) CanRateAsLeader(pr models.Principal, rec models.TrainingRecord) bool {
	if owns(pr, rec) {
		return false
	}
	if pr.Roles.Has(models.RoleAdmin) {
		return true
	}
	return p.evaluates(pr) && p.CanSee(pr, rec)
}

// CanDelete is CanEdit == AccessFull.
func (p *Policy) CanDelete(pr models.Principal, rec models.TrainingRecord) bool {
	return p.CanEdit(pr, rec) == AccessFull
}

// MaskLeaderRating returns the leader rating as the principal may see it.
func (p *Policy) MaskLeaderRating(pr models.Principal, rec models.TrainingRecord) string {
	if owns(pr, rec) && !pr.Roles.Has(models.RoleAdmin) {
		return models.RatingUnavailable
	}
	return rec.LeaderRating
}

// Mask returns copies of records with leader ratings masked for pr.
func (p *Policy) Mask(pr models.Principal, records []models.TrainingRecord) []models.TrainingRecord {
	out := make([]models.TrainingRecord, len(records))
	for i, rec := range records {
		rec.LeaderRating = p.MaskLeaderRating(pr, rec)
		out[i] = rec
	}
	return out
}
