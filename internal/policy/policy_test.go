package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-hours-api/internal/models"
)

func principal(username, department string, roles ...models.Role) models.Principal {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleCommon}
	}
	return models.Principal{Username: username, Department: department, Roles: models.RoleSet(roles)}
}

func record(pos int, employee, department, leaderRating string) models.TrainingRecord {
	return models.TrainingRecord{Position: pos, Employee: employee, Department: department, LeaderRating: leaderRating}
}

var sample = []models.TrainingRecord{
	record(0, "ana", "Fiscal", "8"),
	record(1, "bruno", "Fiscal", "-"),
	record(2, "carla", "T.I.", "10"),
	record(3, "dora", "Diretoria", "-"),
}

func positions(records []models.TrainingRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Position
	}
	return out
}

func TestVisibleScopeByRole(t *testing.T) {
	p := New("", true)

	tests := []struct {
		name   string
		pr     models.Principal
		filter ScopeFilter
		want   []int
	}{
		{"common sees own", principal("ana", "Fiscal"), ScopeFilter{}, []int{0}},
		{"manager sees department", principal("bruno", "Fiscal", models.RoleManager), ScopeFilter{}, []int{0, 1}},
		{"manager ignores department filter", principal("bruno", "Fiscal", models.RoleManager), ScopeFilter{Department: "T.I."}, []int{0, 1}},
		{"admin sees all", principal("zed", "T.I.", models.RoleAdmin), ScopeFilter{}, []int{0, 1, 2, 3}},
		{"admin department filter", principal("zed", "T.I.", models.RoleAdmin), ScopeFilter{Department: "Fiscal"}, []int{0, 1}},
		{"board sees all without tag", principal("dora", "Diretoria"), ScopeFilter{}, []int{0, 1, 2, 3}},
		{"employee multi-select", principal("zed", "T.I.", models.RoleAdmin), ScopeFilter{Employees: []string{"carla", "ana"}}, []int{0, 2}},
		{"rated only", principal("zed", "T.I.", models.RoleAdmin), ScopeFilter{Status: models.EvaluationRated}, []int{0, 2}},
		{"pending only", principal("bruno", "Fiscal", models.RoleManager), ScopeFilter{Status: models.EvaluationPending}, []int{1}},
		{"editor is not management", principal("ana", "Fiscal", models.RoleEditor), ScopeFilter{}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positions(p.VisibleScope(tt.pr, sample, tt.filter)))
		})
	}
}

func TestCanEdit(t *testing.T) {
	p := New("Diretoria", true)

	assert.Equal(t, AccessFull, p.CanEdit(principal("ana", "Fiscal"), sample[0]))
	assert.Equal(t, AccessNone, p.CanEdit(principal("ana", "Fiscal"), sample[1]))
	assert.Equal(t, AccessFull, p.CanEdit(principal("zed", "T.I.", models.RoleAdmin), sample[1]))
	assert.Equal(t, AccessEvaluationOnly, p.CanEdit(principal("bruno", "Fiscal", models.RoleManager), sample[0]))
	assert.Equal(t, AccessNone, p.CanEdit(principal("bruno", "Fiscal", models.RoleManager), sample[2]))
	assert.Equal(t, AccessEvaluationOnly, p.CanEdit(principal("dora", "Diretoria"), sample[2]))
	assert.Equal(t, AccessFull, p.CanEdit(principal("dora", "Diretoria", models.RoleManager), sample[3]))
}

func TestBoardPrecedenceIsConfigurable(t *testing.T) {
	board := principal("dora", "Diretoria")
	strict := New("Diretoria", false)

	assert.Len(t, strict.VisibleScope(board, sample, ScopeFilter{}), 4)
	assert.Equal(t, AccessNone, strict.CanEdit(board, sample[0]))
	assert.False(t, strict.CanRateAsLeader(board, sample[0]))
	assert.True(t, strict.ShowsLeaderRating(board))
}

func TestCanRateAsLeaderExcludesOwnRecord(t *testing.T) {
	p := New("", true)
	manager := principal("bruno", "Fiscal", models.RoleManager, models.RoleAdmin)

	assert.False(t, p.CanRateAsLeader(manager, sample[1]))
	assert.True(t, p.CanRateAsLeader(manager, sample[0]))
	assert.True(t, p.CanRateAsLeader(principal("dora", "Diretoria"), sample[0]))
	assert.False(t, p.CanRateAsLeader(principal("ana", "Fiscal"), sample[1]))
}

func TestCanDeleteRequiresFullAccess(t *testing.T) {
	p := New("", true)
	assert.True(t, p.CanDelete(principal("ana", "Fiscal"), sample[0]))
	assert.False(t, p.CanDelete(principal("bruno", "Fiscal", models.RoleManager), sample[0]))
	assert.True(t, p.CanDelete(principal("zed", "T.I.", models.RoleAdmin), sample[0]))
}

func TestMaskLeaderRating(t *testing.T) {
	p := New("", true)
	own := record(0, "A", "Fiscal", "9")

	assert.Equal(t, models.RatingUnavailable, p.MaskLeaderRating(principal("A", "Fiscal"), own))
	assert.Equal(t, "9", p.MaskLeaderRating(principal("Z", "T.I.", models.RoleAdmin), own))
	assert.Equal(t, "9", p.MaskLeaderRating(principal("A", "Fiscal", models.RoleAdmin), own))

	masked := p.Mask(principal("A", "Fiscal"), []models.TrainingRecord{own})
	assert.Equal(t, models.RatingUnavailable, masked[0].LeaderRating)
	assert.Equal(t, "9", own.LeaderRating)
}

func TestRoleGates(t *testing.T) {
	p := New("", true)

	assert.True(t, p.IsManagement(principal("m", "Fiscal", models.RoleManager)))
	assert.False(t, p.IsManagement(principal("d", "Diretoria")))
	assert.True(t, p.ShowsLeaderRating(principal("d", "Diretoria")))
	assert.False(t, p.ShowsLeaderRating(principal("c", "Fiscal", models.RoleEditor)))
	assert.True(t, p.CanAdminister(principal("e", "Fiscal", models.RoleEditor)))
	assert.False(t, p.CanAdminister(principal("m", "Fiscal", models.RoleManager)))
	assert.Equal(t, "evaluationOnly", AccessEvaluationOnly.String())
}
