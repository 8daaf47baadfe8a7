package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/models"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

func newUserService(repo *mockUserRepo, hash bool) *UserService {
	return NewUserService(repo, validator.New(), zap.NewNop(), UserServiceConfig{
		Departments:   []string{"IT", "Sales", "Diretoria"},
		HashPasswords: hash,
	})
}

func TestUserServiceCreate(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, false)

	view, err := svc.Create(context.Background(), models.CreateUserRequest{Username: " carla ", Password: "pw", Roles: []string{"Manager", "Gestor"}, Department: "IT"})
	require.NoError(t, err)
	assert.Equal(t, "carla", view.Username)
	assert.Equal(t, []string{"Manager"}, view.Roles)
	require.Len(t, repo.users, 1)
	assert.Equal(t, "pw", repo.users[0].Password)
}

func TestUserServiceCreateDefaultsToCommon(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, true)

	view, err := svc.Create(context.Background(), models.CreateUserRequest{Username: "dan", Password: "pw", Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Common"}, view.Roles)
	assert.True(t, isBcryptHash(repo.users[0].Password))
}

func TestUserServiceCreateRejects(t *testing.T) {
	repo := &mockUserRepo{users: []models.UserAccount{{Username: "dan", Password: "pw"}}}
	svc := newUserService(repo, false)

	cases := []struct {
		name string
		req  models.CreateUserRequest
		want *appErrors.Error
	}{
		{"empty username", models.CreateUserRequest{Username: " ", Password: "pw", Department: "IT"}, appErrors.ErrValidation},
		{"empty password", models.CreateUserRequest{Username: "eva", Department: "IT"}, appErrors.ErrValidation},
		{"unknown department", models.CreateUserRequest{Username: "eva", Password: "pw", Department: "Nowhere"}, appErrors.ErrValidation},
		{"unknown role", models.CreateUserRequest{Username: "eva", Password: "pw", Department: "IT", Roles: []string{"Root"}}, appErrors.ErrValidation},
		{"duplicate", models.CreateUserRequest{Username: "dan", Password: "pw", Department: "IT"}, appErrors.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.True(t, appErrors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Len(t, repo.users, 1)
}

func TestUserServiceUpdate(t *testing.T) {
	repo := &mockUserRepo{users: []models.UserAccount{{Username: "dan", Password: "pw", Roles: models.RoleSet{models.RoleCommon}, Department: "IT"}}}
	svc := newUserService(repo, false)

	dept := "Sales"
	pw := "new"
	view, err := svc.Update(context.Background(), "dan", models.UpdateUserRequest{Password: &pw, Roles: []string{"Editor", "Admin"}, Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, []string{"Editor", "Admin"}, view.Roles)
	assert.Equal(t, "Sales", repo.users[0].Department)
	assert.Equal(t, "new", repo.users[0].Password)

	_, err = svc.Update(context.Background(), "ghost", models.UpdateUserRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestUserServiceList(t *testing.T) {
	repo := &mockUserRepo{users: []models.UserAccount{{Username: "dan", Password: "secret", Roles: models.RoleSet{models.RoleCommon}, Department: "IT"}}}
	svc := newUserService(repo, false)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "dan", views[0].Username)
}

func TestUserServiceEnsureBootstrapAdmin(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserService(repo, false)

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "root", "pw", "IT")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, repo.users[0].Roles.Has(models.RoleAdmin))

	created, err = svc.EnsureBootstrapAdmin(context.Background(), "root2", "pw", "IT")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)
}
