package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

const usersTable = "Users"

func newUserRepo(t *testing.T, rows ...rowstore.Row) *UserRepository {
	t.Helper()
	store := rowstore.NewMemoryStore()
	require.NoError(t, store.Write(context.Background(), usersTable, nil, rows))
	return NewUserRepository(store, usersTable)
}

func TestFindByUsernameIsCaseSensitive(t *testing.T) {
	repo := newUserRepo(t, rowstore.Row{"usuario": "Ana", "senha": "1", "perfil": "['Comum']", "setor": "Fiscal"})
	ctx := context.Background()

	user, err := repo.FindByUsername(ctx, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Fiscal", user.Department)

	_, err = repo.FindByUsername(ctx, "ana")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryCreateAndUpdate(t *testing.T) {
	repo := newUserRepo(t, rowstore.Row{"usuario": "ana", "senha": "1", "perfil": "['Comum']", "setor": "Fiscal"})
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.UserAccount{Username: "bruno", Password: "2", Roles: models.RoleSet{models.RoleManager}, Department: "T.I."}))

	ana, err := repo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	ana.Password = "new"
	ana.Roles = models.RoleSet{models.RoleAdmin}
	require.NoError(t, repo.Update(ctx, *ana))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "new", users[0].Password)
	assert.True(t, users[0].Roles.Has(models.RoleAdmin))
	assert.Equal(t, "bruno", users[1].Username)
	assert.True(t, users[1].Roles.Has(models.RoleManager))

	assert.ErrorIs(t, repo.Update(ctx, models.UserAccount{Username: "ghost"}), sql.ErrNoRows)
}
