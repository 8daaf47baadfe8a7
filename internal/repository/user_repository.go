package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// UserRepository provides access to the users table.
type UserRepository struct {
	store rowstore.Store
	table string
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store rowstore.Store, table string) *UserRepository {
	return &UserRepository{store: store, table: table}
}

// List returns all accounts in stored order.
func (r *UserRepository) List(ctx context.Context) ([]models.UserAccount, error) {
	rows, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return NormalizeUsers(rows), nil
}

// FindByUsername returns the account with the exact (case-sensitive)
// username or sql.ErrNoRows.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

// Create appends an account.
func (r *UserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	user.Position = len(rows)
	rows = append(rows, userToRow(*user))
	if err := r.store.Write(ctx, r.table, UserHeader, rows); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update rewrites the row holding user.Username. sql.ErrNoRows is returned
// when no such row exists.
func (r *UserRepository) Update(ctx context.Context, user models.UserAccount) error {
	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, row := range rows {
		if strings.TrimSpace(row[ColUsername]) == user.Username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return sql.ErrNoRows
	}
	for k, v := range userToRow(user) {
		rows[idx][k] = v
	}
	if err := r.store.Write(ctx, r.table, UserHeader, rows); err != nil {
		return fmt.Errorf("update user %s: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepository) load(ctx context.Context) ([]rowstore.Row, error) {
	raw, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	rows := make([]rowstore.Row, len(raw))
	for i, row := range raw {
		rows[i] = canonicalRow(row, UserHeader)
	}
	return rows, nil
}
