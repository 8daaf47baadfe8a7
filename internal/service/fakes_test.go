package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/noah-isme/training-hours-api/internal/models"
)

type mockUserRepo struct {
	users     []models.UserAccount
	listErr   error
	updateErr error
	updates   int
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.UserAccount, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.UserAccount(nil), m.users...), nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.UserAccount) error {
	user.Position = len(m.users)
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user models.UserAccount) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, u := range m.users {
		if u.Username == user.Username {
			m.users[i] = user
			m.updates++
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockTrainingRepo struct {
	records []models.TrainingRecord
	listErr error
	writes  int
}

func (m *mockTrainingRepo) List(ctx context.Context) ([]models.TrainingRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.TrainingRecord, len(m.records))
	for i, rec := range m.records {
		rec.Position = i
		out[i] = rec
	}
	return out, nil
}

func (m *mockTrainingRepo) Append(ctx context.Context, record *models.TrainingRecord) error {
	record.Position = len(m.records)
	if record.ID == "" {
		record.ID = "generated"
	}
	m.records = append(m.records, *record)
	m.writes++
	return nil
}

func (m *mockTrainingRepo) Replace(ctx context.Context, position int, record models.TrainingRecord) error {
	if position < 0 || position >= len(m.records) {
		return sql.ErrNoRows
	}
	m.records[position] = record
	m.writes++
	return nil
}

func (m *mockTrainingRepo) Delete(ctx context.Context, position int) error {
	if position < 0 || position >= len(m.records) {
		return sql.ErrNoRows
	}
	m.records = append(m.records[:position], m.records[position+1:]...)
	m.writes++
	return nil
}

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func principal(username, department string, roles ...models.Role) models.Principal {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleCommon}
	}
	return models.Principal{Username: username, Roles: models.RoleSet(roles), Department: department}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
