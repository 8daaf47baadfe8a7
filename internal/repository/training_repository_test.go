package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

const recordsTable = "Training Records"

func newTrainingRepo(t *testing.T, rows ...rowstore.Row) (*TrainingRepository, *rowstore.MemoryStore) {
	t.Helper()
	store := rowstore.NewMemoryStore()
	require.NoError(t, store.Write(context.Background(), recordsTable, nil, rows))
	return NewTrainingRepository(store, recordsTable), store
}

func TestTrainingRepositoryAppendAssignsIDAndPosition(t *testing.T) {
	repo, _ := newTrainingRepo(t, rowstore.Row{"Data": "01/05/2024", "Funcionário": "ana", "Horas": "2"})
	ctx := context.Background()

	date := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	rec := &models.TrainingRecord{Date: &date, Employee: "bruno", Topic: "Go", Hours: 1.5, PeerRating: "8", LeaderRating: "-"}
	require.NoError(t, repo.Append(ctx, rec))
	assert.Equal(t, 1, rec.Position)
	assert.NotEmpty(t, rec.ID)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ana", records[0].Employee)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, rec.ID, records[1].ID)
	assert.Equal(t, "03/05/2024", records[1].Date.Format(models.DateLayout))
	assert.Equal(t, 1.5, records[1].Hours)
}

func TestTrainingRepositoryReplaceKeepsUnparsedDate(t *testing.T) {
	repo, store := newTrainingRepo(t, rowstore.Row{"ID": "r1", "Date": "someday", "Employee": "ana", "Topic": "Go", "Hours": "1"})
	ctx := context.Background()

	records, err := repo.List(ctx)
	require.NoError(t, err)
	rec := records[0]
	rec.Topic = "Rust"
	require.NoError(t, repo.Replace(ctx, 0, rec))

	rows, err := store.Read(ctx, recordsTable)
	require.NoError(t, err)
	assert.Equal(t, "someday", rows[0][ColDate])
	assert.Equal(t, "Rust", rows[0][ColTopic])
	assert.Equal(t, "r1", rows[0][ColID])
}

func TestTrainingRepositoryOutOfRange(t *testing.T) {
	repo, _ := newTrainingRepo(t)
	ctx := context.Background()
	assert.ErrorIs(t, repo.Replace(ctx, 0, models.TrainingRecord{}), sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, -1), sql.ErrNoRows)
}

func TestTrainingRepositoryDeleteShiftsRows(t *testing.T) {
	repo, _ := newTrainingRepo(t,
		rowstore.Row{"ID": "a", "Employee": "ana"},
		rowstore.Row{"ID": "b", "Employee": "bruno"},
		rowstore.Row{"ID": "c", "Employee": "carla"},
	)
	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, 1))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[1].ID)
	assert.Equal(t, 1, records[1].Position)
}
