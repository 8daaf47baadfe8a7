package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// TrainingRepository reads and writes the training records table.
type TrainingRepository struct {
	store rowstore.Store
	table string
}

// NewTrainingRepository creates a repository over table.
func NewTrainingRepository(store rowstore.Store, table string) *TrainingRepository {
	return &TrainingRepository{store: store, table: table}
}

// List returns every record in stored order.
func (r *TrainingRepository) List(ctx context.Context) ([]models.TrainingRecord, error) {
	rows, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("list training records: %w", err)
	}
	return NormalizeRecords(rows), nil
}

// Append stores a new record at the end of the table, assigning its ID and
// position.
func (r *TrainingRepository) Append(ctx context.Context, record *models.TrainingRecord) error {
	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Position = len(rows)
	rows = append(rows, recordToRow(*record))
	if err := r.store.Write(ctx, r.table, RecordHeader, rows); err != nil {
		return fmt.Errorf("append training record: %w", err)
	}
	return nil
}

// Replace overwrites the record at position. sql.ErrNoRows is returned when
// the position is out of range.
func (r *TrainingRepository) Replace(ctx context.Context, position int, record models.TrainingRecord) error {
	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(rows) {
		return sql.ErrNoRows
	}
	updated := rows[position]
	replacement := recordToRow(record)
	if record.Date == nil {
		// keep the stored text of dates that failed to parse
		delete(replacement, ColDate)
	}
	for k, v := range replacement {
		updated[k] = v
	}
	if updated[ColID] == "" {
		updated[ColID] = uuid.NewString()
	}
	rows[position] = updated
	if err := r.store.Write(ctx, r.table, RecordHeader, rows); err != nil {
		return fmt.Errorf("replace training record %d: %w", position, err)
	}
	return nil
}

// Delete removes the record at position, shifting later rows up.
func (r *TrainingRepository) Delete(ctx context.Context, position int) error {
	rows, err := r.load(ctx)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(rows) {
		return sql.ErrNoRows
	}
	rows = append(rows[:position], rows[position+1:]...)
	if err := r.store.Write(ctx, r.table, RecordHeader, rows); err != nil {
		return fmt.Errorf("delete training record %d: %w", position, err)
	}
	return nil
}

// load reads raw rows and migrates them to canonical headers. Rows written
// before ids existed receive one so later edits can be pinned.
func (r *TrainingRepository) load(ctx context.Context) ([]rowstore.Row, error) {
	raw, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("read training records: %w", err)
	}
	rows := make([]rowstore.Row, len(raw))
	for i, row := range raw {
		rows[i] = canonicalRow(row, RecordHeader)
		if rows[i][ColID] == "" {
			rows[i][ColID] = uuid.NewString()
		}
	}
	return rows, nil
}
