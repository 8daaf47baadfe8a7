package rowstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS row_store (
	table_name TEXT NOT NULL,
	position INTEGER NOT NULL,
	data JSONB NOT NULL,
	PRIMARY KEY (table_name, position)
)`

// PostgresStore keeps every table in a single row_store relation, one JSONB
// document per row ordered by position.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing relation when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure row_store schema: %w", err)
	}
	return nil
}

// Read implements Store.
func (s *PostgresStore) Read(ctx context.Context, table string) ([]Row, error) {
	if table == "" {
		return nil, ErrInvalidTable
	}
	const query = `SELECT data FROM row_store WHERE table_name = $1 ORDER BY position`
	var payloads [][]byte
	if err := s.db.SelectContext(ctx, &payloads, query, table); err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	rows := make([]Row, 0, len(payloads))
	for i, payload := range payloads {
		row := Row{}
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", table, i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write implements Store. The table is replaced inside one transaction.
func (s *PostgresStore) Write(ctx context.Context, table string, _ []string, rows []Row) (err error) {
	if table == "" {
		return ErrInvalidTable
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write %s: %w", table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM row_store WHERE table_name = $1`, table); err != nil {
		return fmt.Errorf("clear table %s: %w", table, err)
	}

	const insert = `INSERT INTO row_store (table_name, position, data) VALUES ($1, $2, $3)`
	for i, row := range rows {
		payload, marshalErr := json.Marshal(row)
		if marshalErr != nil {
			err = fmt.Errorf("encode %s row %d: %w", table, i, marshalErr)
			return err
		}
		if _, err = tx.ExecContext(ctx, insert, table, i, payload); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit write %s: %w", table, err)
	}
	return nil
}
