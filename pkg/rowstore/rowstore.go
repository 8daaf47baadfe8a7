// Package rowstore models a spreadsheet-like backing store: named tables made
// of ordered rows, each row a mapping of column name to cell text. Writes
// replace the whole table; there is no partial update.
package rowstore

import (
	"context"
	"errors"
	"sort"
)

// Row is a single table row keyed by column header.
type Row map[string]string

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store reads and replaces whole tables.
type Store interface {
	// Read returns the rows of table in stored order. A missing table reads as empty.
	Read(ctx context.Context, table string) ([]Row, error)
	// Write replaces the contents of table. header fixes the column order for
	// backends that keep one.
	Write(ctx context.Context, table string, header []string, rows []Row) error
}

// ErrInvalidTable is returned for empty table names.
var ErrInvalidTable = errors.New("rowstore: table name required")

// Append reads table, adds row at the end and writes the table back.
func Append(ctx context.Context, s Store, table string, header []string, row Row) (int, error) {
	rows, err := s.Read(ctx, table)
	if err != nil {
		return 0, err
	}
	rows = append(rows, row)
	if err := s.Write(ctx, table, header, rows); err != nil {
		return 0, err
	}
	return len(rows) - 1, nil
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}

// orderedHeader returns header extended with any column present in rows but
// missing from header, in first-seen order.
func orderedHeader(header []string, rows []Row) []string {
	seen := make(map[string]struct{}, len(header))
	out := make([]string, 0, len(header))
	for _, col := range header {
		if _, ok := seen[col]; ok || col == "" {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	for _, row := range rows {
		extra := make([]string, 0)
		for col := range row {
			if _, ok := seen[col]; !ok && col != "" {
				extra = append(extra, col)
			}
		}
		sort.Strings(extra)
		for _, col := range extra {
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	return out
}
