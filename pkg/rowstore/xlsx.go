package rowstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// XLSXStore persists each table as a worksheet of a single workbook. The first
// row of a sheet holds the column headers.
type XLSXStore struct {
	path string
	mu   sync.Mutex
}

// NewXLSXStore returns a store backed by the workbook at path. The file is
// created on first write.
func NewXLSXStore(path string) (*XLSXStore, error) {
	if path == "" {
		return nil, fmt.Errorf("xlsx store path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare workbook directory: %w", err)
	}
	return &XLSXStore{path: path}, nil
}

// Read implements Store.
func (s *XLSXStore) Read(ctx context.Context, table string) ([]Row, error) {
	if table == "" {
		return nil, ErrInvalidTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close() //nolint:errcheck

	sheet := sheetName(table)
	idx, err := file.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %s: %w", sheet, err)
	}
	if idx < 0 {
		return []Row{}, nil
	}

	cells, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return []Row{}, nil
	}

	header := make([]string, len(cells[0]))
	for i, col := range cells[0] {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		if isBlank(line) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(line) {
				row[col] = line[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write implements Store. The sheet is rebuilt under a scratch name and swapped
// in so a failed write leaves the previous contents intact.
func (s *XLSXStore) Write(ctx context.Context, table string, header []string, rows []Row) error {
	if table == "" {
		return ErrInvalidTable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	file, err := excelize.OpenFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("open workbook: %w", err)
		}
		file = excelize.NewFile()
		created = true
	}
	defer file.Close() //nolint:errcheck

	sheet := sheetName(table)
	scratch := sheetName("~" + table)
	if idx, _ := file.GetSheetIndex(scratch); idx >= 0 {
		if err := file.DeleteSheet(scratch); err != nil {
			return fmt.Errorf("drop scratch sheet: %w", err)
		}
	}
	if _, err := file.NewSheet(scratch); err != nil {
		return fmt.Errorf("create sheet %s: %w", scratch, err)
	}

	columns := orderedHeader(header, rows)
	if err := writeLine(file, scratch, 1, columns); err != nil {
		return err
	}
	for i, row := range rows {
		line := make([]string, len(columns))
		for j, col := range columns {
			line[j] = row[col]
		}
		if err := writeLine(file, scratch, i+2, line); err != nil {
			return err
		}
	}

	if idx, _ := file.GetSheetIndex(sheet); idx >= 0 {
		if err := file.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("drop sheet %s: %w", sheet, err)
		}
	}
	if err := file.SetSheetName(scratch, sheet); err != nil {
		return fmt.Errorf("rename sheet %s: %w", sheet, err)
	}
	if created && sheet != "Sheet1" {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	tmp := s.path + ".tmp.xlsx"
	if err := file.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func writeLine(file *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	line := make([]interface{}, len(values))
	for i, v := range values {
		line[i] = v
	}
	if err := file.SetSheetRow(sheet, cell, &line); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

func sheetName(table string) string {
	replacer := strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")
	name := replacer.Replace(table)
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
