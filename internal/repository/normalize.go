package repository

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// Canonical column headers of the records table.
const (
	ColID           = "ID"
	ColDate         = "Date"
	ColEmployee     = "Employee"
	ColDepartment   = "Department"
	ColLeader       = "Leader"
	ColTopic        = "Topic"
	ColHours        = "Hours"
	ColPeerRating   = "PeerRating"
	ColLeaderRating = "LeaderRating"
)

// Canonical column headers of the users table.
const (
	ColUsername       = "username"
	ColPassword       = "password"
	ColRoles          = "roles"
	ColUserDepartment = "department"
)

// RecordHeader is the column order written to the records table.
var RecordHeader = []string{ColID, ColDate, ColEmployee, ColDepartment, ColLeader, ColTopic, ColHours, ColPeerRating, ColLeaderRating}

// UserHeader is the column order written to the users table.
var UserHeader = []string{ColUsername, ColPassword, ColRoles, ColUserDepartment}

// legacyColumns maps each canonical header to the headers older workbooks used.
var legacyColumns = map[string][]string{
	ColDate:           {"Data"},
	ColEmployee:       {"Funcionário", "Funcionario"},
	ColDepartment:     {"Setor"},
	ColLeader:         {"Líder", "Lider"},
	ColTopic:          {"Tema"},
	ColHours:          {"Horas"},
	ColPeerRating:     {"Avaliação", "Avaliacao"},
	ColLeaderRating:   {"Nota_Lider"},
	ColUsername:       {"usuario"},
	ColPassword:       {"senha"},
	ColRoles:          {"perfil"},
	ColUserDepartment: {"setor"},
}

var roleAliases = map[string]models.Role{
	"common":  models.RoleCommon,
	"comum":   models.RoleCommon,
	"manager": models.RoleManager,
	"gestor":  models.RoleManager,
	"editor":  models.RoleEditor,
	"admin":   models.RoleAdmin,
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// cell returns the trimmed value of a canonical column, falling back to
// legacy headers when the canonical cell is blank.
func cell(row rowstore.Row, column string) string {
	return strings.TrimSpace(rawCell(row, column))
}

// rawCell is cell without trimming; passwords are compared byte for byte.
func rawCell(row rowstore.Row, column string) string {
	if v := row[column]; strings.TrimSpace(v) != "" {
		return v
	}
	for _, alias := range legacyColumns[column] {
		if v := row[alias]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// canonicalRow rewrites legacy headers to their canonical names, keeping the
// stored text and any unrelated columns untouched.
func canonicalRow(row rowstore.Row, header []string) rowstore.Row {
	legacy := make(map[string]struct{})
	for _, col := range header {
		for _, alias := range legacyColumns[col] {
			legacy[alias] = struct{}{}
		}
	}
	out := make(rowstore.Row, len(row))
	for k, v := range row {
		if _, ok := legacy[k]; !ok {
			out[k] = v
		}
	}
	for _, col := range header {
		out[col] = rawCell(row, col)
	}
	return out
}

// NormalizeRecords converts raw rows into training records. Malformed cells
// degrade to defaults; the function never fails.
func NormalizeRecords(rows []rowstore.Row) []models.TrainingRecord {
	out := make([]models.TrainingRecord, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.TrainingRecord{
			Position:     i,
			ID:           cell(row, ColID),
			Date:         ParseDate(cell(row, ColDate)),
			Employee:     cell(row, ColEmployee),
			Department:   cell(row, ColDepartment),
			Leader:       cell(row, ColLeader),
			Topic:        cell(row, ColTopic),
			Hours:        ParseHours(cell(row, ColHours)),
			PeerRating:   NormalizeRating(cell(row, ColPeerRating)),
			LeaderRating: NormalizeRating(cell(row, ColLeaderRating)),
		})
	}
	return out
}

// NormalizeUsers converts raw rows into user accounts. Rows without a
// username are skipped.
func NormalizeUsers(rows []rowstore.Row) []models.UserAccount {
	out := make([]models.UserAccount, 0, len(rows))
	for i, row := range rows {
		username := cell(row, ColUsername)
		if username == "" {
			continue
		}
		out = append(out, models.UserAccount{
			Position:   i,
			Username:   username,
			Password:   rawCell(row, ColPassword),
			Roles:      ParseRoles(cell(row, ColRoles)),
			Department: cell(row, ColUserDepartment),
		})
	}
	return out
}

// ParseDate reads a day-first date. Spreadsheet serial numbers are accepted.
// Unparseable input yields nil.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= 1 && serial <= 2958465 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// ParseHours reads a decimal hour count. Comma decimal separators are
// accepted; anything non-numeric or negative becomes 0.
func ParseHours(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}

// NormalizeRating maps empty markers to "-" and strips a trailing ".0".
func NormalizeRating(raw string) string {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "nan", "None", "nan.0", models.RatingUnset:
		return models.RatingUnset
	}
	return strings.TrimSuffix(raw, ".0")
}

// ParseRoles accepts a list literal like "['Common', 'Manager']", a comma
// separated list or a single tag. Unknown tags are dropped; an empty result
// becomes {Common}.
func ParseRoles(raw string) models.RoleSet {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	set := models.RoleSet{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.Trim(strings.TrimSpace(part), `'"`))
		role, ok := roleAliases[tag]
		if !ok || set.Has(role) {
			continue
		}
		set = append(set, role)
	}
	if len(set) == 0 {
		return models.RoleSet{models.RoleCommon}
	}
	return set
}

// FormatRoles renders roles as the list literal stored in the users table.
func FormatRoles(roles models.RoleSet) string {
	quoted := make([]string, len(roles))
	for i, r := range roles {
		quoted[i] = "'" + string(r) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func recordToRow(r models.TrainingRecord) rowstore.Row {
	date := ""
	if r.Date != nil {
		date = r.Date.Format(models.DateLayout)
	}
	return rowstore.Row{
		ColID:           r.ID,
		ColDate:         date,
		ColEmployee:     r.Employee,
		ColDepartment:   r.Department,
		ColLeader:       r.Leader,
		ColTopic:        r.Topic,
		ColHours:        strconv.FormatFloat(r.Hours, 'f', -1, 64),
		ColPeerRating:   r.PeerRating,
		ColLeaderRating: r.LeaderRating,
	}
}

func userToRow(u models.UserAccount) rowstore.Row {
	return rowstore.Row{
		ColUsername:       u.Username,
		ColPassword:       u.Password,
		ColRoles:          FormatRoles(u.Roles),
		ColUserDepartment: u.Department,
	}
}

// RoleFromString resolves a role tag or one of its legacy aliases.
func RoleFromString(raw string) (models.Role, bool) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return role, ok
}
