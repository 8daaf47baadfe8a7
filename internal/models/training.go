package models

import (
	"strconv"
	"time"
)

// Rating sentinels.
const (
	RatingUnset       = "-"
	RatingUnavailable = "unavailable"
)

// DateLayout is the day-first layout records are persisted and exported with.
const DateLayout = "02/01/2006"

// TrainingRecord is one logged training session. Position is the 0-based row
// index in the records table; ID is a generated identifier used to detect a
// row that moved between read and write.
type TrainingRecord struct {
	Position     int        `json:"position"`
	ID           string     `json:"id,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Employee     string     `json:"employee"`
	Department   string     `json:"department"`
	Leader       string     `json:"leader"`
	Topic        string     `json:"topic"`
	Hours        float64    `json:"hours"`
	PeerRating   string     `json:"peer_rating"`
	LeaderRating string     `json:"leader_rating"`
}

// InMonth reports whether the record is dated within month/year.
func (r TrainingRecord) InMonth(month time.Month, year int) bool {
	return r.Date != nil && r.Date.Month() == month && r.Date.Year() == year
}

// IsRated reports whether a leader has scored the record.
func (r TrainingRecord) IsRated() bool {
	return IsValidRating(r.LeaderRating)
}

// IsValidRating reports whether value is one of "1".."10".
func IsValidRating(value string) bool {
	n, err := strconv.Atoi(value)
	if err != nil || strconv.Itoa(n) != value {
		return false
	}
	return n >= 1 && n <= 10
}

// ValidRatings lists the scores offered in rating pickers.
func ValidRatings() []string {
	out := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// EvaluationStatus narrows listings by leader rating state.
type EvaluationStatus string

const (
	EvaluationAll     EvaluationStatus = "all"
	EvaluationRated   EvaluationStatus = "rated"
	EvaluationPending EvaluationStatus = "pending"
)

// Duration is a training length entered as clock components.
type Duration struct {
	Hours   int `json:"hours" validate:"min=0,max=23"`
	Minutes int `json:"minutes" validate:"min=0,max=59"`
	Seconds int `json:"seconds" validate:"min=0,max=59"`
}

// Decimal converts the duration to decimal hours.
func (d Duration) Decimal() float64 {
	return float64(d.Hours) + float64(d.Minutes)/60 + float64(d.Seconds)/3600
}

// CreateRecordRequest registers a training for the authenticated user.
type CreateRecordRequest struct {
	Topic      string   `json:"topic" validate:"required"`
	Date       string   `json:"date"`
	Duration   Duration `json:"duration"`
	Leader     string   `json:"leader" validate:"required"`
	PeerRating string   `json:"peer_rating" validate:"required,oneof=1 2 3 4 5 6 7 8 9 10"`
}

// UpdateRecordRequest edits a record in place. Nil fields are left unchanged.
type UpdateRecordRequest struct {
	RecordID     string    `json:"record_id"`
	Topic        *string   `json:"topic" validate:"omitempty,min=1"`
	Duration     *Duration `json:"duration"`
	PeerRating   *string   `json:"peer_rating" validate:"omitempty,oneof=1 2 3 4 5 6 7 8 9 10"`
	LeaderRating *string   `json:"leader_rating" validate:"omitempty,oneof=- 1 2 3 4 5 6 7 8 9 10"`
}

// DeleteRecordRequest optionally pins the id expected at the addressed position.
type DeleteRecordRequest struct {
	RecordID string `json:"record_id" form:"record_id"`
}
