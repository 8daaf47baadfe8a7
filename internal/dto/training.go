package dto

// RecordRow is a training record as displayed in history tables and exports.
type RecordRow struct {
	Position     int                `json:"position"`
	ID           string             `json:"id,omitempty"`
	Date         string             `json:"date"`
	Employee     string             `json:"employee"`
	Department   string             `json:"department"`
	Leader       string             `json:"leader"`
	Topic        string             `json:"topic"`
	Hours        float64            `json:"hours"`
	HoursHMS     string             `json:"hoursHms"`
	PeerRating   string             `json:"peerRating"`
	LeaderRating *string            `json:"leaderRating,omitempty"`
	Permissions  *RecordPermissions `json:"permissions,omitempty"`
}

// RecordPermissions tells the client which controls to enable for a row.
type RecordPermissions struct {
	Access          string `json:"access"`
	CanRateAsLeader bool   `json:"canRateAsLeader"`
	CanDelete       bool   `json:"canDelete"`
}

// RecordListResponse wraps the history listing.
type RecordListResponse struct {
	Records           []RecordRow `json:"records"`
	ShowsLeaderRating bool        `json:"showsLeaderRating"`
}
