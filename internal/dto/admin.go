package dto

import "github.com/noah-isme/training-hours-api/internal/models"

// InactivityAlertView is a rendered inactivity alert.
type InactivityAlertView struct {
	Username string `json:"username"`
	Kind     string `json:"kind"`
	Days     int    `json:"days,omitempty"`
	Message  string `json:"message"`
}

// InactivityResponse lists alerts; Engaged is true when nobody is flagged.
type InactivityResponse struct {
	Alerts  []InactivityAlertView `json:"alerts"`
	Engaged bool                  `json:"engaged"`
}

// UserView is a user account without its password.
type UserView struct {
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	Department string   `json:"department"`
}

// NewUserView converts an account for listing.
func NewUserView(u models.UserAccount) UserView {
	return UserView{Username: u.Username, Roles: u.Roles.Strings(), Department: u.Department}
}

// MeResponse describes the session user and the sections they can open.
type MeResponse struct {
	User         UserView     `json:"user"`
	Menu         []string     `json:"menu"`
	Capabilities Capabilities `json:"capabilities"`
}

// Capabilities are the coarse role gates the client needs for layout.
type Capabilities struct {
	Management        bool `json:"management"`
	Board             bool `json:"board"`
	AllDepartments    bool `json:"allDepartments"`
	ShowsLeaderRating bool `json:"showsLeaderRating"`
	Administer        bool `json:"administer"`
}

// OptionsResponse lists the values offered by form pickers.
type OptionsResponse struct {
	Departments []string `json:"departments"`
	Leaders     []string `json:"leaders"`
	Ratings     []string `json:"ratings"`
	Months      []string `json:"months"`
	Roles       []string `json:"roles"`
	QuotaHours  float64  `json:"quotaHours"`
}
