package models

// Role is a permission tag held by a user. A user holds a set of tags.
type Role string

const (
	RoleCommon  Role = "Common"
	RoleManager Role = "Manager"
	RoleEditor  Role = "Editor"
	RoleAdmin   Role = "Admin"
)

// KnownRoles lists every assignable tag in display order.
func KnownRoles() []Role {
	return []Role{RoleCommon, RoleManager, RoleEditor, RoleAdmin}
}

// IsKnownRole reports whether r is an assignable tag.
func IsKnownRole(r Role) bool {
	for _, known := range KnownRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// RoleSet is the ordered, duplicate-free tag list of a user.
type RoleSet []Role

// Has reports whether the set contains role.
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Strings returns the tags as plain strings.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// UserAccount is a row of the users table. Password holds whatever is
// persisted: plaintext or a bcrypt hash.
type UserAccount struct {
	Position   int     `json:"-"`
	Username   string  `json:"username"`
	Password   string  `json:"-"`
	Roles      RoleSet `json:"roles"`
	Department string  `json:"department"`
}

// Principal is the acting user a request is evaluated against.
type Principal struct {
	Username   string  `json:"username"`
	Roles      RoleSet `json:"roles"`
	Department string  `json:"department"`
}

// Principal returns the authorization view of the account.
func (u UserAccount) Principal() Principal {
	return Principal{Username: u.Username, Roles: u.Roles, Department: u.Department}
}

// CreateUserRequest is submitted from the admin panel.
type CreateUserRequest struct {
	Username   string   `json:"username" validate:"required"`
	Password   string   `json:"password" validate:"required"`
	Roles      []string `json:"roles"`
	Department string   `json:"department" validate:"required"`
}

// UpdateUserRequest edits password, roles and department. Nil fields are kept.
type UpdateUserRequest struct {
	Password   *string  `json:"password" validate:"omitempty,min=1"`
	Roles      []string `json:"roles"`
	Department *string  `json:"department" validate:"omitempty,min=1"`
}
