package domain

import "time"

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

// Permission codenames checked by permission-gated endpoints.
const (
	PermAddBook    = "catalog.add_book"
	PermChangeBook = "catalog.change_book"
	PermDeleteBook = "catalog.delete_book"
	PermViewBook   = "catalog.view_book"
)

var AllPermissions = []string{PermAddBook, PermChangeBook, PermDeleteBook, PermViewBook}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// ValidPermission reports whether p is a known permission codename.
func ValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// User is the single account model; email is the login identifier.
type User struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Bio            string     `json:"bio"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicture string     `json:"profile_picture"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	IsStaff        bool       `json:"is_staff"`
	IsSuperuser    bool       `json:"is_superuser"`
	IsActive       bool       `json:"is_active"`
	Permissions    []string   `json:"permissions"`
	DateJoined     time.Time  `json:"date_joined"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserSummary is the compact user view embedded in other resources.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Principal is the authenticated caller as seen by services.
type Principal struct {
	UserID      uint
	Username    string
	Email       string
	Role        string
	IsStaff     bool
	IsSuperuser bool
	Permissions []string
}

func (p *Principal) HasPerm(codename string) bool {
	if p == nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	for _, perm := range p.Permissions {
		if perm == codename {
			return true
		}
	}
	return false
}
