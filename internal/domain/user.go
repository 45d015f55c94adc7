package domain

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleOwner  UserRole = "owner"
	UserRoleRenter UserRole = "renter"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleOwner || r == UserRoleRenter
}

type User struct {
	ID        int32     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	Role      UserRole  `json:"role"`
	Blocked   bool      `json:"blocked"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the user may act on the marketplace.
func (u *User) IsActive() bool {
	return !u.Blocked && !u.Deleted
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Identity is what a verified bearer token asserts about its holder.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
	// RequestedRole is honoured only when the profile is first created and
	// never grants admin.
	RequestedRole UserRole
}
