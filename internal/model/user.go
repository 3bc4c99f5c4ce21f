package model

import "time"

// User represents an account record as stored in the `users` table. Email and
// username each carry a unique index; the database is the authority for
// uniqueness so that concurrent registrations cannot both succeed. The
// password hash is excluded from JSON so it can never leak through a response
// body.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address, stored lowercase.
//	Username     – unique username, 3–50 alphanumeric characters.
//	FirstName    – given name.
//	LastName     – family name.
//	PasswordHash – bcrypt hashed password, never empty once set.
//	IsActive     – whether the account is active; inactive accounts are
//	               rejected by every authenticated code path.
//	IsAdmin      – whether the account has admin privileges.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update (nil until first update).
type User struct {
	ID           uint64     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
