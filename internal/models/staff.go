package models

import "time"

// Staff roles
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Staff represents a teacher or admin account with a conventional
// email+password credential.
type Staff struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DisplayName  string    `db:"display_name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
