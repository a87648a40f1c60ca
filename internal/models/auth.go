package models

import "github.com/golang-jwt/jwt/v5"

// Token subject kinds
const (
	SubjectStudent = "student"
	SubjectStaff   = "staff"
)

// TokenClaims are the JWT claims carried by session tokens issued after a
// successful login.
type TokenClaims struct {
	Subject string `json:"sub_type"` // "student" or "staff"
	UserID  string `json:"user_id"`
	Role    string `json:"role,omitempty"` // staff only
	jwt.RegisteredClaims
}
