package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// TokenManager issues and validates the session JWTs handed out after a
// successful login.
type TokenManager struct {
	secret        string
	studentExpiry time.Duration
	staffExpiry   time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secret string, studentExpiry, staffExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        secret,
		studentExpiry: studentExpiry,
		staffExpiry:   staffExpiry,
	}
}

// GenerateStudentToken creates a session token for an authenticated student.
func (tm *TokenManager) GenerateStudentToken(studentID string) (string, error) {
	return tm.generate(models.SubjectStudent, studentID, "", tm.studentExpiry)
}

// GenerateStaffToken creates a session token for an authenticated staff
// member, carrying their role for route authorization.
func (tm *TokenManager) GenerateStaffToken(staffID, role string) (string, error) {
	return tm.generate(models.SubjectStaff, staffID, role, tm.staffExpiry)
}

func (tm *TokenManager) generate(subject, userID, role string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		Subject: subject,
		UserID:  userID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token, returning its claims.
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, models.ErrUnauthorized
	}
	return claims, nil
}
