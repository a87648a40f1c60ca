package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	pkgauth "github.com/taogeht/reading-practice-app-sub002/pkg/auth"
	pkglogger "github.com/taogeht/reading-practice-app-sub002/pkg/logger"
)

// StaffStore is the storage interface staff login needs.
type StaffStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
}

// StaffResponse is the staff member shape returned after login.
type StaffResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// StaffAuthResponse is the response for a successful staff login.
type StaffAuthResponse struct {
	Token string         `json:"token"`
	Staff *StaffResponse `json:"staff"`
}

// StaffAuthService authenticates teachers and admins with email+password.
type StaffAuthService struct {
	repo   StaffStore
	tm     *auth.TokenManager
	timing *auth.TimingDelay
	logger *slog.Logger
	audit  *pkglogger.AuditLogger
}

// NewStaffAuthService creates a new StaffAuthService.
func NewStaffAuthService(repo StaffStore, tm *auth.TokenManager, timing *auth.TimingDelay, logger *slog.Logger, audit *pkglogger.AuditLogger) *StaffAuthService {
	return &StaffAuthService{
		repo:   repo,
		tm:     tm,
		timing: timing,
		logger: logger,
		audit:  audit,
	}
}

// Login verifies a staff credential and returns a session token. All failure
// modes collapse to ErrUnauthorized so the response never reveals whether the
// email exists.
func (s *StaffAuthService) Login(ctx context.Context, email, password, ipAddress string) (*StaffAuthResponse, error) {
	start := time.Now()

	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		return nil, models.ErrUnauthorized
	}

	staff, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogLoginAttempt(pkglogger.AuditEvent{
				EventType:     pkglogger.EventStaffLogin,
				IPAddress:     ipAddress,
				Success:       false,
				FailureReason: "invalid_credentials",
			})
			s.timing.WaitFrom(start, false)
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load staff account",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(staff.PasswordHash, password); err != nil {
		s.audit.LogLoginAttempt(pkglogger.AuditEvent{
			EventType:     pkglogger.EventStaffLogin,
			StaffID:       staff.ID,
			IPAddress:     ipAddress,
			Success:       false,
			FailureReason: "invalid_credentials",
		})
		s.timing.WaitFrom(start, false)
		return nil, models.ErrUnauthorized
	}

	token, err := s.tm.GenerateStaffToken(staff.ID, staff.Role)
	if err != nil {
		s.logger.Error("failed to issue staff session token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit.LogLoginAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventStaffLogin,
		StaffID:   staff.ID,
		IPAddress: ipAddress,
		Success:   true,
	})
	s.timing.WaitFrom(start, true)

	return &StaffAuthResponse{
		Token: token,
		Staff: &StaffResponse{
			ID:          staff.ID,
			Email:       staff.Email,
			DisplayName: staff.DisplayName,
			Role:        staff.Role,
		},
	}, nil
}
