package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	pkglogger "github.com/taogeht/reading-practice-app-sub002/pkg/logger"
)

// CredentialStore resolves a student id to their configured visual password.
// The verifier treats it as an opaque synchronous lookup; a miss is reported
// as an unknown student with no further detail.
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
}

// Verify outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLocked  = "locked"
)

// VerifyResult is the explicit result value of one login attempt. Wrong
// guesses and lockouts are results, not errors.
type VerifyResult struct {
	Outcome           string           `json:"outcome"`
	Token             string           `json:"token,omitempty"`
	Student           *StudentResponse `json:"student,omitempty"`
	AttemptsRemaining int              `json:"attempts_remaining,omitempty"`
	RetryAfterSeconds int              `json:"retry_after_seconds,omitempty"`
}

// LoginChallenge is returned when a student is chosen from the roster: a
// fresh login session plus the option sets their selector displays.
type LoginChallenge struct {
	LoginSessionID string                    `json:"login_session_id"`
	PasswordType   models.VisualPasswordType `json:"password_type"`
	Options        []auth.CatalogEntry       `json:"options,omitempty"`
	Colors         []auth.CatalogEntry       `json:"colors,omitempty"`
	Shapes         []auth.CatalogEntry       `json:"shapes,omitempty"`
}

// SessionStatus is the countdown-poll view of a login session.
type SessionStatus struct {
	Locked            bool `json:"locked"`
	AttemptsRemaining int  `json:"attempts_remaining"`
	RetryAfterSeconds int  `json:"retry_after_seconds"`
}

// StudentResponse is the student shape returned to authenticated callers.
type StudentResponse struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	DisplayName string `json:"display_name"`
}

// VisualLoginService is the verifier: it drives the attempt tracker, compares
// submissions against the credential store, and issues session tokens on
// success.
type VisualLoginService struct {
	students CredentialStore
	tracker  *auth.AttemptTracker
	tm       *auth.TokenManager
	timing   *auth.TimingDelay
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

// NewVisualLoginService creates a new VisualLoginService.
func NewVisualLoginService(
	students CredentialStore,
	tracker *auth.AttemptTracker,
	tm *auth.TokenManager,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *VisualLoginService {
	return &VisualLoginService{
		students: students,
		tracker:  tracker,
		tm:       tm,
		timing:   timing,
		logger:   logger,
		audit:    audit,
	}
}

// StartLogin creates a fresh attempt state for the chosen student and returns
// the selector options for their configured password type.
func (s *VisualLoginService) StartLogin(ctx context.Context, studentID string) (*LoginChallenge, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnknownStudent
		}
		s.logger.Error("failed to load student for login start", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	challenge := &LoginChallenge{
		LoginSessionID: s.tracker.Begin(),
		PasswordType:   student.PasswordType,
	}
	switch student.PasswordType {
	case models.VisualPasswordColorShape:
		challenge.Colors = auth.Colors()
		challenge.Shapes = auth.Shapes()
	default:
		challenge.Options = auth.Options(student.PasswordType)
	}

	return challenge, nil
}

// AttemptLogin runs one guess through the lockout state machine. Order of
// checks: locked short-circuit (credential store untouched), then credential
// resolution, then exact comparison. An unknown student never mutates attempt
// state.
func (s *VisualLoginService) AttemptLogin(ctx context.Context, sessionID, studentID, ipAddress string, sub models.Submission) (*VerifyResult, error) {
	start := time.Now()

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var student *models.Student
	result, err := s.tracker.Guess(sessionID, func() (bool, error) {
		var lookupErr error
		student, lookupErr = s.students.GetByID(ctx, studentID)
		if lookupErr != nil {
			if errors.Is(lookupErr, models.ErrNotFound) {
				return false, models.ErrUnknownStudent
			}
			s.logger.Error("credential lookup failed", slog.Any("error", lookupErr))
			return false, models.ErrInternalServer
		}
		return student.Credential().Matches(sub), nil
	})
	if err != nil {
		if errors.Is(err, models.ErrUnknownStudent) {
			s.audit.LogLoginAttempt(pkglogger.AuditEvent{
				EventType:     pkglogger.EventVisualLogin,
				SessionID:     sessionID,
				IPAddress:     ipAddress,
				Success:       false,
				FailureReason: "unknown_student",
			})
			s.timing.WaitFrom(start, false)
		}
		return nil, err
	}

	switch result.Outcome {
	case auth.GuessSuccess:
		token, tokenErr := s.tm.GenerateStudentToken(student.ID)
		if tokenErr != nil {
			s.logger.Error("failed to issue student session token", slog.Any("error", tokenErr))
			return nil, models.ErrInternalServer
		}
		s.audit.LogLoginAttempt(pkglogger.AuditEvent{
			EventType: pkglogger.EventVisualLogin,
			StudentID: student.ID,
			SessionID: sessionID,
			IPAddress: ipAddress,
			Success:   true,
		})
		s.timing.WaitFrom(start, true)
		return &VerifyResult{
			Outcome: OutcomeSuccess,
			Token:   token,
			Student: studentToResponse(student),
		}, nil

	case auth.GuessLocked:
		if result.JustLocked {
			s.audit.LogLockout(pkglogger.EventLockoutBegin, sessionID, studentID, ipAddress)
		}
		s.timing.WaitFrom(start, false)
		return &VerifyResult{
			Outcome:           OutcomeLocked,
			RetryAfterSeconds: ceilSeconds(result.RetryAfter),
		}, nil

	default:
		s.audit.LogLoginAttempt(pkglogger.AuditEvent{
			EventType:     pkglogger.EventVisualLogin,
			StudentID:     studentID,
			SessionID:     sessionID,
			IPAddress:     ipAddress,
			Success:       false,
			FailureReason: "wrong_selection",
		})
		s.timing.WaitFrom(start, false)
		return &VerifyResult{
			Outcome:           OutcomeFailure,
			AttemptsRemaining: result.AttemptsRemaining,
		}, nil
	}
}

// Status reports the session's countdown state, recomputed from the stored
// deadline on every poll.
func (s *VisualLoginService) Status(sessionID string) (*SessionStatus, error) {
	status, err := s.tracker.Status(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionStatus{
		Locked:            status.Locked,
		AttemptsRemaining: status.AttemptsRemaining,
		RetryAfterSeconds: ceilSeconds(status.RetryAfter),
	}, nil
}

// Abandon discards a login session, e.g. when the student navigates back to
// the roster.
func (s *VisualLoginService) Abandon(sessionID string) {
	s.tracker.Clear(sessionID)
}

// ceilSeconds rounds a remaining duration up to whole seconds so a countdown
// never displays 0 while the lock is still in force.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func studentToResponse(s *models.Student) *StudentResponse {
	return &StudentResponse{
		ID:          s.ID,
		ClassID:     s.ClassID,
		DisplayName: s.DisplayName,
	}
}
