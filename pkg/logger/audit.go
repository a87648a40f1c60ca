package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types for the login flow
const (
	EventVisualLogin   = "visual_login"
	EventStaffLogin    = "staff_login"
	EventLockoutBegin  = "lockout_begin"
	EventLockoutExpire = "lockout_expire"
)

// AuditEvent represents a security audit event. These are structured log
// records only; nothing here is written to durable storage.
type AuditEvent struct {
	EventType     string
	StudentID     string
	StaffID       string
	SessionID     string
	IPAddress     string
	Success       bool
	FailureReason string
}

// AuditLogger provides structured audit logging for login outcomes and
// lockout transitions.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogLoginAttempt logs a login outcome. Failures log at Warn so sustained
// guessing shows up in alerting without a durable attempt table.
func (al *AuditLogger) LogLoginAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.StudentID != "" {
		attrs = append(attrs, slog.String("student_id", event.StudentID))
	}
	if event.StaffID != "" {
		attrs = append(attrs, slog.String("staff_id", event.StaffID))
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("login_session_id", event.SessionID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogLockout logs a lockout transition for a login session.
func (al *AuditLogger) LogLockout(eventType, sessionID, studentID, ipAddress string) {
	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit",
		slog.String("audit_type", "lockout"),
		slog.String("event_type", eventType),
		slog.String("login_session_id", sessionID),
		slog.String("student_id", studentID),
		slog.String("ip_address", ipAddress),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
}
