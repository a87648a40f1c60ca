package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// StudentRepository is the storage interface student management needs.
type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	ListByClass(ctx context.Context, classID string) ([]*models.Student, error)
	Create(ctx context.Context, s *models.Student) (*models.Student, error)
	UpdateVisualPassword(ctx context.Context, id string, spec models.VisualPasswordSpec) (*models.Student, error)
}

// RosterEntry is a student as shown on the class login screen. The credential
// itself is deliberately absent.
type RosterEntry struct {
	ID           string                    `json:"id"`
	DisplayName  string                    `json:"display_name"`
	PasswordType models.VisualPasswordType `json:"password_type"`
}

// StudentService manages student profiles and their visual password
// assignments.
type StudentService struct {
	repo   StudentRepository
	logger *slog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo StudentRepository, logger *slog.Logger) *StudentService {
	return &StudentService{repo: repo, logger: logger}
}

// Roster lists a class's students for the login screen.
func (s *StudentService) Roster(ctx context.Context, classID string) ([]RosterEntry, error) {
	students, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("failed to list class roster", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	roster := make([]RosterEntry, 0, len(students))
	for _, st := range students {
		roster = append(roster, RosterEntry{
			ID:           st.ID,
			DisplayName:  st.DisplayName,
			PasswordType: st.PasswordType,
		})
	}
	return roster, nil
}

// Create provisions a student with a validated visual password assignment.
func (s *StudentService) Create(ctx context.Context, classID, displayName string, spec models.VisualPasswordSpec) (*models.Student, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", models.ErrBadRequest)
	}
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	student := &models.Student{
		ClassID:      classID,
		DisplayName:  displayName,
		PasswordType: spec.Type,
	}
	switch spec.Type {
	case models.VisualPasswordAnimal, models.VisualPasswordObject:
		key := spec.Key
		student.VisualKey = &key
	case models.VisualPasswordColorShape:
		color, shape := spec.Color, spec.Shape
		student.VisualColor = &color
		student.VisualShape = &shape
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) || errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create student", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("student created",
		slog.String("student_id", created.ID),
		slog.String("class_id", created.ClassID),
		slog.String("password_type", string(created.PasswordType)),
	)
	return created, nil
}

// ReassignVisualPassword replaces a student's credential with a validated new
// assignment.
func (s *StudentService) ReassignVisualPassword(ctx context.Context, studentID string, spec models.VisualPasswordSpec) (*models.Student, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateVisualPassword(ctx, studentID, spec)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update visual password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("visual password reassigned",
		slog.String("student_id", updated.ID),
		slog.String("password_type", string(updated.PasswordType)),
	)
	return updated, nil
}

// validateSpec checks that an assignment references real catalog options, so
// a credential can never name an option the selector will not display.
func validateSpec(spec models.VisualPasswordSpec) error {
	if !models.ValidVisualPasswordType(spec.Type) {
		return fmt.Errorf("%w: unknown visual password type %q", models.ErrBadRequest, spec.Type)
	}

	switch spec.Type {
	case models.VisualPasswordAnimal, models.VisualPasswordObject:
		if !auth.HasKey(spec.Type, spec.Key) {
			return fmt.Errorf("%w: %q is not a %s catalog option", models.ErrBadRequest, spec.Key, spec.Type)
		}
	case models.VisualPasswordColorShape:
		if !auth.HasColor(spec.Color) {
			return fmt.Errorf("%w: %q is not a color catalog option", models.ErrBadRequest, spec.Color)
		}
		if !auth.HasShape(spec.Shape) {
			return fmt.Errorf("%w: %q is not a shape catalog option", models.ErrBadRequest, spec.Shape)
		}
	}
	return nil
}
