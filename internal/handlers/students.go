package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	"github.com/taogeht/reading-practice-app-sub002/internal/services"
	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
)

// StudentServiceInterface defines the student management operations the
// handler depends on.
type StudentServiceInterface interface {
	Roster(ctx context.Context, classID string) ([]services.RosterEntry, error)
	Create(ctx context.Context, classID, displayName string, spec models.VisualPasswordSpec) (*models.Student, error)
	ReassignVisualPassword(ctx context.Context, studentID string, spec models.VisualPasswordSpec) (*models.Student, error)
}

// StudentHandler handles roster and provisioning requests.
type StudentHandler struct {
	service StudentServiceInterface
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(service StudentServiceInterface) *StudentHandler {
	return &StudentHandler{service: service}
}

// VisualPasswordDTO carries a credential assignment.
type VisualPasswordDTO struct {
	Type  string `json:"type" validate:"required,oneof=animal object color_shape"`
	Key   string `json:"key,omitempty"`
	Color string `json:"color,omitempty"`
	Shape string `json:"shape,omitempty"`
}

func (d VisualPasswordDTO) toSpec() models.VisualPasswordSpec {
	return models.VisualPasswordSpec{
		Type:  models.VisualPasswordType(d.Type),
		Key:   d.Key,
		Color: d.Color,
		Shape: d.Shape,
	}
}

// CreateStudentRequest provisions a student with a visual password.
type CreateStudentRequest struct {
	ClassID        string            `json:"class_id" validate:"required"`
	DisplayName    string            `json:"display_name" validate:"required,min=1,max=100"`
	VisualPassword VisualPasswordDTO `json:"visual_password" validate:"required"`
}

// UpdateVisualPasswordRequest reassigns a student's credential.
type UpdateVisualPasswordRequest struct {
	VisualPassword VisualPasswordDTO `json:"visual_password" validate:"required"`
}

// StudentResponse is the provisioning view of a student; the credential is
// echoed back so the assigning teacher can confirm it.
type StudentResponse struct {
	ID             string            `json:"id"`
	ClassID        string            `json:"class_id"`
	DisplayName    string            `json:"display_name"`
	VisualPassword VisualPasswordDTO `json:"visual_password"`
}

// Roster lists a class's students for the login screen.
func (h *StudentHandler) Roster(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classID")

	roster, err := h.service.Roster(r.Context(), classID)
	if err != nil {
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"students": roster})
}

// Create provisions a new student.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	student, err := h.service.Create(r.Context(), req.ClassID, req.DisplayName, req.VisualPassword.toSpec())
	if err != nil {
		writeStudentError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, studentToHandlerResponse(student))
}

// UpdateVisualPassword reassigns a student's credential.
func (h *StudentHandler) UpdateVisualPassword(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "id")

	var req UpdateVisualPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	student, err := h.service.ReassignVisualPassword(r.Context(), studentID, req.VisualPassword.toSpec())
	if err != nil {
		writeStudentError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, studentToHandlerResponse(student))
}

func writeStudentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Student not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Student already exists")
	default:
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
	}
}

func studentToHandlerResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:          s.ID,
		ClassID:     s.ClassID,
		DisplayName: s.DisplayName,
		VisualPassword: VisualPasswordDTO{
			Type: string(s.PasswordType),
		},
	}
	if s.VisualKey != nil {
		resp.VisualPassword.Key = *s.VisualKey
	}
	if s.VisualColor != nil {
		resp.VisualPassword.Color = *s.VisualColor
	}
	if s.VisualShape != nil {
		resp.VisualPassword.Shape = *s.VisualShape
	}
	return resp
}
