package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	"github.com/taogeht/reading-practice-app-sub002/internal/services"
	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
)

// VisualLoginServiceInterface defines the verifier operations the handler
// depends on.
type VisualLoginServiceInterface interface {
	StartLogin(ctx context.Context, studentID string) (*services.LoginChallenge, error)
	AttemptLogin(ctx context.Context, sessionID, studentID, ipAddress string, sub models.Submission) (*services.VerifyResult, error)
	Status(sessionID string) (*services.SessionStatus, error)
	Abandon(sessionID string)
}

// VisualLoginHandler handles the student visual-password login flow.
type VisualLoginHandler struct {
	service  VisualLoginServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewVisualLoginHandler creates a new VisualLoginHandler.
func NewVisualLoginHandler(service VisualLoginServiceInterface, ipConfig *pkghttp.IPConfig) *VisualLoginHandler {
	return &VisualLoginHandler{service: service, ipConfig: ipConfig}
}

// SubmissionDTO carries a guess over the wire.
type SubmissionDTO struct {
	Type  string `json:"type" validate:"required,oneof=animal object color_shape"`
	Key   string `json:"key,omitempty"`
	Color string `json:"color,omitempty"`
	Shape string `json:"shape,omitempty"`
}

func (d SubmissionDTO) toModel() models.Submission {
	return models.Submission{
		Type:  models.VisualPasswordType(d.Type),
		Key:   d.Key,
		Color: d.Color,
		Shape: d.Shape,
	}
}

// StartLoginRequest begins a login session for a roster-selected student.
type StartLoginRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// AttemptLoginRequest submits one guess.
type AttemptLoginRequest struct {
	LoginSessionID string        `json:"login_session_id" validate:"required,uuid"`
	StudentID      string        `json:"student_id" validate:"required,uuid"`
	Submission     SubmissionDTO `json:"submission" validate:"required"`
}

// ListOptions returns the option catalog(s) for a visual password type.
// For color_shape both the color and shape catalogs are returned.
func (h *VisualLoginHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	t := models.VisualPasswordType(r.URL.Query().Get("type"))
	if !models.ValidVisualPasswordType(t) {
		pkghttp.WriteBadRequest(w, "Unknown visual password type")
		return
	}

	resp := struct {
		Type    models.VisualPasswordType `json:"type"`
		Options []auth.CatalogEntry       `json:"options,omitempty"`
		Colors  []auth.CatalogEntry       `json:"colors,omitempty"`
		Shapes  []auth.CatalogEntry       `json:"shapes,omitempty"`
	}{Type: t}

	if t == models.VisualPasswordColorShape {
		resp.Colors = auth.Colors()
		resp.Shapes = auth.Shapes()
	} else {
		resp.Options = auth.Options(t)
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// StartLogin creates a fresh attempt state and returns the selector options.
func (h *VisualLoginHandler) StartLogin(w http.ResponseWriter, r *http.Request) {
	var req StartLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	challenge, err := h.service.StartLogin(r.Context(), req.StudentID)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, challenge)
}

// AttemptLogin submits a guess. Wrong guesses and lockouts are 200-level
// domain outcomes in the response envelope, not transport errors.
func (h *VisualLoginHandler) AttemptLogin(w http.ResponseWriter, r *http.Request) {
	var req AttemptLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.AttemptLogin(r.Context(), req.LoginSessionID, req.StudentID, ipAddress, req.Submission.toModel())
	if err != nil {
		writeLoginError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// SessionStatus reports the countdown state for a login session.
func (h *VisualLoginHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	status, err := h.service.Status(sessionID)
	if err != nil {
		writeLoginError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, status)
}

// AbandonSession discards a login session when the student navigates away.
func (h *VisualLoginHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.service.Abandon(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// writeLoginError maps login-flow errors to responses. Unknown students get
// the same generic message regardless of which part of the lookup failed.
func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownStudent):
		pkghttp.WriteUnauthorized(w, "Cannot verify this student")
	case errors.Is(err, models.ErrUnknownSession):
		pkghttp.WriteNotFound(w, "Login session not found or expired")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid submission")
	default:
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
	}
}
