package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	"github.com/taogeht/reading-practice-app-sub002/internal/services"
	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
)

// StaffAuthServiceInterface defines the staff login operation the handler
// depends on.
type StaffAuthServiceInterface interface {
	Login(ctx context.Context, email, password, ipAddress string) (*services.StaffAuthResponse, error)
}

// StaffAuthHandler handles teacher/admin login.
type StaffAuthHandler struct {
	service  StaffAuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewStaffAuthHandler creates a new StaffAuthHandler.
func NewStaffAuthHandler(service StaffAuthServiceInterface, ipConfig *pkghttp.IPConfig) *StaffAuthHandler {
	return &StaffAuthHandler{service: service, ipConfig: ipConfig}
}

// StaffLoginRequest is the request body for staff login.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a staff member.
func (h *StaffAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req StaffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	resp, err := h.service.Login(r.Context(), req.Email, req.Password, ipAddress)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Authentication failed")
			return
		}
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
