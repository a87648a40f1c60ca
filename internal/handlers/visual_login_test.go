package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taogeht/reading-practice-app-sub002/internal/handlers"
	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	"github.com/taogeht/reading-practice-app-sub002/internal/services"
)

// MockVisualLoginService implements VisualLoginServiceInterface with
// scripted responses.
type MockVisualLoginService struct {
	startResult   *services.LoginChallenge
	startErr      error
	attemptResult *services.VerifyResult
	attemptErr    error
	statusResult  *services.SessionStatus
	statusErr     error
	abandoned     []string

	lastSubmission models.Submission
}

func (m *MockVisualLoginService) StartLogin(ctx context.Context, studentID string) (*services.LoginChallenge, error) {
	return m.startResult, m.startErr
}

func (m *MockVisualLoginService) AttemptLogin(ctx context.Context, sessionID, studentID, ipAddress string, sub models.Submission) (*services.VerifyResult, error) {
	m.lastSubmission = sub
	return m.attemptResult, m.attemptErr
}

func (m *MockVisualLoginService) Status(sessionID string) (*services.SessionStatus, error) {
	return m.statusResult, m.statusErr
}

func (m *MockVisualLoginService) Abandon(sessionID string) {
	m.abandoned = append(m.abandoned, sessionID)
}

func newLoginRouter(mock *MockVisualLoginService) chi.Router {
	h := handlers.NewVisualLoginHandler(mock, nil)
	r := chi.NewRouter()
	r.Get("/auth/visual-options", h.ListOptions)
	r.Post("/auth/visual-login/start", h.StartLogin)
	r.Post("/auth/visual-login", h.AttemptLogin)
	r.Get("/auth/visual-login/{sessionID}/status", h.SessionStatus)
	r.Delete("/auth/visual-login/{sessionID}", h.AbandonSession)
	return r
}

func postJSON(t *testing.T, router chi.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const (
	testSessionID = "6a4b9a3e-5a01-4a2b-9c3d-0e1f2a3b4c5d"
	testStudentID = "0f4d7c2a-8b16-4e3f-9d0a-1b2c3d4e5f60"
)

func TestListOptions_Animal(t *testing.T) {
	router := newLoginRouter(&MockVisualLoginService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/visual-options?type=animal", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Type    string                   `json:"type"`
		Options []map[string]interface{} `json:"options"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "animal", resp.Type)
	assert.NotEmpty(t, resp.Options)
}

func TestListOptions_ColorShapeReturnsBothCatalogs(t *testing.T) {
	router := newLoginRouter(&MockVisualLoginService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/visual-options?type=color_shape", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Colors []map[string]interface{} `json:"colors"`
		Shapes []map[string]interface{} `json:"shapes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Colors)
	assert.NotEmpty(t, resp.Shapes)
}

func TestListOptions_UnknownType(t *testing.T) {
	router := newLoginRouter(&MockVisualLoginService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/visual-options?type=telepathy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartLogin_Success(t *testing.T) {
	mock := &MockVisualLoginService{
		startResult: &services.LoginChallenge{
			LoginSessionID: testSessionID,
			PasswordType:   models.VisualPasswordAnimal,
		},
	}
	router := newLoginRouter(mock)

	rec := postJSON(t, router, "/auth/visual-login/start", map[string]string{
		"student_id": testStudentID,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp services.LoginChallenge
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testSessionID, resp.LoginSessionID)
}

func TestStartLogin_RejectsMalformedStudentID(t *testing.T) {
	router := newLoginRouter(&MockVisualLoginService{})

	rec := postJSON(t, router, "/auth/visual-login/start", map[string]string{
		"student_id": "not-a-uuid",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartLogin_UnknownStudentIsGeneric(t *testing.T) {
	mock := &MockVisualLoginService{startErr: models.ErrUnknownStudent}
	router := newLoginRouter(mock)

	rec := postJSON(t, router, "/auth/visual-login/start", map[string]string{
		"student_id": testStudentID,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot verify this student")
}

func TestAttemptLogin_SuccessEnvelope(t *testing.T) {
	mock := &MockVisualLoginService{
		attemptResult: &services.VerifyResult{
			Outcome: services.OutcomeSuccess,
			Token:   "token-123",
			Student: &services.StudentResponse{ID: testStudentID},
		},
	}
	router := newLoginRouter(mock)

	rec := postJSON(t, router, "/auth/visual-login", map[string]interface{}{
		"login_session_id": testSessionID,
		"student_id":       testStudentID,
		"submission":       map[string]string{"type": "animal", "key": "cat"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.VerifyResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, services.OutcomeSuccess, resp.Outcome)
	assert.Equal(t, "token-123", resp.Token)

	assert.Equal(t, models.VisualPasswordAnimal, mock.lastSubmission.Type)
	assert.Equal(t, "cat", mock.lastSubmission.Key)
}

func TestAttemptLogin_LockedIsStillHTTP200(t *testing.T) {
	mock := &MockVisualLoginService{
		attemptResult: &services.VerifyResult{
			Outcome:           services.OutcomeLocked,
			RetryAfterSeconds: 30,
		},
	}
	router := newLoginRouter(mock)

	rec := postJSON(t, router, "/auth/visual-login", map[string]interface{}{
		"login_session_id": testSessionID,
		"student_id":       testStudentID,
		"submission":       map[string]string{"type": "animal", "key": "cat"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.VerifyResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, services.OutcomeLocked, resp.Outcome)
	assert.Equal(t, 30, resp.RetryAfterSeconds)
}

func TestAttemptLogin_RejectsUnknownSubmissionType(t *testing.T) {
	router := newLoginRouter(&MockVisualLoginService{})

	rec := postJSON(t, router, "/auth/visual-login", map[string]interface{}{
		"login_session_id": testSessionID,
		"student_id":       testStudentID,
		"submission":       map[string]string{"type": "telepathy", "key": "x"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionStatus(t *testing.T) {
	mock := &MockVisualLoginService{
		statusResult: &services.SessionStatus{
			Locked:            true,
			RetryAfterSeconds: 12,
		},
	}
	router := newLoginRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/auth/visual-login/"+testSessionID+"/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.SessionStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Locked)
	assert.Equal(t, 12, resp.RetryAfterSeconds)
}

func TestSessionStatus_UnknownSession(t *testing.T) {
	mock := &MockVisualLoginService{statusErr: models.ErrUnknownSession}
	router := newLoginRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/auth/visual-login/"+testSessionID+"/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAbandonSession(t *testing.T) {
	mock := &MockVisualLoginService{}
	router := newLoginRouter(mock)

	req := httptest.NewRequest(http.MethodDelete, "/auth/visual-login/"+testSessionID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{testSessionID}, mock.abandoned)
}
