package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusTeapot, "teapot", "short and stout")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeError(t, rec)
	assert.Equal(t, "teapot", resp.Error)
	assert.Equal(t, "short and stout", resp.Message)
}

func TestErrorWriters(t *testing.T) {
	cases := []struct {
		name     string
		write    func(http.ResponseWriter, string)
		wantCode int
		wantErr  string
	}{
		{"bad request", WriteBadRequest, http.StatusBadRequest, "bad_request"},
		{"unauthorized", WriteUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", WriteForbidden, http.StatusForbidden, "forbidden"},
		{"not found", WriteNotFound, http.StatusNotFound, "not_found"},
		{"conflict", WriteConflict, http.StatusConflict, "conflict"},
		{"internal", WriteInternalError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec, "msg")

			assert.Equal(t, tc.wantCode, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.wantErr, resp.Error)
			assert.Equal(t, "msg", resp.Message)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}
