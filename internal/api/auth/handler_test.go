package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantUser   string
	}{
		{name: "credentials", body: `{"username":"alice","password":"x"}`, wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "empty body", body: ``, wantStatus: http.StatusOK, wantUser: "analyst"},
		{name: "blank username", body: `{"username":"  "}`, wantStatus: http.StatusOK, wantUser: "analyst"},
		{name: "malformed", body: `{"username":`, wantStatus: http.StatusBadRequest},
	}

	h := NewHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data LoginResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.True(t, resp.Data.LoggedIn)
			assert.Equal(t, tt.wantUser, resp.Data.Username)
		})
	}
}

func TestLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
