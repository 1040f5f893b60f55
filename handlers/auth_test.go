package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlastours/models"
	"atlastours/utils"
)

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"username": "nadia", "password": "changeme"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	user := decodeJSON[models.User](t, w)
	assert.Equal(t, "nadia", user.Username)
	assert.Equal(t, models.RoleSuperadmin, user.Role)
	assert.NotContains(t, w.Body.String(), "password")

	var sessionID string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == utils.SessionCookieName {
			sessionID = cookie.Value
			assert.True(t, cookie.HttpOnly)
		}
	}
	require.NotEmpty(t, sessionID, "login must set the session cookie")

	// The cookie works on guarded routes.
	w = e.request(t, http.MethodGet, "/api/auth/user", nil, sessionID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nadia", decodeJSON[models.User](t, w).Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"username": "nadia", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown user gets the same answer as a wrong password.
	w2 := e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"username": "nobody", "password": "changeme"}, "")
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.JSONEq(t, w.Body.String(), w2.Body.String())
}

func TestLoginRequiresCredentials(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"username": "nadia"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAppendsAuditEntry(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"username": "ahmed", "password": "changeme"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := e.store.GetAuditLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "login", logs[0].Action)
	assert.Equal(t, seededAdminID, logs[0].UserID)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	e := newTestEnv(t)
	session := e.loginAs(t, seededAdminID, "ahmed", models.RoleAdmin)

	w := e.request(t, http.MethodGet, "/api/auth/user", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.request(t, http.MethodPost, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.request(t, http.MethodGet, "/api/auth/user", nil, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
