package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlastours/models"
)

func TestListActivitiesPublic(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodGet, "/api/activities", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	activities := decodeJSON[[]models.Activity](t, w)
	assert.Len(t, activities, 5)
	for _, a := range activities {
		assert.True(t, a.IsActive)
	}
}

func TestGetActivityHidesInactive(t *testing.T) {
	e := newTestEnv(t)

	hidden, err := e.store.CreateActivity(context.Background(), models.Activity{
		Name:     "Retired Tour",
		Price:    100,
		IsActive: false,
	})
	require.NoError(t, err)

	w := e.request(t, http.MethodGet, "/api/activities/"+hidden.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admin listing still includes it.
	session := e.loginAs(t, seededAdminID, "ahmed", models.RoleAdmin)
	w = e.request(t, http.MethodGet, "/api/admin/activities", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]models.Activity](t, w), 6)
}

func TestGetActivityNotFound(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodGet, "/api/activities/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.request(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemHealthRequiresSession(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, http.MethodGet, "/api/system-health", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session := e.loginAs(t, seededAdminID, "ahmed", models.RoleAdmin)
	w = e.request(t, http.MethodGet, "/api/system-health", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "memory", body["storage"])
}
