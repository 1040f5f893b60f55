package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"atlastours/config"
	"atlastours/database/repository"
	"atlastours/middleware"
	"atlastours/models"
	"atlastours/services/booking"
	"atlastours/services/notification"
	"atlastours/services/wizard"
	"atlastours/utils"
)

const seededSuperadminID = "686000f2f5c4d141c7e87101" // nadia
const seededAdminID = "686000f2f5c4d141c7e87102"      // ahmed
const agafayActivityID = "686000f2f5c4d141c7e87113"   // 450 MAD, no slots

type testEnv struct {
	router   *gin.Engine
	store    repository.Storage
	sessions utils.SessionStore
}

// newTestEnv wires the full handler bundle against in-memory storage and
// registers the production route table without CORS or rate limiting.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig.SessionTTLMin = 60

	store := repository.NewMemoryStorage()
	require.NoError(t, store.SeedInitialData(context.Background()))
	sessions := utils.NewMemorySessionStore()

	bookingSvc := &booking.DefaultBookingService{
		Store:    store,
		Notifier: &notification.NoopNotifier{},
		Logger:   zap.NewNop(),
	}
	wizardSvc := &wizard.Service{
		Sessions: sessions,
		Store:    store,
		Bookings: bookingSvc,
		Logger:   zap.NewNop(),
	}
	hb := NewHandlerBundle(store, bookingSvc, wizardSvc, sessions, nil)

	r := gin.New()
	r.GET("/health", hb.Health.Health)
	r.GET("/api/health", hb.Health.Health)
	r.GET("/api/system-health", middleware.RequireAuth(sessions), hb.Health.SystemHealth)

	r.GET("/api/activities", hb.Activities.ListActivities)
	r.GET("/api/activities/:id", hb.Activities.GetActivity)
	r.GET("/api/activities/:id/rating", hb.Activities.GetActivityRating)
	r.POST("/api/bookings", hb.Bookings.CreateBooking)
	r.GET("/api/reviews", hb.Reviews.ListReviews)
	r.POST("/api/reviews", hb.Reviews.CreateReview)

	wizardGroup := r.Group("/api/booking-wizard")
	wizardGroup.POST("/session", hb.Wizard.StartSession)
	wizardGroup.GET("/session/:sessionID", hb.Wizard.GetSession)
	wizardGroup.PUT("/session/:sessionID", hb.Wizard.UpdateSession)
	wizardGroup.POST("/session/:sessionID/submit", hb.Wizard.SubmitSession)
	wizardGroup.DELETE("/session/:sessionID", hb.Wizard.CancelSession)

	r.POST("/api/auth/login", hb.Auth.Login)
	r.POST("/api/auth/logout", hb.Auth.Logout)
	r.GET("/api/auth/user", middleware.RequireAuth(sessions), hb.Auth.CurrentUser)

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(sessions))
	admin.GET("/bookings", hb.Admin.ListBookings)
	admin.GET("/export/bookings", hb.Export.ExportBookings)
	admin.GET("/bookings/:id", hb.Admin.GetBooking)
	admin.PATCH("/bookings/:id/status", hb.Admin.UpdateBookingStatus)
	admin.PATCH("/bookings/:id/payment", hb.Admin.UpdateBookingPayment)
	admin.GET("/activities", hb.Admin.ListAllActivities)
	admin.POST("/activities", hb.Admin.CreateActivity)
	admin.PUT("/activities/:id", hb.Admin.UpdateActivity)
	admin.PATCH("/activities/:id/gyg-price", hb.Admin.UpdateGetYourGuidePrice)
	admin.GET("/reviews", hb.Admin.ListAllReviews)
	admin.PATCH("/reviews/:id/approval", hb.Admin.UpdateReviewApproval)
	admin.GET("/analytics/activities", hb.Analytics.Activities)
	admin.GET("/analytics/bookings", hb.Analytics.Bookings)
	admin.GET("/analytics/price-comparison", hb.Analytics.PriceComparison)

	superadmin := admin.Group("")
	superadmin.Use(middleware.RequireSuperadmin(sessions))
	superadmin.DELETE("/activities/:id", hb.Admin.DeleteActivity)
	superadmin.GET("/audit-logs", hb.Admin.ListAuditLogs)
	superadmin.GET("/analytics/earnings", hb.Analytics.Earnings)

	return &testEnv{router: r, store: store, sessions: sessions}
}

// loginAs seeds a server-side session for a seeded account and returns the
// session id to send as the cookie value.
func (e *testEnv) loginAs(t *testing.T, userID, username, role string) string {
	t.Helper()
	sessionID := "test-session-" + username
	err := utils.SaveAdminSession(context.Background(), e.sessions, sessionID, utils.AdminSession{
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}, time.Hour)
	require.NoError(t, err)
	return sessionID
}

func (e *testEnv) request(t *testing.T, method, path string, body any, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func validBookingPayload() map[string]any {
	return map[string]any{
		"customerName":   "Fatima Zahra",
		"customerPhone":  "+212612345678",
		"customerEmail":  "fatima@example.com",
		"activityId":     agafayActivityID,
		"numberOfPeople": 2,
		"preferredDate":  "2025-07-15",
	}
}

func createBookingForTest(t *testing.T, e *testEnv) models.Booking {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/bookings", validBookingPayload(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeJSON[models.Booking](t, w)
}
