package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"atlastours/config"
	"atlastours/database/repository"
	"atlastours/middleware"
	"atlastours/models"
	"atlastours/utils"
)

// AuthHandler owns admin login, logout, and session introspection.
type AuthHandler struct {
	Store    repository.Storage
	Sessions utils.SessionStore
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store repository.Storage, sessions utils.SessionStore) *AuthHandler {
	return &AuthHandler{Store: store, Sessions: sessions}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an opaque session cookie. Unknown
// usernames and wrong passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	logger := zap.L()
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		logger.Warn("Login attempt for unknown user", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn("Login attempt with wrong password", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	sessionID := uuid.New().String()
	session := utils.AdminSession{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}
	ttl := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	if err := utils.SaveAdminSession(ctx, h.Sessions, sessionID, session, ttl); err != nil {
		logger.Error("Failed to persist admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.SetCookie(utils.SessionCookieName, sessionID, int(ttl.Seconds()), "/", "", config.IsProduction(), true)

	if _, err := h.Store.CreateAuditLog(ctx, models.AuditLog{
		UserID:  user.ID,
		Action:  "login",
		Details: fmt.Sprintf("%s logged in", user.Username),
	}); err != nil {
		logger.Warn("Failed to record login audit entry", zap.Error(err))
	}

	c.JSON(http.StatusOK, user)
}

// Logout destroys the server-side session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(utils.SessionCookieName); err == nil && sessionID != "" {
		if err := utils.DeleteAdminSession(c.Request.Context(), h.Sessions, sessionID); err != nil {
			zap.L().Warn("Failed to delete admin session", zap.Error(err))
		}
	}
	c.SetCookie(utils.SessionCookieName, "", -1, "/", "", config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CurrentUser returns the account behind the active session.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.Store.GetUser(c.Request.Context(), session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
