package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/models"
	"atlastours/utils"
)

// SessionContextKey is where the authenticated admin session lives on the
// gin context.
const SessionContextKey = "adminSession"

// ErrUnauthenticated is returned by Authorize when no session is present.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden is returned by Authorize when the session's role is not
// sufficient for the requested role.
var ErrForbidden = errors.New("insufficient role")

// Authorize is the role policy. A nil session is unauthenticated. Superadmins
// pass every check; admins pass admin-level checks only.
func Authorize(session *utils.AdminSession, requiredRole string) error {
	if session == nil {
		return ErrUnauthenticated
	}
	switch requiredRole {
	case models.RoleSuperadmin:
		if session.Role != models.RoleSuperadmin {
			return ErrForbidden
		}
	case models.RoleAdmin:
		if session.Role != models.RoleAdmin && session.Role != models.RoleSuperadmin {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}

// SessionAuthMiddleware resolves the session cookie against the session
// store and enforces the required role.
func SessionAuthMiddleware(sessions utils.SessionStore, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		session := sessionFromRequest(c, sessions)
		if err := Authorize(session, requiredRole); err != nil {
			if errors.Is(err, ErrForbidden) {
				logger.Warn("Forbidden admin request",
					zap.String("path", c.Request.URL.Path),
					zap.String("role", session.Role))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// RequireAuth guards admin-level routes.
func RequireAuth(sessions utils.SessionStore) gin.HandlerFunc {
	return SessionAuthMiddleware(sessions, models.RoleAdmin)
}

// RequireSuperadmin guards superadmin-only routes.
func RequireSuperadmin(sessions utils.SessionStore) gin.HandlerFunc {
	return SessionAuthMiddleware(sessions, models.RoleSuperadmin)
}

// CurrentSession returns the session placed on the context by
// SessionAuthMiddleware, or nil when the route is unguarded.
func CurrentSession(c *gin.Context) *utils.AdminSession {
	value, ok := c.Get(SessionContextKey)
	if !ok {
		return nil
	}
	session, ok := value.(*utils.AdminSession)
	if !ok {
		return nil
	}
	return session
}

func sessionFromRequest(c *gin.Context, sessions utils.SessionStore) *utils.AdminSession {
	sessionID, err := c.Cookie(utils.SessionCookieName)
	if err != nil || sessionID == "" {
		return nil
	}
	session, err := utils.GetAdminSession(c.Request.Context(), sessions, sessionID)
	if err != nil {
		return nil
	}
	return session
}
