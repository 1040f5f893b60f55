package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlastours/config"
)

// SecurityHeadersMiddleware sets baseline security headers. In production it
// additionally redirects plain HTTP requests to HTTPS, trusting the
// X-Forwarded-Proto header set by the reverse proxy.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.IsProduction() {
			proto := c.GetHeader("X-Forwarded-Proto")
			if proto == "http" {
				target := "https://" + c.Request.Host + c.Request.RequestURI
				c.Redirect(http.StatusMovedPermanently, target)
				c.Abort()
				return
			}
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
