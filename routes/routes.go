package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atlastours/config"
	"atlastours/handlers"
	"atlastours/middleware"
)

// RegisterPublicRoutes registers the visitor-facing catalog, booking, and
// review endpoints. All of them sit behind the per-IP rate limiter.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.GET("/activities", hb.Activities.ListActivities)
		api.GET("/activities/:id", hb.Activities.GetActivity)
		api.GET("/activities/:id/rating", hb.Activities.GetActivityRating)

		api.POST("/bookings", hb.Bookings.CreateBooking)

		api.GET("/reviews", hb.Reviews.ListReviews)
		api.POST("/reviews", hb.Reviews.CreateReview)
	}
}

// RegisterWizardRoutes registers the step-by-step booking flow.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wizardGroup := r.Group("/api/booking-wizard")
	wizardGroup.Use(middleware.RateLimitMiddleware())
	{
		wizardGroup.POST("/session", hb.Wizard.StartSession)
		wizardGroup.GET("/session/:sessionID", hb.Wizard.GetSession)
		wizardGroup.PUT("/session/:sessionID", hb.Wizard.UpdateSession)
		wizardGroup.POST("/session/:sessionID/submit", hb.Wizard.SubmitSession)
		wizardGroup.DELETE("/session/:sessionID", hb.Wizard.CancelSession)
	}
}

// RegisterAuthRoutes registers admin authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.RateLimitMiddleware(), hb.Auth.Login)
		auth.POST("/logout", hb.Auth.Logout)
		auth.GET("/user", middleware.RequireAuth(hb.Sessions), hb.Auth.CurrentUser)
	}
}

// RegisterAdminRoutes registers the back-office endpoints. Everything
// requires an admin session; destructive catalog operations and the audit
// log require superadmin.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(hb.Sessions))
	{
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
		superadmin.Use(middleware.RequireSuperadmin(hb.Sessions))
		superadmin.DELETE("/activities/:id", hb.Admin.DeleteActivity)
		superadmin.GET("/audit-logs", hb.Admin.ListAuditLogs)
		superadmin.GET("/analytics/earnings", hb.Analytics.Earnings)
	}
}

// RegisterHealthRoutes registers liveness endpoints and the Prometheus
// scrape target. System health discloses breaker and storage internals, so
// it lives behind the admin session.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
	r.GET("/api/health", hb.Health.Health)
	r.GET("/api/system-health", middleware.RequireAuth(hb.Sessions), hb.Health.SystemHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SecurityHeadersMiddleware())

	RegisterHealthRoutes(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterWizardRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
