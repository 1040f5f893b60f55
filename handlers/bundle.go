package handlers

import (
	"atlastours/database/repository"
	"atlastours/services/booking"
	"atlastours/services/wizard"
	"atlastours/utils"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Sessions utils.SessionStore

	Activities *ActivityHandler
	Bookings   *BookingHandler
	Wizard     *WizardHandler
	Reviews    *ReviewHandler
	Auth       *AuthHandler
	Admin      *AdminHandler
	Analytics  *AnalyticsHandler
	Export     *ExportHandler
	Health     *HealthHandler
}

// NewHandlerBundle wires every handler against the shared storage gateway
// and services. failover is nil when running on in-memory storage.
func NewHandlerBundle(
	store repository.Storage,
	bookings booking.BookingService,
	wizardSvc *wizard.Service,
	sessions utils.SessionStore,
	failover *repository.FailoverStorage,
) *HandlerBundle {
	return &HandlerBundle{
		Sessions:   sessions,
		Activities: NewActivityHandler(store),
		Bookings:   NewBookingHandler(bookings),
		Wizard:     NewWizardHandler(wizardSvc),
		Reviews:    NewReviewHandler(store),
		Auth:       NewAuthHandler(store, sessions),
		Admin:      NewAdminHandler(store, bookings),
		Analytics:  NewAnalyticsHandler(store),
		Export:     NewExportHandler(store),
		Health:     NewHealthHandler(failover),
	}
}
