package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"atlastours/services/wizard"
)

// WizardHandler exposes the step-by-step booking flow backed by server-side
// sessions.
type WizardHandler struct {
	Service *wizard.Service
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(service *wizard.Service) *WizardHandler {
	return &WizardHandler{Service: service}
}

// StartSession opens a fresh wizard session on the activity step.
func (h *WizardHandler) StartSession(c *gin.Context) {
	session, err := h.Service.Start(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current wizard state.
func (h *WizardHandler) GetSession(c *gin.Context) {
	session, err := h.Service.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSession applies field changes and optional navigation. A rejected
// forward move returns 400 with the gate message; the session is unchanged.
func (h *WizardHandler) UpdateSession(c *gin.Context) {
	var input wizard.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.Update(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		var stepErr *wizard.StepError
		if errors.As(err, &stepErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": stepErr.Message, "session": session})
			return
		}
		h.respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitSession posts the assembled booking. Success resets the wizard;
// duplicate submits while one is pending return 409.
func (h *WizardHandler) SubmitSession(c *gin.Context) {
	created, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, wizard.ErrSubmissionPending) {
			c.JSON(http.StatusConflict, gin.H{"error": "Submission already in progress"})
			return
		}
		var stepErr *wizard.StepError
		if errors.As(err, &stepErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": stepErr.Message})
			return
		}
		h.respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CancelSession discards the wizard state.
func (h *WizardHandler) CancelSession(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
}

func (h *WizardHandler) respondWizardError(c *gin.Context, err error) {
	if errors.Is(err, wizard.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking session not found or expired"})
		return
	}
	respondServiceError(c, err)
}
