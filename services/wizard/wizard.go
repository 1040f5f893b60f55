// Package wizard holds the four-step booking form state machine. Sessions
// live in the shared session store with a TTL; forward navigation is gated
// per step, backward navigation is free, and submission happens at most once
// per session while a submit is pending.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"atlastours/database/repository"
	"atlastours/models"
	"atlastours/services/booking"
	"atlastours/utils"
)

// Step is a wizard position.
type Step string

const (
	StepActivity     Step = "activity"
	StepDatetime     Step = "datetime"
	StepDetails      Step = "details"
	StepConfirmation Step = "confirmation"
)

var stepOrder = map[Step]int{
	StepActivity:     0,
	StepDatetime:     1,
	StepDetails:      2,
	StepConfirmation: 3,
}

const sessionPrefix = "wizardSession:"
const sessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired wizard sessions.
var ErrSessionNotFound = errors.New("wizard session not found or expired")

// ErrSubmissionPending is returned when a submit arrives while a previous
// one is still in flight for the same session.
var ErrSubmissionPending = errors.New("submission already in progress")

// StepError reports a rejected forward navigation; the session is unchanged.
type StepError struct {
	Message string
}

func (e *StepError) Error() string { return e.Message }

// Session is the wizard state held server-side between steps.
type Session struct {
	ID             string    `json:"id"`
	Step           Step      `json:"step"`
	ActivityID     string    `json:"activityId,omitempty"`
	PreferredDate  string    `json:"preferredDate,omitempty"`
	TimeSlotID     string    `json:"timeSlotId,omitempty"`
	CustomerName   string    `json:"customerName,omitempty"`
	CustomerPhone  string    `json:"customerPhone,omitempty"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	NumberOfPeople int       `json:"numberOfPeople"`
	Notes          string    `json:"notes,omitempty"`
	Submitting     bool      `json:"submitting"`
	LastError      string    `json:"lastError,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UpdateInput carries field changes and an optional target step.
type UpdateInput struct {
	Step           Step   `json:"step,omitempty"`
	ActivityID     string `json:"activityId,omitempty"`
	PreferredDate  string `json:"preferredDate,omitempty"`
	TimeSlotID     string `json:"timeSlotId,omitempty"`
	CustomerName   string `json:"customerName,omitempty"`
	CustomerPhone  string `json:"customerPhone,omitempty"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	NumberOfPeople int    `json:"numberOfPeople,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Service drives wizard sessions.
type Service struct {
	Sessions utils.SessionStore
	Store    repository.Storage
	Bookings booking.BookingService
	Logger   *zap.Logger
}

// Start opens a new session on the activity step.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:             uuid.New().String(),
		Step:           StepActivity,
		NumberOfPeople: 1,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session by id.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.Sessions.Get(ctx, sessionPrefix+id)
	if err != nil {
		if errors.Is(err, utils.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &session, nil
}

// Update applies field changes, then navigates when a target step is given.
// Forward moves are validated step by step; a rejected move leaves the
// session untouched. Backward moves always succeed.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := *session
	applyFields(&candidate, input)

	if input.Step != "" {
		if _, ok := stepOrder[input.Step]; !ok {
			return nil, &StepError{Message: "unknown step: " + string(input.Step)}
		}
		if stepOrder[input.Step] > stepOrder[candidate.Step] {
			if err := s.gateForward(ctx, &candidate, input.Step); err != nil {
				return session, err
			}
		}
		candidate.Step = input.Step
	}

	if err := s.save(ctx, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

func applyFields(session *Session, input UpdateInput) {
	if input.ActivityID != "" {
		session.ActivityID = input.ActivityID
	}
	if input.PreferredDate != "" {
		session.PreferredDate = input.PreferredDate
	}
	if input.TimeSlotID != "" {
		session.TimeSlotID = input.TimeSlotID
	}
	if input.CustomerName != "" {
		session.CustomerName = input.CustomerName
	}
	if input.CustomerPhone != "" {
		session.CustomerPhone = input.CustomerPhone
	}
	if input.CustomerEmail != "" {
		session.CustomerEmail = input.CustomerEmail
	}
	if input.NumberOfPeople > 0 {
		session.NumberOfPeople = input.NumberOfPeople
	}
	if input.Notes != "" {
		session.Notes = input.Notes
	}
}

// gateForward checks every step boundary between the current position and
// the target, so skipping ahead still requires all intermediate gates.
func (s *Service) gateForward(ctx context.Context, session *Session, target Step) error {
	for step, order := range stepOrder {
		if order <= stepOrder[session.Step] || order > stepOrder[target] {
			continue
		}
		if err := s.gate(ctx, session, step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) gate(ctx context.Context, session *Session, step Step) error {
	switch step {
	case StepDatetime:
		if session.ActivityID == "" {
			return &StepError{Message: "choose an activity before selecting a date"}
		}
	case StepDetails:
		if session.PreferredDate == "" {
			return &StepError{Message: "choose a date before entering your details"}
		}
		if _, err := booking.ParsePreferredDate(session.PreferredDate); err != nil {
			return &StepError{Message: "the selected date is not valid"}
		}
		if session.ActivityID != "" {
			activity, err := s.Store.GetActivity(ctx, session.ActivityID)
			if err == nil && len(activity.TimeSlots) > 0 && session.TimeSlotID == "" {
				return &StepError{Message: "choose a time slot before entering your details"}
			}
		}
	case StepConfirmation:
		if strings.TrimSpace(session.CustomerName) == "" || strings.TrimSpace(session.CustomerPhone) == "" {
			return &StepError{Message: "name and phone number are required to proceed"}
		}
	}
	return nil
}

// Submit posts the assembled booking exactly once. While a submission is
// pending further submits are rejected. Success resets the wizard by
// deleting the session; failure records the error and keeps the session on
// the confirmation step.
func (s *Service) Submit(ctx context.Context, id string) (*models.Booking, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != StepConfirmation {
		return nil, &StepError{Message: "complete all steps before submitting"}
	}
	if session.Submitting {
		return nil, ErrSubmissionPending
	}

	session.Submitting = true
	session.LastError = ""
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	created, err := s.Bookings.CreateBooking(ctx, booking.CreateBookingInput{
		CustomerName:   session.CustomerName,
		CustomerPhone:  session.CustomerPhone,
		CustomerEmail:  session.CustomerEmail,
		ActivityID:     session.ActivityID,
		NumberOfPeople: session.NumberOfPeople,
		PreferredDate:  session.PreferredDate,
		TimeSlotID:     session.TimeSlotID,
		Notes:          session.Notes,
	})
	if err != nil {
		session.Submitting = false
		session.LastError = err.Error()
		if saveErr := s.save(ctx, session); saveErr != nil {
			s.Logger.Warn("Failed to record wizard submission error", zap.Error(saveErr))
		}
		return nil, err
	}

	if err := s.Cancel(ctx, id); err != nil {
		s.Logger.Warn("Failed to reset wizard session after submit", zap.Error(err))
	}
	return created, nil
}

// Cancel discards a session.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.Sessions.Delete(ctx, sessionPrefix+id)
}

func (s *Service) save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	return s.Sessions.Save(ctx, sessionPrefix+session.ID, data, sessionTTL)
}
