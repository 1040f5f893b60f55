package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// WhatsAppNotifier delivers admin notifications through a WhatsApp gateway
// HTTP API. One message is posted per configured admin phone.
type WhatsAppNotifier struct {
	apiURL      string
	token       string
	adminPhones []string
	client      *http.Client
	logger      *zap.Logger
}

func NewWhatsAppNotifier(apiURL, token string, adminPhones []string, logger *zap.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL:      apiURL,
		token:       token,
		adminPhones: adminPhones,
		client:      &http.Client{Timeout: dispatchTimeout},
		logger:      logger,
	}
}

// AdminContacts returns the configured admin phone numbers.
func (w *WhatsAppNotifier) AdminContacts() []string {
	contacts := make([]string, len(w.adminPhones))
	copy(contacts, w.adminPhones)
	return contacts
}

func (w *WhatsAppNotifier) SendBookingNotification(ctx context.Context, n BookingNotification) error {
	var msg strings.Builder
	msg.WriteString("🆕 New booking\n")
	fmt.Fprintf(&msg, "Activity: %s\n", n.ActivityName)
	fmt.Fprintf(&msg, "Customer: %s (%s)\n", n.CustomerName, n.CustomerPhone)
	fmt.Fprintf(&msg, "Date: %s\n", n.PreferredDate.Format("Mon 02 Jan 2006 15:04"))
	fmt.Fprintf(&msg, "People: %d\n", n.NumberOfPeople)
	fmt.Fprintf(&msg, "Total: %.0f %s\n", n.TotalAmount, n.Currency)
	if n.Notes != "" {
		fmt.Fprintf(&msg, "Notes: %s\n", n.Notes)
	}
	fmt.Fprintf(&msg, "Booking ref: %s", n.BookingID)
	return w.broadcast(ctx, msg.String())
}

func (w *WhatsAppNotifier) SendPaymentConfirmation(ctx context.Context, n BookingNotification, paymentType string) error {
	wording := "Deposit received"
	if paymentType == PaymentTypeFull {
		wording = "Full payment received"
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "💰 %s\n", wording)
	fmt.Fprintf(&msg, "Activity: %s\n", n.ActivityName)
	fmt.Fprintf(&msg, "Customer: %s (%s)\n", n.CustomerName, n.CustomerPhone)
	fmt.Fprintf(&msg, "Payment: %s via %s\n", n.PaymentStatus, n.PaymentMethod)
	fmt.Fprintf(&msg, "Total: %.0f %s\n", n.TotalAmount, n.Currency)
	fmt.Fprintf(&msg, "Booking ref: %s", n.BookingID)
	return w.broadcast(ctx, msg.String())
}

type gatewayMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// broadcast posts the message to every admin phone. Delivery failures for
// individual recipients are logged; the last error is returned so callers
// dispatching best-effort can record it.
func (w *WhatsAppNotifier) broadcast(ctx context.Context, body string) error {
	if w.apiURL == "" || len(w.adminPhones) == 0 {
		w.logger.Debug("WhatsApp gateway not configured, skipping notification")
		return nil
	}
	var lastErr error
	for _, phone := range w.adminPhones {
		if err := w.send(ctx, phone, body); err != nil {
			w.logger.Warn("WhatsApp send failed",
				zap.String("to", phone),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (w *WhatsAppNotifier) send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(gatewayMessage{To: to, Body: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Notifier = (*WhatsAppNotifier)(nil)

// NoopNotifier satisfies Notifier when no gateway is configured.
type NoopNotifier struct{}

func (NoopNotifier) SendBookingNotification(ctx context.Context, n BookingNotification) error {
	return nil
}

func (NoopNotifier) SendPaymentConfirmation(ctx context.Context, n BookingNotification, paymentType string) error {
	return nil
}
