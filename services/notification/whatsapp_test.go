package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleNotification() BookingNotification {
	return BookingNotification{
		BookingID:      "b-1",
		CustomerName:   "Fatima Zahra",
		CustomerPhone:  "+212612345678",
		ActivityName:   "Agafay Desert Combo Experience",
		NumberOfPeople: 2,
		PreferredDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount:    900,
		Currency:       "MAD",
		PaymentStatus:  "unpaid",
		Status:         "pending",
	}
}

func TestSendBookingNotificationPostsPerAdmin(t *testing.T) {
	var mu sync.Mutex
	var received []gatewayMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var msg gatewayMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWhatsAppNotifier(server.URL, "secret-token",
		[]string{"+212600000001", "+212600000002"}, zap.NewNop())

	err := notifier.SendBookingNotification(context.Background(), sampleNotification())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, "+212600000001", received[0].To)
	assert.Equal(t, "+212600000002", received[1].To)
	assert.Contains(t, received[0].Body, "Agafay Desert Combo Experience")
	assert.Contains(t, received[0].Body, "900 MAD")
	assert.Contains(t, received[0].Body, "b-1")
}

func TestSendPaymentConfirmationWording(t *testing.T) {
	var mu sync.Mutex
	var bodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg gatewayMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		mu.Lock()
		bodies = append(bodies, msg.Body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWhatsAppNotifier(server.URL, "", []string{"+212600000001"}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, notifier.SendPaymentConfirmation(ctx, sampleNotification(), PaymentTypeDeposit))
	require.NoError(t, notifier.SendPaymentConfirmation(ctx, sampleNotification(), PaymentTypeFull))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "Deposit received")
	assert.Contains(t, bodies[1], "Full payment received")
}

func TestBroadcastGatewayErrorReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWhatsAppNotifier(server.URL, "", []string{"+212600000001"}, zap.NewNop())
	err := notifier.SendBookingNotification(context.Background(), sampleNotification())
	assert.Error(t, err)
}

func TestBroadcastSkipsWhenUnconfigured(t *testing.T) {
	notifier := NewWhatsAppNotifier("", "", nil, zap.NewNop())
	assert.NoError(t, notifier.SendBookingNotification(context.Background(), sampleNotification()))
}

func TestDispatchSwallowsFailures(t *testing.T) {
	done := make(chan struct{})
	Dispatch(zap.NewNop(), "test", func(ctx context.Context) error {
		defer close(done)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "dispatched sends must be bounded")
		return assert.AnError
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not run the send")
	}
}
