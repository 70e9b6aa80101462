package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tourism/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, s.err
}

func event(t domain.BookingEventType) domain.BookingEvent {
	return domain.BookingEvent{
		Type:           t,
		BookingID:      12,
		PlaceID:        3,
		NumberOfPeople: 4,
		TotalPrice:     decimal.NewFromInt(20),
		Status:         domain.BookingConfirmed,
		PaymentStatus:  domain.PaymentPaid,
		At:             time.Now(),
	}
}

func TestTelegramNotifier_SendsQueuedEvents(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, 555, logrus.New())

	n.Publish(context.Background(), event(domain.EventBookingCreated))
	n.Publish(context.Background(), event(domain.EventBookingConfirmed))
	n.Close()

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(555), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[1].Text, "confirmed #12")
	assert.Contains(t, sender.sent[1].Text, "$20.00")
}

func TestTelegramNotifier_SendErrorsAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("telegram down")}
	n := NewNotifier(sender, 555, logrus.New())

	n.Publish(context.Background(), event(domain.EventPaymentFailed))
	n.Close()

	assert.Len(t, sender.sent, 1)
}

func TestTelegramNotifier_DisabledWithoutConfig(t *testing.T) {
	n, err := NewTelegramNotifier("", 0, logrus.New())
	require.NoError(t, err)
	assert.False(t, n.Enabled())

	n.Publish(context.Background(), event(domain.EventBookingCreated))
	n.Close()
}
