package notification

import (
	"context"
	"fmt"
	"sync"

	"tourism/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const queueSize = 100

// Sender is the part of the bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts booking events to an admin chat. Messages are sent
// from a single background goroutine; when the queue is full events are
// dropped.
type TelegramNotifier struct {
	sender Sender
	chatID int64
	log    logrus.FieldLogger

	queue chan domain.BookingEvent
	wg    sync.WaitGroup
	once  sync.Once
}

// NewTelegramNotifier connects to the bot API. An empty token or chat id
// returns a disabled notifier.
func NewTelegramNotifier(token string, chatID int64, log logrus.FieldLogger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		log.Debug("telegram notifier disabled: token or chat id not set")
		return NewNotifier(nil, 0, log), nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("telegram notifier enabled")
	return NewNotifier(bot, chatID, log), nil
}

func NewNotifier(sender Sender, chatID int64, log logrus.FieldLogger) *TelegramNotifier {
	n := &TelegramNotifier{sender: sender, chatID: chatID, log: log}
	if n.Enabled() {
		n.queue = make(chan domain.BookingEvent, queueSize)
		n.wg.Add(1)
		go n.run()
	}
	return n
}

func (n *TelegramNotifier) Enabled() bool {
	return n.sender != nil && n.chatID != 0
}

// Publish implements booking.EventPublisher.
func (n *TelegramNotifier) Publish(_ context.Context, ev domain.BookingEvent) {
	if !n.Enabled() {
		return
	}
	select {
	case n.queue <- ev:
	default:
		n.log.WithField("booking_id", ev.BookingID).Warn("telegram queue full, dropping event")
	}
}

// Close stops the worker after the queued events are sent.
func (n *TelegramNotifier) Close() {
	if !n.Enabled() {
		return
	}
	n.once.Do(func() { close(n.queue) })
	n.wg.Wait()
}

func (n *TelegramNotifier) run() {
	defer n.wg.Done()
	for ev := range n.queue {
		msg := tgbotapi.NewMessage(n.chatID, FormatEvent(ev))
		if _, err := n.sender.Send(msg); err != nil {
			n.log.WithError(err).WithField("booking_id", ev.BookingID).Warn("telegram send failed")
		}
	}
}

func FormatEvent(ev domain.BookingEvent) string {
	var title string
	switch ev.Type {
	case domain.EventBookingCreated:
		title = "🆕 New booking"
	case domain.EventBookingConfirmed:
		title = "✅ Booking paid and confirmed"
	case domain.EventPaymentFailed:
		title = "❌ Payment failed"
	case domain.EventBookingCancelled:
		title = "🚫 Booking cancelled"
	case domain.EventBookingDeleted:
		title = "🗑 Booking deleted"
	default:
		title = "✏️ Booking updated"
	}

	text := fmt.Sprintf("%s #%d\nPlace: %d\nPeople: %d\nTotal: $%s\nStatus: %s / %s",
		title, ev.BookingID, ev.PlaceID, ev.NumberOfPeople, ev.TotalPrice.StringFixed(2),
		ev.Status, ev.PaymentStatus)
	if ev.Message != "" {
		text += "\n" + ev.Message
	}
	return text
}
