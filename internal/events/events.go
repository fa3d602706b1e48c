package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"innkeeper/config"
	"innkeeper/infras/kafka"
	"innkeeper/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	TypeBookingCreated    = "booking.created"
	TypeBookingExtended   = "booking.extended"
	TypeBookingCancelled  = "booking.cancelled"
	TypeBookingCheckedOut = "booking.checked_out"
	TypeRoomBlocked       = "room.blocked"
	TypeRoomUnblocked     = "room.unblocked"
)

type BookingEvent struct {
	Type       string  `json:"type"`
	HotelID    string  `json:"hotel_id"`
	BookingID  string  `json:"booking_id"`
	RoomID     string  `json:"room_id"`
	Status     string  `json:"status"`
	GrandTotal float64 `json:"grand_total,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Delivery is fire and forget:
// a broker outage never fails the operation that raised the event.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent)
}

type publisherImpl struct {
	client kafka.Client
	config *config.Config
}

func NewPublisher(client kafka.Client, config *config.Config) Publisher {
	return &publisherImpl{
		client: client,
		config: config,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, event BookingEvent) {
	event.OccurredAt = timezone.Format(timezone.Now(), time.RFC3339)

	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		msg := kafka.Message{
			Key:   event.BookingID,
			Value: event,
		}

		if err := p.client.SendMessages(c, p.config.Kafka.TopicBooking, msg); err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("booking_id", event.BookingID).Msg("failed to publish booking event")
		}
	}()
}
