// Package events publishes booking lifecycle events. Publishing is
// best-effort: the booking path never fails because the broker is down.
package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/omnibuslines/booking/internal/adapters/rabbit"
	"github.com/omnibuslines/booking/internal/domain"
	"github.com/omnibuslines/booking/internal/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCheckedIn = "booking.checked_in"
)

type Publisher interface {
	BookingCreated(ctx context.Context, b domain.Booking)
	BookingCheckedIn(ctx context.Context, b domain.Booking)
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) BookingCreated(context.Context, domain.Booking)   {}
func (Noop) BookingCheckedIn(context.Context, domain.Booking) {}

type RabbitPublisher struct {
	pub    *rabbit.Publisher
	logger observability.Logger
}

func NewRabbitPublisher(pub *rabbit.Publisher, logger observability.Logger) *RabbitPublisher {
	return &RabbitPublisher{pub: pub, logger: logger}
}

func (p *RabbitPublisher) BookingCreated(ctx context.Context, b domain.Booking) {
	p.publish(ctx, TypeBookingCreated, b)
}

func (p *RabbitPublisher) BookingCheckedIn(ctx context.Context, b domain.Booking) {
	p.publish(ctx, TypeBookingCheckedIn, b)
}

func (p *RabbitPublisher) publish(ctx context.Context, eventType string, b domain.Booking) {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id": b.ID,
		"route_id":   b.RouteID,
		"email":      b.Passenger.Email,
		"status":     b.Status,
	})
	if err != nil {
		p.logger.WithField("error", err.Error()).Error("failed to marshal event payload")
		return
	}
	msg := amqp.Publishing{
		MessageId:   uuid.New().String(),
		ContentType: "application/json",
		Body:        payload,
	}
	if err := p.pub.Publish(ctx, eventType, msg); err != nil {
		p.logger.WithField("event", eventType).WithField("error", err.Error()).Warn("failed to publish event")
	}
}
