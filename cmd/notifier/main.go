// The notifier consumes booking events and sends passenger notifications.
// Delivery is mocked: notifications are logged, not emailed.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/omnibuslines/booking/internal/adapters/rabbit"
	"github.com/omnibuslines/booking/internal/config"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RabbitURL == "" {
		log.Fatal("RABBIT_URL is required for the notifier")
	}

	logger := observability.NewLogger()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	consumer, err := rabbit.NewConsumer(conn, "notifications.q", []string{
		events.TypeBookingCreated,
		events.TypeBookingCheckedIn,
	})
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	worker := NewNotifier(logger)
	go worker.Run(ctx, deliveries)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown notifier")
}

type Notifier struct {
	logger observability.Logger
}

func NewNotifier(logger observability.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			n.handle(d)
		}
	}
}

func (n *Notifier) handle(d amqp.Delivery) {
	var payload struct {
		BookingID string `json:"booking_id"`
		Email     string `json:"email"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		n.logger.WithField("error", err.Error()).Warn("discarding malformed event")
		d.Nack(false, false)
		return
	}

	n.logger.
		WithField("booking_id", payload.BookingID).
		WithField("email", payload.Email).
		WithField("event", d.RoutingKey).
		Info("notification sent")
	d.Ack(false)
}
