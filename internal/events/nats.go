package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dukerupert/law7a/internal/domain"
)

// OrdersStream captures every law7a.orders.* subject.
const OrdersStream = "LAW7A_ORDERS"

const publishTimeout = 3 * time.Second

// streamPublisher is the part of jetstream.JetStream the publisher uses.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSPublisher publishes events to a JetStream stream.
type NATSPublisher struct {
	js     streamPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewNATSPublisher ensures the orders stream exists and returns a publisher on it.
func NewNATSPublisher(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) (*NATSPublisher, error) {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     OrdersStream,
		Subjects: []string{"law7a.orders.>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream %s: %w", OrdersStream, err)
	}
	return newNATSPublisher(js, logger), nil
}

func newNATSPublisher(js streamPublisher, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{js: js, logger: logger, now: time.Now}
}

// OrderPlaced publishes the order on SubjectOrderPlaced. The event ID is used
// as the JetStream message ID so redeliveries are deduplicated.
func (p *NATSPublisher) OrderPlaced(ctx context.Context, order domain.Order) error {
	ev := NewOrderPlaced(ctx, order, p.now())

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", OrderPlacedName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ack, err := p.js.Publish(pubCtx, SubjectOrderPlaced, body, jetstream.WithMsgID(ev.EventID))
	if err != nil {
		return fmt.Errorf("publish %s: %w", SubjectOrderPlaced, err)
	}
	p.logger.Debug("published event", "subject", SubjectOrderPlaced, "order_id", order.ID, "seq", ack.Sequence)
	return nil
}
