// Package events announces storefront facts, such as a placed order, to
// other services.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/law7a/internal/domain"
)

// Subjects and event names.
const (
	SubjectOrderPlaced = "law7a.orders.placed"
	OrderPlacedName    = "OrderPlaced"
	OrderPlacedVersion = 1
	producer           = "law7a-storefront"
)

// Envelope is the common wrapper of every published event.
type Envelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Payload       T         `json:"payload"`
}

// Validate ensures the envelope carries the expected identity.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}

// NewOrderPlaced wraps an order. The request ID in ctx, if any, becomes the
// correlation ID.
func NewOrderPlaced(ctx context.Context, order domain.Order, now time.Time) Envelope[domain.Order] {
	return Envelope[domain.Order]{
		EventName:     OrderPlacedName,
		EventVersion:  OrderPlacedVersion,
		EventID:       uuid.NewString(),
		CorrelationID: domain.RequestIDFromContext(ctx),
		Producer:      producer,
		PartitionKey:  order.Owner,
		OccurredAt:    now.UTC(),
		Payload:       order,
	}
}

// LogPublisher writes order events to the log. It is used when no broker is
// configured.
type LogPublisher struct {
	Logger *slog.Logger
}

// OrderPlaced logs the order.
func (p LogPublisher) OrderPlaced(ctx context.Context, order domain.Order) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "order placed event",
		"subject", SubjectOrderPlaced,
		"order_id", order.ID,
		"owner", order.Owner,
		"total", order.Total.StringFixed(2),
		"currency", order.Currency,
	)
	return nil
}
