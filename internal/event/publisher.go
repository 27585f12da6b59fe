// Package event publishes address lifecycle events to Kafka. The publisher's
// methods match the hook registry's callback signature so it is wired in as
// an ordinary post-insert/update/delete subscriber.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/utafrali/addressbook/internal/hook"
	"github.com/utafrali/addressbook/pkg/kafka"
	"github.com/utafrali/addressbook/pkg/logger"
)

// Kafka topics for address events.
const (
	TopicAddressCreated = "ecommerce.address.created"
	TopicAddressUpdated = "ecommerce.address.updated"
	TopicAddressDeleted = "ecommerce.address.deleted"
)

// Event types carried in the envelope.
const (
	TypeAddressCreated = "address.created"
	TypeAddressUpdated = "address.updated"
	TypeAddressDeleted = "address.deleted"
)

const (
	aggregateType = "address"
	source        = "addressbook-service"
)

// AddressEventData is the payload of every address event.
type AddressEventData struct {
	AddressID       int64  `json:"address_id"`
	UserID          int64  `json:"user_id"`
	Nickname        string `json:"nickname,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	DefaultShipping bool   `json:"default_shipping"`
	DefaultBilling  bool   `json:"default_billing"`
}

// Publisher emits address events. Publish failures are logged, never
// propagated: an event broker outage must not fail address writes.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates an address event publisher.
func NewPublisher(producer *kafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// Register subscribes the publisher to the address lifecycle hooks.
func (p *Publisher) Register(hooks *hook.Registry) {
	hooks.OnPostInsert(p.AddressCreated)
	hooks.OnPostUpdate(p.AddressUpdated)
	hooks.OnPostDelete(p.AddressDeleted)
}

// AddressCreated publishes an address.created event.
func (p *Publisher) AddressCreated(ctx context.Context, address hook.Address) {
	p.publish(ctx, TopicAddressCreated, TypeAddressCreated, address)
}

// AddressUpdated publishes an address.updated event.
func (p *Publisher) AddressUpdated(ctx context.Context, address hook.Address) {
	p.publish(ctx, TopicAddressUpdated, TypeAddressUpdated, address)
}

// AddressDeleted publishes an address.deleted event.
func (p *Publisher) AddressDeleted(ctx context.Context, address hook.Address) {
	p.publish(ctx, TopicAddressDeleted, TypeAddressDeleted, address)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType string, address hook.Address) {
	data := AddressEventData{
		AddressID:       address.ID(),
		UserID:          address.Owner(),
		Nickname:        address.Name(),
		City:            fieldString(address, "city"),
		Country:         fieldString(address, "country"),
		DefaultShipping: address.IsDefault("shipping"),
		DefaultBilling:  address.IsDefault("billing"),
	}

	evt, err := kafka.NewEvent(eventType, strconv.FormatInt(address.ID(), 10), aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build address event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish address event",
			slog.String("event_type", eventType),
			slog.Int64("address_id", address.ID()),
			slog.String("error", err.Error()),
		)
	}
}

func fieldString(address hook.Address, name string) string {
	v, err := address.GetField(name)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
