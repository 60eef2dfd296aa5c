package events

import (
	"company-data-manager/internal/logger"
	"company-data-manager/pkg/mqtt"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=publisher.go -destination=mocks/publisher.go -package=mocks

const (
	TypeStatusChanged  = "shipment.status_changed"
	TypeTrackingUpdate = "shipment.tracking_update"
)

// Event is published after a shipment change has been committed.
type Event struct {
	Type           string    `json:"type"`
	ShipmentID     uint      `json:"shipment_id"`
	ShipmentNumber string    `json:"shipment_number"`
	Status         string    `json:"status"`
	Location       string    `json:"location,omitempty"`
	ActorID        uint      `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MQTTPublisher sends events to <prefix>/shipments/<shipment_number>/events.
type MQTTPublisher struct {
	client *mqtt.Client
	prefix string
	qos    byte
}

func NewMQTTPublisher(client *mqtt.Client, prefix string, qos int) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: prefix,
		qos:    byte(qos),
	}
}

func (p *MQTTPublisher) Topic(shipmentNumber string) string {
	return fmt.Sprintf("%s/shipments/%s/events", p.prefix, shipmentNumber)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("mqtt client is not connected")
	}

	topic := p.Topic(event.ShipmentNumber)
	if err := p.client.PublishJSON(topic, p.qos, event); err != nil {
		return err
	}

	logger.Debug("Shipment event published",
		zap.String("topic", topic),
		zap.String("type", event.Type),
	)

	return nil
}

// NoopPublisher drops every event. Used when MQTT is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
