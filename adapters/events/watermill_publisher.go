package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/squadlabs/zkconnect/ports"
)

// SessionEvent is published when a login session is established or ended.
type SessionEvent struct {
	Address string    `json:"address"`
	Action  string    `json:"action"`
	At      time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     "zkconnect.session",
	}
}

// PublishLogin publishes a session-established event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address string) error {
	return p.publish(address, "login")
}

// PublishLogout publishes a session-ended event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string) error {
	return p.publish(address, "logout")
}

func (p *WatermillPublisher) publish(address, action string) error {
	event := SessionEvent{
		Address: address,
		Action:  action,
		At:      time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
