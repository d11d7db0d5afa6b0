package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub. The returned teardown closes the client.
func New(ctx context.Context, projectID string) (PubSubClient, func(), error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	c := &client{
		client:   pubSubC,
		teardown: teardown,
	}
	return c, teardown, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event_type": string(topic)},
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Info("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

// Encode serializes an event body with MessagePack.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return b, nil
}

// Decode unmarshals MessagePack data into the provided pointer.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}

// disabled is used when no GCP project is configured. Events are dropped with a debug log.
type disabled struct{}

// NewDisabled returns a client that accepts and discards every event.
func NewDisabled() PubSubClient {
	return disabled{}
}

func (disabled) SendMessage(ctx context.Context, topic EventType, data any) error {
	log.Debug("Pub/Sub disabled, dropping event", "topic", topic)
	return nil
}

func (disabled) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}
