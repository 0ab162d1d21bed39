package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kindredlabs/kindred/internal/store"
)

// Publisher publishes Kindred events to the bus.
type Publisher struct {
	client *Client
	logger *slog.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(client *Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Event is the envelope published to NATS.
type Event struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func (p *Publisher) publish(_ context.Context, subject string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if err := p.client.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	p.logger.Debug("published event", "subject", subject, "type", event.Type)
	return nil
}

// UserCreated publishes a user creation event.
func (p *Publisher) UserCreated(ctx context.Context, u *store.StoredUser) error {
	return p.publish(ctx, "kindred.users.created", Event{
		Type:      "users.created",
		Source:    "kindred",
		Timestamp: time.Now(),
		Data: map[string]any{
			"id":       u.ID,
			"name":     u.User.Name,
			"location": u.User.Location,
		},
	})
}

// UserSearched publishes a similarity search event (for analytics).
func (p *Publisher) UserSearched(ctx context.Context, matchID string, score float64) error {
	return p.publish(ctx, "kindred.users.searched", Event{
		Type:      "users.searched",
		Source:    "kindred",
		Timestamp: time.Now(),
		Data: map[string]any{
			"match_id":         matchID,
			"similarity_score": score,
		},
	})
}
