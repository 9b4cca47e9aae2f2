package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"account-service/internal/model"
)

type Publisher interface {
	PublishUserRegistered(user *model.User) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type UserRegisteredEvent struct {
	EventType    string    `json:"event_type"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (p *NatsPublisher) PublishUserRegistered(user *model.User) error {
	event := UserRegisteredEvent{
		EventType:    "user.registered",
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		RegisteredAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := "user.registered"
	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("failed to publish to NATS", "subject", subject, "error", err)
		return err
	}

	slog.Debug("published event to NATS", "subject", subject, "user_id", user.ID)

	return nil
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher keeps the API serving when no broker is reachable,
// e.g. in local development and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserRegistered(*model.User) error { return nil }
