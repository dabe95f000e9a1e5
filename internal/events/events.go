// Package events announces wallet changes to other services.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	RecordCreated   = "record.created"
	RecordDeleted   = "record.deleted"
	AccountDeleted  = "account.deleted"
	CategoryDeleted = "category.deleted"
)

// Event is published as JSON with its Type as routing key. Amount is the
// signed amount in cents and is zero for non-record events.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	AccountID  string    `json:"account_id,omitempty"`
	Amount     int64     `json:"amount_cents,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
