// Package events publishes reservation lifecycle events to interested
// consumers. Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/table-reservations/models"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionCancelled Action = "cancelled"
)

type Event struct {
	ID          string             `json:"id"`
	Action      Action             `json:"action"`
	Reservation models.Reservation `json:"reservation"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func NewEvent(action Action, res models.Reservation) Event {
	return Event{
		ID:          uuid.NewString(),
		Action:      action,
		Reservation: res,
		OccurredAt:  time.Now(),
	}
}

// RoutingKey -> "reservation.created", "reservation.cancelled", ...
func (e Event) RoutingKey() string {
	return "reservation." + string(e.Action)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher dipakai kalau AMQP_URL tidak diset
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
