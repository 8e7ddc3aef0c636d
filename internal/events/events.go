// Package events publishes domain events about clients and users to Kafka.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TopicClientes = "cliente_events"
	TopicUsers    = "user_events"
)

const (
	TypeClienteCreated = "cliente.created"
	TypeClienteDeleted = "cliente.deleted"
	TypeUserRegistered = "user.registered"
	TypeUserLoggedIn   = "user.logged_in"
)

type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	PersonaID       uint      `json:"persona_id"`
	OccurredAt      time.Time `json:"occurred_at"`
	Nombre          string    `json:"nombre,omitempty"`
	ApellidoPaterno *string   `json:"apellido_paterno,omitempty"`
	Email           string    `json:"email,omitempty"`
	Rol             string    `json:"rol,omitempty"`
}

func New(typ string, personaID uint) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		PersonaID:  personaID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, topic string, e Event) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }

type Published struct {
	Topic string
	Event Event
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *Recorder) Publish(_ context.Context, topic string, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Topic: topic, Event: e})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	var types []string
	for _, p := range r.Events() {
		types = append(types, p.Event.Type)
	}
	return types
}
