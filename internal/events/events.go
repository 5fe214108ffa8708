// Package events publishes registrar notifications to external observers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"leasehold/pkg/domain"
)

// Type names a registrar notification.
type Type string

const (
	TypeLeaseRegistered      Type = "lease.registered"
	TypeLeaseRenewed         Type = "lease.renewed"
	TypeFeeUpdated           Type = "fee.updated"
	TypeTreasuryWithdrawn    Type = "treasury.withdrawn"
	TypeNamespaceTransferred Type = "namespace.transferred"
	TypeRegistrarPaused      Type = "registrar.paused"
	TypeRegistrarUnpaused    Type = "registrar.unpaused"
)

// Event is a registrar notification. Lease events carry the lease window and
// token; fee and treasury events carry Amount; namespace transfers carry
// Owner. Unused fields stay zero.
type Event struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Label     domain.Label    `json:"label,omitempty"`
	Owner     domain.Identity `json:"owner,omitempty"`
	StartTime time.Time       `json:"start_time,omitzero"`
	EndTime   time.Time       `json:"end_time,omitzero"`
	TokenID   domain.TokenID  `json:"token_id,omitempty"`
	Amount    uint64          `json:"amount,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher delivers events to observers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Stamp fills the generated fields of an event before publication.
func Stamp(event Event, now time.Time) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	return event
}

// Memory collects events in process. Tests and standalone mode use it as the
// sink; Events returns a copy of everything published so far.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory constructs an empty in-process sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a snapshot of published events in publication order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
