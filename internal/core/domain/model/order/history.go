package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// HistoryEvent is one audit entry. Entries are never edited or removed and
// keep insertion order.
type HistoryEvent struct {
	role      string
	action    string
	actor     string
	timestamp time.Time
}

// RestoreHistoryEvent rebuilds a persisted audit entry.
func RestoreHistoryEvent(role, action, actor string, timestamp time.Time) HistoryEvent {
	return HistoryEvent{role: role, action: action, actor: actor, timestamp: timestamp}
}

// Role is the stage title, or kernel.AdminTitle for overrides.
func (e HistoryEvent) Role() string {
	return e.role
}

func (e HistoryEvent) Action() string {
	return e.action
}

// Actor is the display name of whoever performed the action.
func (e HistoryEvent) Actor() string {
	return e.actor
}

func (e HistoryEvent) Timestamp() time.Time {
	return e.timestamp
}

func (o *Order) record(role, action string, actor kernel.Actor, now time.Time) {
	o.history = append(o.history, HistoryEvent{
		role:      role,
		action:    action,
		actor:     actor.DisplayName(),
		timestamp: now,
	})
}
