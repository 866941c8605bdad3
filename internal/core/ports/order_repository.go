// Package ports defines the contracts between the fulfillment core and its
// infrastructure: order persistence, the unit of work, the board cache and
// the draft extraction assistant.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is stored together with its items, shipments and history.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate back if the stored version still equals
	// aggregate.Version(), then advances the version. A stale write fails with
	// errs.ConcurrencyConflictError and changes nothing.
	// History is append-only: stored entries are never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items, shipments and history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get under a row lock held until the surrounding
	// transaction ends. Writers to the same order serialize on it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns the orders matching filter, newest order date first.
	List(ctx context.Context, filter order.Filter) ([]*order.Order, error)

	// ListForBoard returns the orders that can contribute to the board:
	// every non-terminal order plus those overridden at or after alertsSince.
	ListForBoard(ctx context.Context, alertsSince time.Time) ([]*order.Order, error)
}
