package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary around order writes.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the transaction and then notifies the registered
	// CommitListener with the orders written inside it.
	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction,
	// or to the plain connection when none is open.
	OrderRepository() OrderRepository
}

// CommitListener is told which orders a committed transaction wrote.
// It runs after the commit and cannot undo it.
type CommitListener interface {
	OrdersCommitted(ctx context.Context, ids []kernel.UUID)
}
