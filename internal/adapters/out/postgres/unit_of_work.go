// Package postgres provides the GORM implementation of the unit of work.
// A unit of work maintains the aggregates written during one business
// transaction and, once the transaction commits, reports them to a commit
// listener.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, projector)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	repo := uow.OrderRepository()
//	o, err := repo.GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	// ... mutate o
//	if err = repo.Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency:
//   - Each UnitOfWork instance owns one transaction; use one per goroutine.
//   - GetForUpdate row locks serialize writers of the same order.
//   - Rollback after a successful Commit is a harmless no-op error.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one optional commit listener.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	listener ports.CommitListener
}

// NewGormUnitOfWorkFactory creates a factory. listener may be nil.
func NewGormUnitOfWorkFactory(db *gorm.DB, listener ports.CommitListener) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, listener: listener}
}

// Create produces a fresh UnitOfWork with its own transaction state and
// aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		listener:          f.listener,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates repositories wrote inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	listener          ports.CommitListener
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then hands the ids of the written
// orders to the commit listener. A listener never sees a rolled-back write.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	if ids := uow.trackedIDs(); uow.listener != nil && len(ids) > 0 {
		uow.listener.OrdersCommitted(ctx, ids)
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and everything tracked inside it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository returns a repository bound to the open transaction, or to
// the plain connection when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// trackedIDs returns the distinct ids in first-write order.
func (uow *GormUnitOfWork) trackedIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(uow.trackedAggregates))
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		ids = append(ids, t.ID)
	}
	return ids
}
