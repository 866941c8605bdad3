package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// mutateOrder runs one read-modify-write of an order inside a unit of work.
// expectedVersion is the version the caller last saw; zero skips the check.
// Nothing is written when apply fails.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	expectedVersion int,
	apply func(o *order.Order, now time.Time) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if expectedVersion != 0 && expectedVersion != o.Version() {
		return nil, errs.NewConcurrencyConflictError("order", orderID, expectedVersion, o.Version())
	}

	if err = apply(o, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func setExpectedVersion(v int, target *int) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause("expectedVersion", fmt.Errorf("%d is negative", v))
	}
	*target = v
	return nil
}
