package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists a new order in PendingAssistant.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the order and returns it with its generated id and serial number.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.Details(), cmd.Actor(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
