package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type EditOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewEditOrderCommandHandler(uowFactory OrderUoWFactory) EditOrderCommandHandler {
	return EditOrderCommandHandler{uowFactory: uowFactory}
}

func (h EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			return o.EditDetails(cmd.Actor(), cmd.Details(), now)
		})
}
