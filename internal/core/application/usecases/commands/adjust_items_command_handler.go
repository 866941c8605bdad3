package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type AdjustItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAdjustItemsCommandHandler(uowFactory OrderUoWFactory) AdjustItemsCommandHandler {
	return AdjustItemsCommandHandler{uowFactory: uowFactory}
}

func (h AdjustItemsCommandHandler) Handle(ctx context.Context, cmd AdjustItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			return o.Adjust(cmd.Actor(), cmd.Adjustments(), now)
		})
}
