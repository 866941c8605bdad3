package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// TransitionOrderCommandHandler applies a status change from the transition table.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{uowFactory: uowFactory}
}

// Handle returns the updated order. A denied transition leaves the stored
// order and its history untouched.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			return o.Transition(cmd.Actor(), cmd.Action(), cmd.Note(), now)
		})
}
