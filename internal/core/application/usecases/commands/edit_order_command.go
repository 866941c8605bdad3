package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrEditOrderCommandIsNotConstructed = errors.New(
	"EditOrderCommand must be created via NewEditOrderCommand constructor",
)

// EditOrderCommand replaces order details: a creator resubmitting a pending
// or rejected order, or the assistant correcting one under review.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	details         order.Details
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewEditOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	details order.Details,
	expectedVersion int,
) (EditOrderCommand, error) {
	cmd := EditOrderCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return EditOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

func (c EditOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c EditOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c EditOrderCommand) Details() order.Details {
	return c.details
}

func (c EditOrderCommand) ExpectedVersion() int {
	return c.expectedVersion
}
