package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAdjustItemsCommandIsNotConstructed = errors.New(
	"AdjustItemsCommand must be created via NewAdjustItemsCommand constructor",
)

// AdjustItemsCommand changes item quantities without moving the order's status.
type AdjustItemsCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	adjustments     []order.Adjustment
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewAdjustItemsCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	adjustments []order.Adjustment,
	expectedVersion int,
) (AdjustItemsCommand, error) {
	cmd := AdjustItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		cmd.setAdjustments(adjustments),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return AdjustItemsCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c AdjustItemsCommand) Validate() error {
	return c.guard.Validate(ErrAdjustItemsCommandIsNotConstructed)
}

func (c AdjustItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdjustItemsCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AdjustItemsCommand) Adjustments() []order.Adjustment {
	return append([]order.Adjustment(nil), c.adjustments...)
}

func (c AdjustItemsCommand) ExpectedVersion() int {
	return c.expectedVersion
}

func (c *AdjustItemsCommand) setAdjustments(adjustments []order.Adjustment) error {
	if len(adjustments) == 0 {
		return errs.NewValueIsRequiredError("adjustments")
	}

	c.adjustments = append([]order.Adjustment(nil), adjustments...)
	return nil
}
