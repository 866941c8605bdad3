package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrReassignShipmentCommandIsNotConstructed = errors.New(
	"ReassignShipmentCommand must be created via NewReassignShipmentCommand constructor",
)

// ReassignShipmentCommand hands an existing trip to another driver.
type ReassignShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	shipmentID      kernel.UUID
	actor           kernel.Actor
	assignment      order.DriverAssignment
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewReassignShipmentCommand(
	orderID kernel.UUID,
	shipmentID kernel.UUID,
	actor kernel.Actor,
	assignment order.DriverAssignment,
	expectedVersion int,
) (ReassignShipmentCommand, error) {
	cmd := ReassignShipmentCommand{
		assignment: assignment,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		shipmentID.Validate(),
		actor.Validate(),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return ReassignShipmentCommand{}, err
	}
	cmd.orderID = orderID
	cmd.shipmentID = shipmentID
	cmd.actor = actor

	return cmd, nil
}

func (c ReassignShipmentCommand) Validate() error {
	return c.guard.Validate(ErrReassignShipmentCommandIsNotConstructed)
}

func (c ReassignShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReassignShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c ReassignShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ReassignShipmentCommand) Assignment() order.DriverAssignment {
	return c.assignment
}

func (c ReassignShipmentCommand) ExpectedVersion() int {
	return c.expectedVersion
}
