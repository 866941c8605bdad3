package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrDispatchShipmentCommandIsNotConstructed = errors.New(
	"DispatchShipmentCommand must be created via NewDispatchShipmentCommand constructor",
)

// DispatchShipmentCommand allocates part of an order to a new driver trip.
//
// Example:
//
//	cmd, err := NewDispatchShipmentCommand(orderID, supervisor, order.DispatchRequest{
//	    Assignment: order.DriverAssignment{
//	        DriverID:          "drv-17",
//	        WarehouseLocation: "Main Yard",
//	        DispatchTime:      time.Now(),
//	    },
//	    Lines: []order.Line{{ItemName: "Cement", Quantity: 60}},
//	}, 0)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrAllocation) {
//	    // someone dispatched the same quantities first
//	}
type DispatchShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	request         order.DispatchRequest
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewDispatchShipmentCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	request order.DispatchRequest,
	expectedVersion int,
) (DispatchShipmentCommand, error) {
	cmd := DispatchShipmentCommand{
		request: request,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return DispatchShipmentCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c DispatchShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDispatchShipmentCommandIsNotConstructed)
}

func (c DispatchShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c DispatchShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c DispatchShipmentCommand) Request() order.DispatchRequest {
	return c.request
}

func (c DispatchShipmentCommand) ExpectedVersion() int {
	return c.expectedVersion
}
