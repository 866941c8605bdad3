package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new order on behalf of a sales actor.
// Field-level validation of the details happens in the aggregate so that every
// problem is reported at once.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(salesActor, order.Details{
//	    CustomerName:  "Nile Builders",
//	    AreaLocation:  "Giza",
//	    ReceivingDate: tomorrow,
//	    Items:         []order.ItemInput{{Name: "Cement", Quantity: 100}},
//	})
//	if err != nil {
//	    return err
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	details order.Details

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(actor kernel.Actor, details order.Details) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := cmd.setActor(actor); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
