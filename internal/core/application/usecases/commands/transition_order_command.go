package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand carries one role-gated status change: approve,
// reject, ready, hold or cancel.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, financeActor, order.Reject, "Credit limit exceeded", 4)
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrTransitionDenied) {
//	    // wrong role, wrong state or a stale version
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	action          order.Action
	note            string
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	action order.Action,
	note string,
	expectedVersion int,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		cmd.setAction(action),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c TransitionOrderCommand) Action() order.Action {
	return c.action
}

func (c TransitionOrderCommand) Note() string {
	return c.note
}

func (c TransitionOrderCommand) ExpectedVersion() int {
	return c.expectedVersion
}

func (c *TransitionOrderCommand) setAction(action order.Action) error {
	if _, err := order.ParseAction(action.String()); err != nil {
		return err
	}

	c.action = action
	return nil
}
