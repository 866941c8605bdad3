package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrAdminOverrideCommandIsNotConstructed = errors.New(
	"AdminOverrideCommand must be created via NewAdminOverrideCommand constructor",
)

// OverridePayload is the kind-specific input of an override. NewCustomer and
// NewArea apply to transfers, Details to edits.
type OverridePayload struct {
	NewCustomer string
	NewArea     string
	Details     order.Details
}

// AdminOverrideCommand cancels, transfers or edits an order regardless of its
// state. The actor must be an administrator and give a reason; both are
// checked by the aggregate so a denied override is reported the same way as
// any other denied transition.
type AdminOverrideCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	kind            order.OverrideKind
	reason          string
	payload         OverridePayload
	expectedVersion int

	guard guard.ConstructorGuard
}

func NewAdminOverrideCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	kind order.OverrideKind,
	reason string,
	payload OverridePayload,
	expectedVersion int,
) (AdminOverrideCommand, error) {
	cmd := AdminOverrideCommand{
		reason:  reason,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		cmd.setKind(kind),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return AdminOverrideCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c AdminOverrideCommand) Validate() error {
	return c.guard.Validate(ErrAdminOverrideCommandIsNotConstructed)
}

func (c AdminOverrideCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdminOverrideCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AdminOverrideCommand) Kind() order.OverrideKind {
	return c.kind
}

func (c AdminOverrideCommand) Reason() string {
	return c.reason
}

func (c AdminOverrideCommand) Payload() OverridePayload {
	return c.payload
}

func (c AdminOverrideCommand) ExpectedVersion() int {
	return c.expectedVersion
}

func (c *AdminOverrideCommand) setKind(kind order.OverrideKind) error {
	if _, err := order.ParseOverrideKind(kind.String()); err != nil {
		return err
	}

	c.kind = kind
	return nil
}
