package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// DispatchShipmentCommandHandler creates a trip. Remaining quantities are
// computed from the order loaded under the row lock, so two concurrent
// dispatches of the same quantities cannot both succeed.
type DispatchShipmentCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDispatchShipmentCommandHandler(uowFactory OrderUoWFactory) DispatchShipmentCommandHandler {
	return DispatchShipmentCommandHandler{uowFactory: uowFactory}
}

// Handle returns the updated order and the created shipment.
func (h DispatchShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchShipmentCommand,
) (*order.Order, *order.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	var shipment *order.Shipment
	o, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			s, err := o.DispatchShipment(cmd.Actor(), cmd.Request(), now)
			shipment = s
			return err
		})
	if err != nil {
		return nil, nil, err
	}

	return o, shipment, nil
}
