package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type ReassignShipmentCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReassignShipmentCommandHandler(uowFactory OrderUoWFactory) ReassignShipmentCommandHandler {
	return ReassignShipmentCommandHandler{uowFactory: uowFactory}
}

func (h ReassignShipmentCommandHandler) Handle(ctx context.Context, cmd ReassignShipmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			return o.ReassignShipment(cmd.Actor(), cmd.ShipmentID(), cmd.Assignment(), now)
		})
}
