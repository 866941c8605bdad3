package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// UpdateTripCommandHandler applies a driver's trip report. Drivers may only
// act on their own trips and never on a completed or canceled order.
type UpdateTripCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUpdateTripCommandHandler(uowFactory OrderUoWFactory) UpdateTripCommandHandler {
	return UpdateTripCommandHandler{uowFactory: uowFactory}
}

func (h UpdateTripCommandHandler) Handle(ctx context.Context, cmd UpdateTripCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			report := cmd.Report()
			switch cmd.Event() {
			case TripPickedUp:
				return o.PickUpShipment(cmd.Actor(), cmd.ShipmentID(), now)
			case TripDelivered:
				return o.DeliverShipment(cmd.Actor(), cmd.ShipmentID(), report.PhotoRef, now)
			case TripEmergency:
				return o.ReportEmergency(cmd.Actor(), cmd.ShipmentID(), report.Details, report.HasImage, now)
			case TripResumed:
				return o.ResolveEmergency(cmd.Actor(), cmd.ShipmentID(), now)
			default:
				return errs.NewValueIsInvalidError("event")
			}
		})
}
