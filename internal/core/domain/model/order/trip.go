package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// driverShipment resolves the trip a driver acts on. Drivers only act on
// their own trips and never on a terminal order.
func (o *Order) driverShipment(actor kernel.Actor, shipmentID kernel.UUID, action string) (*Shipment, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	s, err := o.Shipment(shipmentID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(kernel.TruckDriver) || o.status.IsTerminal() {
		return nil, errs.NewTransitionDeniedError(action, actor.Role().String(), o.status.String())
	}
	if s.assignment.DriverID != actor.ID() {
		return nil, errs.NewTransitionDeniedErrorWithCause(action, actor.Role().String(), s.status.String(),
			errors.New("trip is assigned to another driver"))
	}
	return s, nil
}

// PickUpShipment moves a trip from Assigned to PickedUp and stamps the
// actual pickup time. The order status is unchanged.
func (o *Order) PickUpShipment(actor kernel.Actor, shipmentID kernel.UUID, now time.Time) error {
	s, err := o.driverShipment(actor, shipmentID, "pick up")
	if err != nil {
		return err
	}
	if !s.status.canPickUp() {
		return errs.NewTransitionDeniedError("pick up", actor.Role().String(), s.status.String())
	}

	pickedUp := now
	s.status = ShipmentPickedUp
	s.actualPickupTime = &pickedUp

	o.record(kernel.TruckDriver.Title(), "Shipment Picked Up", actor, now)
	return nil
}

// DeliverShipment closes a picked-up trip with a delivery photo reference.
// The order completes once every trip is delivered and the order is fully
// shipped. A trip still in Emergency keeps the order open.
func (o *Order) DeliverShipment(actor kernel.Actor, shipmentID kernel.UUID, photoRef string, now time.Time) error {
	s, err := o.driverShipment(actor, shipmentID, "deliver")
	if err != nil {
		return err
	}
	if !s.status.canDeliver() {
		return errs.NewTransitionDeniedError("deliver", actor.Role().String(), s.status.String())
	}
	photoRef = strings.TrimSpace(photoRef)
	if photoRef == "" {
		return errs.NewValueIsRequiredError("deliveryPhotoRef")
	}

	delivered := now
	s.status = ShipmentDelivered
	s.deliveredAt = &delivered
	s.deliveryPhotoRef = photoRef

	entry := "Shipment Delivered"
	if s.actualPickupTime != nil {
		entry += fmt.Sprintf(" (Trip Duration: %s)", FormatTripDuration(now.Sub(*s.actualPickupTime)))
	}

	if st, ok := DeriveStatus(o.items, o.shipments); ok && st == Completed {
		o.status = Completed
	}
	o.record(kernel.TruckDriver.Title(), entry, actor, now)
	return nil
}

// ReportEmergency puts an Assigned or PickedUp trip into Emergency and the
// order on hold. The trip's quantities are released until it is resolved or
// reassigned.
func (o *Order) ReportEmergency(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	details string,
	hasImage bool,
	now time.Time,
) error {
	s, err := o.driverShipment(actor, shipmentID, "report emergency")
	if err != nil {
		return err
	}
	if !s.status.canReportEmergency() {
		return errs.NewTransitionDeniedError("report emergency", actor.Role().String(), s.status.String())
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return errs.NewValueIsRequiredError("details")
	}

	s.status = ShipmentEmergency
	s.emergency = &EmergencyReport{ReportedAt: now, Details: details, HasImage: hasImage}
	o.status = OnHold

	o.record(kernel.TruckDriver.Title(),
		fmt.Sprintf("EMERGENCY/ACCIDENT: %s. Requesting Re-Assignment.", details), actor, now)
	return nil
}

// ResolveEmergency resumes a trip: Emergency goes back to PickedUp and the
// order to InTransit. It fails with an allocation error when the
// released quantities were dispatched on another trip meanwhile.
func (o *Order) ResolveEmergency(actor kernel.Actor, shipmentID kernel.UUID, now time.Time) error {
	s, err := o.driverShipment(actor, shipmentID, "resolve emergency")
	if err != nil {
		return err
	}
	if !s.status.canResolve() {
		return errs.NewTransitionDeniedError("resolve emergency", actor.Role().String(), s.status.String())
	}
	if err = o.checkReturning(s); err != nil {
		return err
	}

	s.status = ShipmentPickedUp
	s.emergency = nil
	if s.actualPickupTime == nil {
		pickedUp := now
		s.actualPickupTime = &pickedUp
	}

	o.status = InTransit
	o.record(kernel.TruckDriver.Title(), "Emergency Resolved - Resuming Delivery", actor, now)
	return nil
}
