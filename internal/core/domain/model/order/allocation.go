package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// allocated sums what non-Emergency shipments carry of itemName, skipping
// the shipment identified by except when it is set.
func (o *Order) allocated(itemName string, except *Shipment) int {
	total := 0
	for _, s := range o.shipments {
		if s == except || s.status == ShipmentEmergency {
			continue
		}
		total += s.Quantity(itemName)
	}
	return total
}

// Remaining is the unallocated quantity of itemName. Quantities on trips in
// Emergency are released back to the order.
func (o *Order) Remaining(itemName string) int {
	item := o.findItem(itemName)
	if item == nil {
		return 0
	}
	return item.quantity - o.allocated(item.name, nil)
}

// TotalShipped sums every non-Emergency shipment.
func (o *Order) TotalShipped() int {
	total := 0
	for _, s := range o.shipments {
		if s.status != ShipmentEmergency {
			total += s.TotalQuantity()
		}
	}
	return total
}

// DeriveStatus recomputes the shipment-driven status from items and
// shipments alone. ok is false when there is nothing to derive from.
// Trips in Emergency count as not shipped and not delivered.
//
//   - every trip delivered and the order fully covered: Completed
//   - fully covered by non-Emergency trips: InTransit
//   - otherwise: PartiallyShipped
//
// Reporting, resolving and reassigning an emergency set the status
// explicitly (OnHold, InTransit) and are not reproduced here.
func DeriveStatus(items []*Item, shipments []*Shipment) (Status, bool) {
	if len(shipments) == 0 {
		return Unknown, false
	}

	ordered := 0
	for _, item := range items {
		ordered += item.quantity
	}

	shipped, live := 0, 0
	allDelivered := true
	for _, s := range shipments {
		if s.status != ShipmentDelivered {
			allDelivered = false
		}
		if s.status == ShipmentEmergency {
			continue
		}
		live++
		shipped += s.TotalQuantity()
	}

	covered := live > 0 && shipped >= ordered
	switch {
	case covered && allDelivered:
		return Completed, true
	case covered:
		return InTransit, true
	default:
		return PartiallyShipped, true
	}
}

func (o *Order) rederive() {
	if st, ok := DeriveStatus(o.items, o.shipments); ok {
		o.status = st
	}
}

func (o *Order) dispatchable() bool {
	switch o.status {
	case ReadyForDriver, PartiallyShipped, InTransit:
		return true
	case OnHold:
		return o.HasEmergencyShipment()
	default:
		return false
	}
}

// DispatchRequest asks for a new trip carrying Lines.
type DispatchRequest struct {
	Assignment DriverAssignment
	Lines      []Line
}

// DispatchShipment allocates part of the remaining quantities to a new trip
// in Assigned state and recomputes the order status.
func (o *Order) DispatchShipment(actor kernel.Actor, req DispatchRequest, now time.Time) (*Shipment, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if !actor.Is(kernel.DriverSupervisor) || !o.dispatchable() {
		return nil, errs.NewTransitionDeniedError("dispatch", actor.Role().String(), o.status.String())
	}
	if err := req.Assignment.validate(true); err != nil {
		return nil, err
	}

	lines, err := o.allocate(req.Lines)
	if err != nil {
		return nil, err
	}

	shipment := newShipment(req.Assignment, lines)
	o.shipments = append(o.shipments, shipment)
	o.rederive()
	o.record(kernel.DriverSupervisor.Title(),
		fmt.Sprintf("Dispatched Shipment to %s", shipment.assignment.DriverName), actor, now)
	return shipment, nil
}

// allocate validates requested lines against remaining quantities and drops
// zero lines. Item names are normalised to the order's spelling.
func (o *Order) allocate(requested []Line) ([]Line, error) {
	lines := make([]Line, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))

	for _, l := range requested {
		item := o.findItem(l.ItemName)
		if item == nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("itemName",
				fmt.Errorf("%q is not an item of this order", l.ItemName))
		}
		key := strings.ToLower(item.name)
		if _, dup := seen[key]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("%s is listed more than once", item.name))
		}
		seen[key] = struct{}{}

		if l.Quantity < 0 {
			return nil, errs.NewValueIsOutOfRangeError(item.name, l.Quantity, 0, item.quantity)
		}
		if l.Quantity == 0 {
			continue
		}
		if remaining := o.Remaining(item.name); l.Quantity > remaining {
			return nil, errs.NewAllocationError(item.name, l.Quantity, remaining)
		}
		lines = append(lines, Line{ItemName: item.name, Quantity: l.Quantity})
	}

	if len(lines) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("items",
			errors.New("at least one item quantity must be greater than 0"))
	}
	return lines, nil
}

// checkReturning verifies that a trip coming back from Emergency still fits
// in the remaining quantities, which may have been re-dispatched meanwhile.
func (o *Order) checkReturning(s *Shipment) error {
	if s.status != ShipmentEmergency {
		return nil
	}
	for _, l := range s.lines {
		item := o.findItem(l.ItemName)
		if item == nil {
			return errs.NewObjectNotFoundError("itemName", l.ItemName)
		}
		if remaining := item.quantity - o.allocated(item.name, s); l.Quantity > remaining {
			return errs.NewAllocationError(item.name, l.Quantity, remaining)
		}
	}
	return nil
}

// ReassignShipment hands a trip to another driver in place. The trip returns
// to Assigned, any emergency report is cleared, quantities are unchanged and
// the order goes back to InTransit.
func (o *Order) ReassignShipment(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	assignment DriverAssignment,
	now time.Time,
) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	s, err := o.Shipment(shipmentID)
	if err != nil {
		return err
	}
	if !actor.Is(kernel.DriverSupervisor) || o.status.IsTerminal() || !s.status.canReassign() {
		return errs.NewTransitionDeniedError("reassign", actor.Role().String(), s.status.String())
	}
	if err = assignment.validate(false); err != nil {
		return err
	}
	if err = o.checkReturning(s); err != nil {
		return err
	}

	from := s.assignment.DriverName
	assignment.DriverName = assignment.displayName()
	if strings.TrimSpace(assignment.WarehouseLocation) == "" {
		assignment.WarehouseLocation = s.assignment.WarehouseLocation
	}

	s.assignment = assignment
	s.status = ShipmentAssigned
	s.emergency = nil
	s.actualPickupTime = nil

	o.status = InTransit
	o.record(kernel.DriverSupervisor.Title(),
		fmt.Sprintf("RE-ASSIGNED: Trip transferred from %s to %s", from, assignment.DriverName), actor, now)
	return nil
}
