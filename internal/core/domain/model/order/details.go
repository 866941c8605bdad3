package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ItemInput is one requested line of a create or edit.
type ItemInput struct {
	Name     string
	Quantity int
	Notes    string
}

// Details is the editable header and catalog of an order.
type Details struct {
	SerialNumber  string
	CustomerName  string
	AreaLocation  string
	OrderDate     time.Time
	ReceivingDate time.Time
	DeliveryShift DeliveryShift
	DeliveryType  DeliveryType
	Items         []ItemInput
	OverallNotes  string
}

// NewSerialNumber returns "SO-" followed by six random digits.
func NewSerialNumber() string {
	return fmt.Sprintf("SO-%d", 100000+rand.IntN(900000)) //nolint:gosec // not a secret
}

func (d Details) normalized(now time.Time) Details {
	d.SerialNumber = strings.TrimSpace(d.SerialNumber)
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.AreaLocation = strings.TrimSpace(d.AreaLocation)
	d.OverallNotes = strings.TrimSpace(d.OverallNotes)
	if d.OrderDate.IsZero() {
		d.OrderDate = now
	}
	if d.DeliveryShift == UnknownShift {
		d.DeliveryShift = FirstTrip
	}
	if d.DeliveryType == UnknownDeliveryType {
		d.DeliveryType = OwnFleet
	}
	return d
}

func (d Details) validate() error {
	var errList []error
	if d.CustomerName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customerName"))
	}
	if d.AreaLocation == "" {
		errList = append(errList, errs.NewValueIsRequiredError("areaLocation"))
	}
	if d.ReceivingDate.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("receivingDate"))
	}
	errList = append(errList, d.DeliveryShift.Validate(), d.DeliveryType.Validate())

	if len(d.Items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	seen := make(map[string]struct{}, len(d.Items))
	for idx, in := range d.Items {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(
				"itemName", fmt.Errorf("item %d has no name", idx+1)))
			continue
		}
		if in.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"quantity", fmt.Errorf("%s: %d is not greater than 0", name, in.Quantity)))
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("%s is listed more than once", name)))
		}
		seen[key] = struct{}{}
	}

	return errors.Join(errList...)
}

// EditDetails replaces the order details on behalf of two roles:
//   - the creating sales actor resubmits an order that is still waiting for
//     the assistant or was rejected; the order returns to PendingAssistant.
//   - the assistant corrects an order waiting for review; the status is kept.
//
// Surviving items keep their id and original quantity.
func (o *Order) EditDetails(actor kernel.Actor, details Details, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	var (
		to    Status
		entry string
	)
	switch {
	case actor.Is(kernel.Sales) && (o.status == PendingAssistant || o.status == Rejected):
		if actor.ID() != o.createdBy {
			return errs.NewTransitionDeniedErrorWithCause("edit", actor.Role().String(), o.status.String(),
				errors.New("only the creator may edit the order"))
		}
		to, entry = PendingAssistant, "Order Updated"
	case actor.Is(kernel.Assistant) && o.status == PendingAssistant:
		to, entry = o.status, "Modified Details Snapshot"
	default:
		return errs.NewTransitionDeniedError("edit", actor.Role().String(), o.status.String())
	}

	details = details.normalized(o.orderDate)
	if err := details.validate(); err != nil {
		return err
	}
	if err := o.replaceDetails(details); err != nil {
		return err
	}

	o.status = to
	o.record(actor.Role().Title(), entry, actor, now)
	return nil
}

// replaceDetails swaps header fields and the catalog. An item may not drop
// below what live shipments already carry nor rise above its original quantity.
func (o *Order) replaceDetails(d Details) error {
	items := make([]*Item, 0, len(d.Items))
	kept := make(map[string]struct{}, len(d.Items))

	for _, in := range d.Items {
		existing := o.findItem(in.Name)
		if existing == nil {
			item, err := NewItem(in.Name, in.Quantity, in.Notes)
			if err != nil {
				return err
			}
			items = append(items, item)
			continue
		}

		updated := *existing
		if err := updated.setQuantity(in.Quantity, o.allocated(existing.name, nil)); err != nil {
			return err
		}
		updated.notes = strings.TrimSpace(in.Notes)
		items = append(items, &updated)
		kept[strings.ToLower(existing.name)] = struct{}{}
	}

	for _, item := range o.items {
		if _, ok := kept[strings.ToLower(item.name)]; ok {
			continue
		}
		if shipped := o.allocated(item.name, nil); shipped > 0 {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("%s cannot be removed, %d already dispatched", item.name, shipped))
		}
	}

	if d.SerialNumber != "" {
		o.serialNumber = d.SerialNumber
	}
	o.customerName = d.CustomerName
	o.areaLocation = d.AreaLocation
	o.orderDate = d.OrderDate
	o.receivingDate = d.ReceivingDate
	o.deliveryShift = d.DeliveryShift
	o.deliveryType = d.DeliveryType
	o.overallNotes = d.OverallNotes
	o.items = items
	return nil
}

// Adjustment sets a new quantity for one item.
type Adjustment struct {
	ItemName string
	Quantity int
	Notes    string
}

func getAdjustingRoles() map[kernel.Role]struct{} {
	//nolint:exhaustive // only reviewing stages adjust
	return map[kernel.Role]struct{}{
		kernel.Assistant:        {},
		kernel.Finance:          {},
		kernel.Warehouse:        {},
		kernel.DriverSupervisor: {},
	}
}

// Adjust edits item quantities downward from their original values and
// records per-item notes. It never changes status. Either every adjustment
// applies or none does.
func (o *Order) Adjust(actor kernel.Actor, adjustments []Adjustment, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if _, ok := getAdjustingRoles()[actor.Role()]; !ok {
		return errs.NewTransitionDeniedError("adjust", actor.Role().String(), o.status.String())
	}
	if len(adjustments) == 0 {
		return errs.NewValueIsRequiredError("adjustments")
	}

	staged := make(map[*Item]Item, len(adjustments))
	var errList []error
	for _, adj := range adjustments {
		item := o.findItem(adj.ItemName)
		if item == nil {
			errList = append(errList, errs.NewObjectNotFoundError("itemName", adj.ItemName))
			continue
		}
		next, ok := staged[item]
		if !ok {
			next = *item
		}
		if err := next.setQuantity(adj.Quantity, o.allocated(item.name, nil)); err != nil {
			errList = append(errList, err)
			continue
		}
		if notes := strings.TrimSpace(adj.Notes); notes != "" {
			next.notes = notes
		}
		staged[item] = next
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	for item, next := range staged {
		item.quantity = next.quantity
		item.notes = next.notes
	}
	o.record(actor.Role().Title(), "Adjusted Quantities only and added notes", actor, now)
	return nil
}
