package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the fulfillment workflow. Its status moves
// only through the transition table, the allocator operations and the
// administrative overrides; every successful mutation appends to history.
type Order struct {
	id            kernel.UUID
	serialNumber  string
	customerName  string
	areaLocation  string
	orderDate     time.Time
	receivingDate time.Time
	deliveryShift DeliveryShift
	deliveryType  DeliveryType
	items         []*Item
	overallNotes  string
	warehouseNote string

	status         Status
	history        []HistoryEvent
	createdBy      string
	creatorName    string
	createdAt      time.Time
	shipments      []*Shipment
	adminEmergency *AdminEmergency

	// version is the persisted revision this aggregate was loaded at.
	version int

	isConstructed bool
}

// NewOrder registers an order on behalf of a sales actor. The order starts in
// PendingAssistant with a single "Order Created" history entry.
func NewOrder(details Details, creator kernel.Actor, now time.Time) (*Order, error) {
	if err := creator.Validate(); err != nil {
		return nil, err
	}
	if !creator.Is(kernel.Sales) {
		return nil, errs.NewTransitionDeniedError("create", creator.Role().String(), Unknown.String())
	}

	details = details.normalized(now)
	if err := details.validate(); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(details.Items))
	for _, in := range details.Items {
		item, err := NewItem(in.Name, in.Quantity, in.Notes)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o := &Order{
		id:            kernel.NewUUID(),
		serialNumber:  details.SerialNumber,
		customerName:  details.CustomerName,
		areaLocation:  details.AreaLocation,
		orderDate:     details.OrderDate,
		receivingDate: details.ReceivingDate,
		deliveryShift: details.DeliveryShift,
		deliveryType:  details.DeliveryType,
		items:         items,
		overallNotes:  details.OverallNotes,
		status:        PendingAssistant,
		createdBy:     creator.ID(),
		creatorName:   creator.DisplayName(),
		createdAt:     now,
		version:       1,
		isConstructed: true,
	}
	if o.serialNumber == "" {
		o.serialNumber = NewSerialNumber()
	}

	o.record(kernel.Sales.Title(), "Order Created", creator, now)
	return o, nil
}

// Snapshot carries persisted order state into RestoreOrder.
type Snapshot struct {
	ID             kernel.UUID
	SerialNumber   string
	CustomerName   string
	AreaLocation   string
	OrderDate      time.Time
	ReceivingDate  time.Time
	DeliveryShift  DeliveryShift
	DeliveryType   DeliveryType
	Items          []*Item
	OverallNotes   string
	WarehouseNote  string
	Status         Status
	History        []HistoryEvent
	CreatedBy      string
	CreatorName    string
	CreatedAt      time.Time
	Shipments      []*Shipment
	AdminEmergency *AdminEmergency
	Version        int
}

// RestoreOrder rebuilds an aggregate from storage without replaying the workflow.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Status.Validate(),
		s.DeliveryType.Validate(),
		s.DeliveryShift.Validate(),
	); err != nil {
		return nil, err
	}
	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	for _, sh := range s.Shipments {
		if err := sh.Validate(); err != nil {
			return nil, err
		}
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", s.Version))
	}

	return &Order{
		id:             s.ID,
		serialNumber:   s.SerialNumber,
		customerName:   s.CustomerName,
		areaLocation:   s.AreaLocation,
		orderDate:      s.OrderDate,
		receivingDate:  s.ReceivingDate,
		deliveryShift:  s.DeliveryShift,
		deliveryType:   s.DeliveryType,
		items:          append([]*Item(nil), s.Items...),
		overallNotes:   s.OverallNotes,
		warehouseNote:  s.WarehouseNote,
		status:         s.Status,
		history:        append([]HistoryEvent(nil), s.History...),
		createdBy:      s.CreatedBy,
		creatorName:    s.CreatorName,
		createdAt:      s.CreatedAt,
		shipments:      append([]*Shipment(nil), s.Shipments...),
		adminEmergency: s.AdminEmergency,
		version:        s.Version,
		isConstructed:  true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) SerialNumber() string {
	return o.serialNumber
}

func (o *Order) CustomerName() string {
	return o.customerName
}

func (o *Order) AreaLocation() string {
	return o.areaLocation
}

func (o *Order) OrderDate() time.Time {
	return o.orderDate
}

func (o *Order) ReceivingDate() time.Time {
	return o.receivingDate
}

func (o *Order) DeliveryShift() DeliveryShift {
	return o.deliveryShift
}

func (o *Order) DeliveryType() DeliveryType {
	return o.deliveryType
}

func (o *Order) Items() []*Item {
	return append([]*Item(nil), o.items...)
}

func (o *Order) OverallNotes() string {
	return o.overallNotes
}

func (o *Order) WarehouseNote() string {
	return o.warehouseNote
}

func (o *Order) Status() Status {
	return o.status
}

// History returns the audit trail oldest first.
func (o *Order) History() []HistoryEvent {
	return append([]HistoryEvent(nil), o.history...)
}

// CreatedBy is the identity of the sales actor who registered the order.
func (o *Order) CreatedBy() string {
	return o.createdBy
}

func (o *Order) CreatorName() string {
	return o.creatorName
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Shipments() []*Shipment {
	return append([]*Shipment(nil), o.shipments...)
}

func (o *Order) AdminEmergency() *AdminEmergency {
	return o.adminEmergency
}

func (o *Order) Version() int {
	return o.version
}

// MarkPersisted advances the version once the store accepted a write made at
// the loaded version.
func (o *Order) MarkPersisted() {
	o.version++
}

// TotalOrdered sums current item quantities.
func (o *Order) TotalOrdered() int {
	total := 0
	for _, item := range o.items {
		total += item.quantity
	}
	return total
}

// Shipment looks a trip up by id.
func (o *Order) Shipment(id kernel.UUID) (*Shipment, error) {
	for _, s := range o.shipments {
		if s.id.IsEqual(id) {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("shipmentId", id)
}

// HasEmergencyShipment reports whether any trip is waiting in Emergency.
func (o *Order) HasEmergencyShipment() bool {
	for _, s := range o.shipments {
		if s.status == ShipmentEmergency {
			return true
		}
	}
	return false
}

func (o *Order) findItem(name string) *Item {
	for _, item := range o.items {
		if sameItemName(item.name, name) {
			return item
		}
	}
	return nil
}
