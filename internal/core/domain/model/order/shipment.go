package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via dispatch or RestoreShipment")

// ShipmentStatus is the state of one trip.
//
//	Assigned ──> PickedUp ──> Delivered
//	    │           │  ▲
//	    └──> Emergency ┘
//
// A supervisor reassignment resets an Assigned or Emergency trip to Assigned.
type ShipmentStatus int

const (
	UnknownShipmentStatus ShipmentStatus = iota
	ShipmentAssigned
	ShipmentPickedUp
	ShipmentDelivered
	ShipmentEmergency
)

func getShipmentStatusStrings() map[ShipmentStatus]string {
	return map[ShipmentStatus]string{
		UnknownShipmentStatus: "Unknown",
		ShipmentAssigned:      "Assigned",
		ShipmentPickedUp:      "PickedUp",
		ShipmentDelivered:     "Delivered",
		ShipmentEmergency:     "Emergency",
	}
}

func (s ShipmentStatus) String() string {
	if str, ok := getShipmentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s ShipmentStatus) Validate() error {
	if s < ShipmentAssigned || s > ShipmentEmergency {
		return errs.NewValueIsInvalidErrorWithCause("shipment status", fmt.Errorf("%d is not a valid shipment status", s))
	}
	return nil
}

// IsActive reports whether the trip is still on the road.
func (s ShipmentStatus) IsActive() bool {
	return s == ShipmentAssigned || s == ShipmentPickedUp || s == ShipmentEmergency
}

func (s ShipmentStatus) canPickUp() bool {
	return s == ShipmentAssigned
}

func (s ShipmentStatus) canDeliver() bool {
	return s == ShipmentPickedUp
}

func (s ShipmentStatus) canReportEmergency() bool {
	return s == ShipmentAssigned || s == ShipmentPickedUp
}

func (s ShipmentStatus) canResolve() bool {
	return s == ShipmentEmergency
}

func (s ShipmentStatus) canReassign() bool {
	return s == ShipmentAssigned || s == ShipmentEmergency
}

// Line is the quantity of one order item carried by a shipment.
type Line struct {
	ItemName string
	Quantity int
}

// DriverAssignment is everything the supervisor picks when sending a trip out.
type DriverAssignment struct {
	DriverID          string
	DriverName        string
	DriverPhone       string
	CarNumber         string
	WarehouseLocation string
	DispatchTime      time.Time
}

func (a DriverAssignment) validate(requireWarehouse bool) error {
	var errList []error
	if strings.TrimSpace(a.DriverID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("driverId"))
	}
	if requireWarehouse && strings.TrimSpace(a.WarehouseLocation) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("warehouseLocation"))
	}
	if a.DispatchTime.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("dispatchTime"))
	}
	return errors.Join(errList...)
}

func (a DriverAssignment) displayName() string {
	if name := strings.TrimSpace(a.DriverName); name != "" {
		return name
	}
	return a.DriverID
}

// EmergencyReport is what a driver files when a trip cannot continue.
type EmergencyReport struct {
	ReportedAt time.Time
	Details    string
	HasImage   bool
}

// Shipment is a driver trip carrying part of an order. It belongs to exactly
// one order and is never deleted.
type Shipment struct {
	id               kernel.UUID
	assignment       DriverAssignment
	lines            []Line
	status           ShipmentStatus
	actualPickupTime *time.Time
	deliveredAt      *time.Time
	emergency        *EmergencyReport
	deliveryPhotoRef string

	guard guard.ConstructorGuard
}

func newShipment(assignment DriverAssignment, lines []Line) *Shipment {
	assignment.DriverName = assignment.displayName()
	return &Shipment{
		id:         kernel.NewUUID(),
		assignment: assignment,
		lines:      lines,
		status:     ShipmentAssigned,
		guard:      guard.NewConstructorGuard(),
	}
}

// ShipmentSnapshot carries persisted shipment state into RestoreShipment.
type ShipmentSnapshot struct {
	ID               kernel.UUID
	Assignment       DriverAssignment
	Lines            []Line
	Status           ShipmentStatus
	ActualPickupTime *time.Time
	DeliveredAt      *time.Time
	Emergency        *EmergencyReport
	DeliveryPhotoRef string
}

func RestoreShipment(s ShipmentSnapshot) (*Shipment, error) {
	if err := errors.Join(s.ID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	for _, l := range s.Lines {
		if l.Quantity <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"shipment line", fmt.Errorf("%s: %d is not greater than 0", l.ItemName, l.Quantity))
		}
	}

	return &Shipment{
		id:               s.ID,
		assignment:       s.Assignment,
		lines:            append([]Line(nil), s.Lines...),
		status:           s.Status,
		actualPickupTime: s.ActualPickupTime,
		deliveredAt:      s.DeliveredAt,
		emergency:        s.Emergency,
		deliveryPhotoRef: s.DeliveryPhotoRef,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) Assignment() DriverAssignment {
	return s.assignment
}

func (s *Shipment) DriverID() string {
	return s.assignment.DriverID
}

func (s *Shipment) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

func (s *Shipment) Status() ShipmentStatus {
	return s.status
}

func (s *Shipment) ActualPickupTime() *time.Time {
	return s.actualPickupTime
}

func (s *Shipment) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// Emergency returns the open report, nil unless the trip is in Emergency.
func (s *Shipment) Emergency() *EmergencyReport {
	return s.emergency
}

func (s *Shipment) DeliveryPhotoRef() string {
	return s.deliveryPhotoRef
}

// Quantity returns how much of itemName this trip carries.
func (s *Shipment) Quantity(itemName string) int {
	total := 0
	for _, l := range s.lines {
		if sameItemName(l.ItemName, itemName) {
			total += l.Quantity
		}
	}
	return total
}

// TotalQuantity sums every line.
func (s *Shipment) TotalQuantity() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// FormatTripDuration renders a pickup-to-delivery span as "2h 5m" or "45m".
func FormatTripDuration(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
