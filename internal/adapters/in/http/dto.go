package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"

	"github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Request bodies. Tags are checked by the echo validator; business rules
// stay in the aggregate.
type (
	ItemInput struct {
		ItemName string `json:"itemName" validate:"required"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes,omitempty"`
	}

	OrderDetails struct {
		SerialNumber  string      `json:"serialNumber,omitempty"`
		CustomerName  string      `json:"customerName"`
		AreaLocation  string      `json:"areaLocation"`
		OrderDate     *types.Date `json:"orderDate,omitempty"`
		ReceivingDate *types.Date `json:"receivingDate,omitempty"`
		DeliveryShift string      `json:"deliveryShift,omitempty" validate:"omitempty,oneof=FirstTrip SecondTrip NightTrip"`
		DeliveryType  string      `json:"deliveryType,omitempty" validate:"omitempty,oneof=OwnFleet Outsource"`
		Items         []ItemInput `json:"items" validate:"dive"`
		OverallNotes  string      `json:"overallNotes,omitempty"`
	}

	EditOrderRequest struct {
		ExpectedVersion int          `json:"expectedVersion" validate:"gte=0"`
		Details         OrderDetails `json:"details"`
	}

	TransitionRequest struct {
		Action          string `json:"action" validate:"required,oneof=approve reject ready hold cancel"`
		Note            string `json:"note" validate:"max=2000"`
		ExpectedVersion int    `json:"expectedVersion" validate:"gte=0"`
	}

	AdjustmentInput struct {
		ItemName string `json:"itemName" validate:"required"`
		Quantity int    `json:"quantity" validate:"gte=0"`
		Notes    string `json:"notes,omitempty"`
	}

	AdjustItemsRequest struct {
		ExpectedVersion int               `json:"expectedVersion" validate:"gte=0"`
		Adjustments     []AdjustmentInput `json:"adjustments" validate:"required,min=1,dive"`
	}

	DriverAssignment struct {
		DriverID          string     `json:"driverId" validate:"required"`
		DriverName        string     `json:"driverName,omitempty"`
		DriverPhone       string     `json:"driverPhone,omitempty"`
		CarNumber         string     `json:"carNumber,omitempty"`
		WarehouseLocation string     `json:"warehouseLocation,omitempty"`
		DispatchTime      *time.Time `json:"dispatchTime" validate:"required"`
	}

	Line struct {
		ItemName string `json:"itemName" validate:"required"`
		Quantity int    `json:"quantity" validate:"gte=0"`
	}

	DispatchRequest struct {
		ExpectedVersion int              `json:"expectedVersion" validate:"gte=0"`
		Driver          DriverAssignment `json:"driver"`
		Lines           []Line           `json:"lines" validate:"required,min=1,dive"`
	}

	ReassignRequest struct {
		ExpectedVersion int              `json:"expectedVersion" validate:"gte=0"`
		Driver          DriverAssignment `json:"driver"`
	}

	TripEventRequest struct {
		Event           string `json:"event" validate:"required,oneof=pickup deliver emergency resolve"`
		PhotoRef        string `json:"photoRef,omitempty"`
		Details         string `json:"details,omitempty" validate:"max=2000"`
		HasImage        bool   `json:"hasImage,omitempty"`
		ExpectedVersion int    `json:"expectedVersion" validate:"gte=0"`
	}

	OverrideRequest struct {
		Kind            string        `json:"kind" validate:"required,oneof=cancel transfer edit"`
		Reason          string        `json:"reason" validate:"required,max=2000"`
		NewCustomer     string        `json:"newCustomer,omitempty"`
		NewArea         string        `json:"newArea,omitempty"`
		Details         *OrderDetails `json:"details,omitempty"`
		ExpectedVersion int           `json:"expectedVersion" validate:"gte=0"`
	}

	DraftRequest struct {
		Text string        `json:"text" validate:"required,max=20000"`
		Base *OrderDetails `json:"base,omitempty"`
	}
)

// Response bodies.
type (
	Item struct {
		ID               string `json:"id"`
		ItemName         string `json:"itemName"`
		Quantity         int    `json:"quantity"`
		OriginalQuantity int    `json:"originalQuantity"`
		Remaining        int    `json:"remaining"`
		Notes            string `json:"notes,omitempty"`
	}

	Emergency struct {
		ReportedAt time.Time `json:"reportedAt"`
		Details    string    `json:"details,omitempty"`
		HasImage   bool      `json:"hasImage"`
	}

	Shipment struct {
		ID                string     `json:"id"`
		DriverID          string     `json:"driverId"`
		DriverName        string     `json:"driverName"`
		DriverPhone       string     `json:"driverPhone,omitempty"`
		CarNumber         string     `json:"carNumber,omitempty"`
		WarehouseLocation string     `json:"warehouseLocation,omitempty"`
		DispatchTime      time.Time  `json:"dispatchTime"`
		ActualPickupTime  *time.Time `json:"actualPickupTime,omitempty"`
		DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
		TripDuration      string     `json:"tripDuration,omitempty"`
		Status            string     `json:"status"`
		Items             []Line     `json:"items"`
		Emergency         *Emergency `json:"emergency,omitempty"`
		DeliveryPhotoRef  string     `json:"deliveryPhotoRef,omitempty"`
	}

	HistoryEvent struct {
		Role      string    `json:"role"`
		Action    string    `json:"action"`
		Actor     string    `json:"actor"`
		Timestamp time.Time `json:"timestamp"`
	}

	AdminEmergency struct {
		Note      string    `json:"note"`
		Active    bool      `json:"active"`
		Recent    bool      `json:"recent"`
		Timestamp time.Time `json:"timestamp"`
	}

	Order struct {
		ID             string          `json:"id"`
		Version        int             `json:"version"`
		SerialNumber   string          `json:"serialNumber"`
		CustomerName   string          `json:"customerName"`
		AreaLocation   string          `json:"areaLocation"`
		OrderDate      types.Date      `json:"orderDate"`
		ReceivingDate  *types.Date     `json:"receivingDate,omitempty"`
		DeliveryShift  string          `json:"deliveryShift"`
		DeliveryType   string          `json:"deliveryType"`
		Status         string          `json:"status"`
		OverallNotes   string          `json:"overallNotes,omitempty"`
		WarehouseNote  string          `json:"warehouseNote,omitempty"`
		CreatedBy      string          `json:"createdBy"`
		CreatorName    string          `json:"creatorName"`
		CreatedAt      time.Time       `json:"createdAt"`
		TotalOrdered   int             `json:"totalOrdered"`
		TotalShipped   int             `json:"totalShipped"`
		Items          []Item          `json:"items"`
		Shipments      []Shipment      `json:"shipments"`
		History        []HistoryEvent  `json:"history"`
		AdminEmergency *AdminEmergency `json:"adminEmergency,omitempty"`
	}

	DispatchResponse struct {
		Order    Order    `json:"order"`
		Shipment Shipment `json:"shipment"`
	}

	OrderRow struct {
		ID              string      `json:"id"`
		Version         int         `json:"version"`
		SerialNumber    string      `json:"serialNumber"`
		CustomerName    string      `json:"customerName"`
		AreaLocation    string      `json:"areaLocation"`
		OrderDate       types.Date  `json:"orderDate"`
		ReceivingDate   *types.Date `json:"receivingDate,omitempty"`
		DeliveryType    string      `json:"deliveryType"`
		Status          string      `json:"status"`
		CreatorName     string      `json:"creatorName"`
		TotalQuantity   int         `json:"totalQuantity"`
		ShippedQuantity int         `json:"shippedQuantity"`
		ShipmentCount   int         `json:"shipmentCount"`
		AdminOverridden bool        `json:"adminOverridden"`
	}

	Alert struct {
		OrderID      string    `json:"orderId"`
		SerialNumber string    `json:"serialNumber"`
		CustomerName string    `json:"customerName"`
		Note         string    `json:"note"`
		Timestamp    time.Time `json:"timestamp"`
	}

	Board struct {
		Role        string         `json:"role"`
		Pending     int            `json:"pending"`
		Counts      map[string]int `json:"counts,omitempty"`
		Alerts      []Alert        `json:"alerts"`
		GeneratedAt time.Time      `json:"generatedAt"`
	}
)

func (d OrderDetails) toDomain() (order.Details, error) {
	details := order.Details{
		SerialNumber:  d.SerialNumber,
		CustomerName:  d.CustomerName,
		AreaLocation:  d.AreaLocation,
		OrderDate:     dateValue(d.OrderDate),
		ReceivingDate: dateValue(d.ReceivingDate),
		OverallNotes:  d.OverallNotes,
		Items:         make([]order.ItemInput, 0, len(d.Items)),
	}
	if d.DeliveryShift != "" {
		shift, err := order.ParseDeliveryShift(d.DeliveryShift)
		if err != nil {
			return order.Details{}, err
		}
		details.DeliveryShift = shift
	}
	if d.DeliveryType != "" {
		deliveryType, err := order.ParseDeliveryType(d.DeliveryType)
		if err != nil {
			return order.Details{}, err
		}
		details.DeliveryType = deliveryType
	}
	for _, in := range d.Items {
		details.Items = append(details.Items, order.ItemInput{Name: in.ItemName, Quantity: in.Quantity, Notes: in.Notes})
	}
	return details, nil
}

func fromDetails(d order.Details) OrderDetails {
	out := OrderDetails{
		SerialNumber:  d.SerialNumber,
		CustomerName:  d.CustomerName,
		AreaLocation:  d.AreaLocation,
		OrderDate:     datePtr(d.OrderDate),
		ReceivingDate: datePtr(d.ReceivingDate),
		OverallNotes:  d.OverallNotes,
		Items:         make([]ItemInput, 0, len(d.Items)),
	}
	if d.DeliveryShift != order.UnknownShift {
		out.DeliveryShift = d.DeliveryShift.String()
	}
	if d.DeliveryType != order.UnknownDeliveryType {
		out.DeliveryType = d.DeliveryType.String()
	}
	for _, in := range d.Items {
		out.Items = append(out.Items, ItemInput{ItemName: in.Name, Quantity: in.Quantity, Notes: in.Notes})
	}
	return out
}

func (a DriverAssignment) toDomain() order.DriverAssignment {
	out := order.DriverAssignment{
		DriverID:          a.DriverID,
		DriverName:        a.DriverName,
		DriverPhone:       a.DriverPhone,
		CarNumber:         a.CarNumber,
		WarehouseLocation: a.WarehouseLocation,
	}
	if a.DispatchTime != nil {
		out.DispatchTime = *a.DispatchTime
	}
	return out
}

func toOrder(o *order.Order, now time.Time) Order {
	out := Order{
		ID:            o.ID().String(),
		Version:       o.Version(),
		SerialNumber:  o.SerialNumber(),
		CustomerName:  o.CustomerName(),
		AreaLocation:  o.AreaLocation(),
		OrderDate:     types.Date{Time: o.OrderDate()},
		ReceivingDate: datePtr(o.ReceivingDate()),
		DeliveryShift: o.DeliveryShift().String(),
		DeliveryType:  o.DeliveryType().String(),
		Status:        o.Status().String(),
		OverallNotes:  o.OverallNotes(),
		WarehouseNote: o.WarehouseNote(),
		CreatedBy:     o.CreatedBy(),
		CreatorName:   o.CreatorName(),
		CreatedAt:     o.CreatedAt(),
		TotalOrdered:  o.TotalOrdered(),
		TotalShipped:  o.TotalShipped(),
		Items:         make([]Item, 0, len(o.Items())),
		Shipments:     make([]Shipment, 0, len(o.Shipments())),
		History:       make([]HistoryEvent, 0, len(o.History())),
	}
	for _, it := range o.Items() {
		out.Items = append(out.Items, Item{
			ID:               it.ID().String(),
			ItemName:         it.Name(),
			Quantity:         it.Quantity(),
			OriginalQuantity: it.OriginalQuantity(),
			Remaining:        o.Remaining(it.Name()),
			Notes:            it.Notes(),
		})
	}
	for _, s := range o.Shipments() {
		out.Shipments = append(out.Shipments, toShipment(s))
	}
	for _, e := range o.History() {
		out.History = append(out.History, HistoryEvent{
			Role:      e.Role(),
			Action:    e.Action(),
			Actor:     e.Actor(),
			Timestamp: e.Timestamp(),
		})
	}
	if ae := o.AdminEmergency(); ae != nil {
		out.AdminEmergency = &AdminEmergency{
			Note:      ae.Note,
			Active:    ae.Active,
			Recent:    ae.IsRecent(now),
			Timestamp: ae.Timestamp,
		}
	}
	return out
}

func toShipment(s *order.Shipment) Shipment {
	a := s.Assignment()
	out := Shipment{
		ID:                s.ID().String(),
		DriverID:          a.DriverID,
		DriverName:        a.DriverName,
		DriverPhone:       a.DriverPhone,
		CarNumber:         a.CarNumber,
		WarehouseLocation: a.WarehouseLocation,
		DispatchTime:      a.DispatchTime,
		ActualPickupTime:  s.ActualPickupTime(),
		DeliveredAt:       s.DeliveredAt(),
		Status:            s.Status().String(),
		Items:             make([]Line, 0, len(s.Lines())),
		DeliveryPhotoRef:  s.DeliveryPhotoRef(),
	}
	if out.ActualPickupTime != nil && out.DeliveredAt != nil {
		out.TripDuration = order.FormatTripDuration(out.DeliveredAt.Sub(*out.ActualPickupTime))
	}
	for _, l := range s.Lines() {
		out.Items = append(out.Items, Line{ItemName: l.ItemName, Quantity: l.Quantity})
	}
	if e := s.Emergency(); e != nil {
		out.Emergency = &Emergency{ReportedAt: e.ReportedAt, Details: e.Details, HasImage: e.HasImage}
	}
	return out
}

func toOrderRow(r queries.ListOrdersQueryResponse) OrderRow {
	return OrderRow{
		ID:              r.ID.String(),
		Version:         r.Version,
		SerialNumber:    r.SerialNumber,
		CustomerName:    r.CustomerName,
		AreaLocation:    r.AreaLocation,
		OrderDate:       types.Date{Time: r.OrderDate},
		ReceivingDate:   datePtr(r.ReceivingDate),
		DeliveryType:    r.DeliveryType.String(),
		Status:          r.Status.String(),
		CreatorName:     r.CreatorName,
		TotalQuantity:   r.TotalQuantity,
		ShippedQuantity: r.ShippedQuantity,
		ShipmentCount:   r.ShipmentCount,
		AdminOverridden: r.AdminOverridden,
	}
}

func toBoard(b queries.GetBoardQueryResponse) Board {
	out := Board{
		Role:        b.Role.String(),
		Pending:     b.Pending,
		Alerts:      make([]Alert, 0, len(b.Alerts)),
		GeneratedAt: b.GeneratedAt,
	}
	if b.Counts != nil {
		out.Counts = make(map[string]int, len(b.Counts))
		for role, n := range b.Counts {
			out.Counts[role.String()] = n
		}
	}
	for _, a := range b.Alerts {
		out.Alerts = append(out.Alerts, Alert{
			OrderID:      a.OrderID.String(),
			SerialNumber: a.SerialNumber,
			CustomerName: a.CustomerName,
			Note:         a.Note,
			Timestamp:    a.Timestamp,
		})
	}
	return out
}

func dateValue(d *types.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

func datePtr(t time.Time) *types.Date {
	if t.IsZero() {
		return nil
	}
	return &types.Date{Time: t}
}
