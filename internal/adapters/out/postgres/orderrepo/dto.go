// Package orderrepo persists order aggregates with GORM. An order spans five
// tables: orders, order_items, shipments, shipment_items and order_history.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row plus its child collections.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SerialNumber   string    `gorm:"size:32;index"`
	CustomerName   string    `gorm:"index"`
	AreaLocation   string
	OrderDate      time.Time `gorm:"index"`
	ReceivingDate  time.Time
	DeliveryShift  int
	DeliveryType   int
	OverallNotes   string
	WarehouseNote  string
	Status         int `gorm:"index"`
	CreatedBy      string
	CreatorName    string
	CreatedAt      time.Time
	AdminEmergency AdminEmergencyDTO `gorm:"embedded;embeddedPrefix:admin_emergency_"`
	Version        int               `gorm:"not null;default:1"`

	Items     []ItemDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipments []ShipmentDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History   []HistoryDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AdminEmergencyDTO is the embedded override stamp. At is nil when the order
// was never overridden.
type AdminEmergencyDTO struct {
	Note   string
	Active bool
	At     *time.Time `gorm:"index"`
}

type ItemDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;index"`
	Position         int
	Name             string
	Quantity         int
	OriginalQuantity int
	Notes            string
}

func (ItemDTO) TableName() string {
	return "order_items"
}

type ShipmentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	Position          int
	DriverID          string `gorm:"index"`
	DriverName        string
	DriverPhone       string
	CarNumber         string
	WarehouseLocation string
	DispatchTime      time.Time
	Status            int
	ActualPickupTime  *time.Time
	DeliveredAt       *time.Time
	EmergencyAt       *time.Time
	EmergencyDetails  string
	EmergencyHasImage bool
	DeliveryPhotoRef  string

	Lines []ShipmentLineDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// ShipmentLineDTO rows are written once with their shipment and never change.
type ShipmentLineDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	ItemName   string
	Quantity   int
}

func (ShipmentLineDTO) TableName() string {
	return "shipment_items"
}

// HistoryDTO rows are keyed by their position in the trail, which makes
// re-inserting an already stored entry a no-op.
type HistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	Role      string
	Action    string
	Actor     string
	Timestamp time.Time
}

func (HistoryDTO) TableName() string {
	return "order_history"
}

// Models lists every table of the order store in migration order.
func Models() []any {
	return []any{&OrderDTO{}, &ItemDTO{}, &ShipmentDTO{}, &ShipmentLineDTO{}, &HistoryDTO{}}
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()

	items := make([]ItemDTO, 0, len(o.Items()))
	for pos, item := range o.Items() {
		items = append(items, ItemDTO{
			ID:               item.ID().Bytes(),
			OrderID:          id,
			Position:         pos,
			Name:             item.Name(),
			Quantity:         item.Quantity(),
			OriginalQuantity: item.OriginalQuantity(),
			Notes:            item.Notes(),
		})
	}

	shipments := make([]ShipmentDTO, 0, len(o.Shipments()))
	for pos, s := range o.Shipments() {
		shipments = append(shipments, shipmentFromDomain(id, pos, s))
	}

	history := make([]HistoryDTO, 0, len(o.History()))
	for seq, e := range o.History() {
		history = append(history, HistoryDTO{
			OrderID:   id,
			Seq:       seq,
			Role:      e.Role(),
			Action:    e.Action(),
			Actor:     e.Actor(),
			Timestamp: e.Timestamp(),
		})
	}

	dto := OrderDTO{
		ID:            id,
		SerialNumber:  o.SerialNumber(),
		CustomerName:  o.CustomerName(),
		AreaLocation:  o.AreaLocation(),
		OrderDate:     o.OrderDate(),
		ReceivingDate: o.ReceivingDate(),
		DeliveryShift: int(o.DeliveryShift()),
		DeliveryType:  int(o.DeliveryType()),
		OverallNotes:  o.OverallNotes(),
		WarehouseNote: o.WarehouseNote(),
		Status:        int(o.Status()),
		CreatedBy:     o.CreatedBy(),
		CreatorName:   o.CreatorName(),
		CreatedAt:     o.CreatedAt(),
		Version:       o.Version(),
		Items:         items,
		Shipments:     shipments,
		History:       history,
	}
	if ae := o.AdminEmergency(); ae != nil {
		at := ae.Timestamp
		dto.AdminEmergency = AdminEmergencyDTO{Note: ae.Note, Active: ae.Active, At: &at}
	}
	return dto
}

func shipmentFromDomain(orderID uuid.UUID, pos int, s *order.Shipment) ShipmentDTO {
	a := s.Assignment()
	id := s.ID().Bytes()

	lines := make([]ShipmentLineDTO, 0, len(s.Lines()))
	for i, l := range s.Lines() {
		lines = append(lines, ShipmentLineDTO{ShipmentID: id, Position: i, ItemName: l.ItemName, Quantity: l.Quantity})
	}

	dto := ShipmentDTO{
		ID:                id,
		OrderID:           orderID,
		Position:          pos,
		DriverID:          a.DriverID,
		DriverName:        a.DriverName,
		DriverPhone:       a.DriverPhone,
		CarNumber:         a.CarNumber,
		WarehouseLocation: a.WarehouseLocation,
		DispatchTime:      a.DispatchTime,
		Status:            int(s.Status()),
		ActualPickupTime:  s.ActualPickupTime(),
		DeliveredAt:       s.DeliveredAt(),
		DeliveryPhotoRef:  s.DeliveryPhotoRef(),
		Lines:             lines,
	}
	if e := s.Emergency(); e != nil {
		at := e.ReportedAt
		dto.EmergencyAt = &at
		dto.EmergencyDetails = e.Details
		dto.EmergencyHasImage = e.HasImage
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		itemID, idErr := kernel.UUIDFromBytes(i.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.RestoreItem(itemID, i.Name, i.Quantity, i.OriginalQuantity, i.Notes)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	shipments := make([]*order.Shipment, 0, len(dto.Shipments))
	for _, s := range dto.Shipments {
		shipment, shipErr := shipmentToDomain(s)
		if shipErr != nil {
			return nil, shipErr
		}
		shipments = append(shipments, shipment)
	}

	history := make([]order.HistoryEvent, 0, len(dto.History))
	for _, h := range dto.History {
		history = append(history, order.RestoreHistoryEvent(h.Role, h.Action, h.Actor, h.Timestamp))
	}

	var adminEmergency *order.AdminEmergency
	if dto.AdminEmergency.At != nil {
		adminEmergency = &order.AdminEmergency{
			Note:      dto.AdminEmergency.Note,
			Active:    dto.AdminEmergency.Active,
			Timestamp: *dto.AdminEmergency.At,
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:             id,
		SerialNumber:   dto.SerialNumber,
		CustomerName:   dto.CustomerName,
		AreaLocation:   dto.AreaLocation,
		OrderDate:      dto.OrderDate,
		ReceivingDate:  dto.ReceivingDate,
		DeliveryShift:  order.DeliveryShift(dto.DeliveryShift),
		DeliveryType:   order.DeliveryType(dto.DeliveryType),
		Items:          items,
		OverallNotes:   dto.OverallNotes,
		WarehouseNote:  dto.WarehouseNote,
		Status:         order.Status(dto.Status),
		History:        history,
		CreatedBy:      dto.CreatedBy,
		CreatorName:    dto.CreatorName,
		CreatedAt:      dto.CreatedAt,
		Shipments:      shipments,
		AdminEmergency: adminEmergency,
		Version:        dto.Version,
	})
}

func shipmentToDomain(dto ShipmentDTO) (*order.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lines = append(lines, order.Line{ItemName: l.ItemName, Quantity: l.Quantity})
	}

	var emergency *order.EmergencyReport
	if dto.EmergencyAt != nil {
		emergency = &order.EmergencyReport{
			ReportedAt: *dto.EmergencyAt,
			Details:    dto.EmergencyDetails,
			HasImage:   dto.EmergencyHasImage,
		}
	}

	return order.RestoreShipment(order.ShipmentSnapshot{
		ID: id,
		Assignment: order.DriverAssignment{
			DriverID:          dto.DriverID,
			DriverName:        dto.DriverName,
			DriverPhone:       dto.DriverPhone,
			CarNumber:         dto.CarNumber,
			WarehouseLocation: dto.WarehouseLocation,
			DispatchTime:      dto.DispatchTime,
		},
		Lines:            lines,
		Status:           order.ShipmentStatus(dto.Status),
		ActualPickupTime: dto.ActualPickupTime,
		DeliveredAt:      dto.DeliveredAt,
		Emergency:        emergency,
		DeliveryPhotoRef: dto.DeliveryPhotoRef,
	})
}
