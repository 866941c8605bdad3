package queries

import (
	"context"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads the order register straight from the orders
// tables without rebuilding aggregates.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns matching orders, newest order date first. Date bounds are
// whole UTC days, both inclusive. Search matches the customer name or serial
// number case-insensitively.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	where, args := filterPredicates(query.Filter())
	args = append([]any{int(order.ShipmentEmergency)}, args...)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.serial_number,
			o.customer_name,
			o.area_location,
			o.order_date,
			o.receiving_date,
			o.delivery_type,
			o.status,
			o.creator_name,
			COALESCE((SELECT SUM(i.quantity) FROM order_items i WHERE i.order_id = o.id), 0),
			COALESCE((
				SELECT SUM(l.quantity)
				FROM shipment_items l
				JOIN shipments s ON s.id = l.shipment_id
				WHERE s.order_id = o.id AND s.status <> ?
			), 0),
			(SELECT COUNT(*) FROM shipments s WHERE s.order_id = o.id),
			o.admin_emergency_active,
			o.version
		FROM orders o
		WHERE `+where+`
		ORDER BY o.order_date DESC, o.serial_number
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp                 ListOrdersQueryResponse
			id                   uuid.UUID
			deliveryType, status int
		)
		if err = rows.Scan(
			&id,
			&resp.SerialNumber,
			&resp.CustomerName,
			&resp.AreaLocation,
			&resp.OrderDate,
			&resp.ReceivingDate,
			&deliveryType,
			&status,
			&resp.CreatorName,
			&resp.TotalQuantity,
			&resp.ShippedQuantity,
			&resp.ShipmentCount,
			&resp.AdminOverridden,
			&resp.Version,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.DeliveryType = order.DeliveryType(deliveryType)
		resp.Status = order.Status(status)
		result = append(result, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func filterPredicates(f order.Filter) (string, []any) {
	conds := []string{"TRUE"}
	args := make([]any, 0, 5)

	if f.From != nil {
		conds = append(conds, "o.order_date >= ?")
		args = append(args, utcDay(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "o.order_date < ?")
		args = append(args, utcDay(*f.To).AddDate(0, 0, 1))
	}
	if f.Status != nil {
		conds = append(conds, "o.status = ?")
		args = append(args, int(*f.Status))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term) + "%"
		conds = append(conds, "(o.customer_name ILIKE ? OR o.serial_number ILIKE ?)")
		args = append(args, pattern, pattern)
	}

	return strings.Join(conds, " AND "), args
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
