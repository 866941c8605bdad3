package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery returns the order register used for exports and reports.
//
// Example:
//
//	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
//	query := NewListOrdersQuery(order.Filter{From: &from, Search: "nile"})
//	handler := NewListOrdersQueryHandler(db)
//
//	rows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, r := range rows {
//	    fmt.Printf("%s %s %d/%d\n", r.SerialNumber, r.Status, r.ShippedQuantity, r.TotalQuantity)
//	}
type ListOrdersQuery struct {
	filter order.Filter
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery wraps filter. The zero filter lists every order.
func NewListOrdersQuery(filter order.Filter) ListOrdersQuery {
	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() order.Filter {
	return q.filter
}

// ListOrdersQueryResponse is one register row. ShippedQuantity excludes trips
// in Emergency.
type ListOrdersQueryResponse struct {
	ID              kernel.UUID
	SerialNumber    string
	CustomerName    string
	AreaLocation    string
	OrderDate       time.Time
	ReceivingDate   time.Time
	DeliveryType    order.DeliveryType
	Status          order.Status
	CreatorName     string
	TotalQuantity   int
	ShippedQuantity int
	ShipmentCount   int
	AdminOverridden bool
	Version         int
}
