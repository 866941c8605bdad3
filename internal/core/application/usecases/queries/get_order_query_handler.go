package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// GetOrderQueryHandler reads an order outside any transaction. The returned
// aggregate carries the version a follow-up command should pass as
// expectedVersion.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.uowFactory.Create().OrderRepository().Get(ctx, query.OrderID())
}
