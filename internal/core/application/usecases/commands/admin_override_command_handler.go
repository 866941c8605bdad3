package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

type AdminOverrideCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAdminOverrideCommandHandler(uowFactory OrderUoWFactory) AdminOverrideCommandHandler {
	return AdminOverrideCommandHandler{uowFactory: uowFactory}
}

func (h AdminOverrideCommandHandler) Handle(ctx context.Context, cmd AdminOverrideCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, now time.Time) error {
			p := cmd.Payload()
			switch cmd.Kind() {
			case order.OverrideCancel:
				return o.AdminCancel(cmd.Actor(), cmd.Reason(), now)
			case order.OverrideTransfer:
				return o.AdminTransfer(cmd.Actor(), p.NewCustomer, p.NewArea, cmd.Reason(), now)
			case order.OverrideEdit:
				return o.AdminEdit(cmd.Actor(), p.Details, cmd.Reason(), now)
			default:
				return errs.NewValueIsInvalidError("override")
			}
		})
}
