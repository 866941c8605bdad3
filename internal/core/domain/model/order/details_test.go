package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust(t *testing.T) {
	t.Run("lowers quantity and keeps status", func(t *testing.T) {
		o := newPendingOrder(t, order.ItemInput{Name: "Cement", Quantity: 100}, order.ItemInput{Name: "Sand", Quantity: 5})

		err := o.Adjust(mustActor(t, "asst-1", kernel.Assistant), []order.Adjustment{
			{ItemName: "cement", Quantity: 70, Notes: "30 short in stock"},
		}, testNow)

		require.NoError(t, err)
		assert.Equal(t, order.PendingAssistant, o.Status())
		items := o.Items()
		assert.Equal(t, 70, items[0].Quantity())
		assert.Equal(t, 100, items[0].OriginalQuantity())
		assert.Equal(t, "30 short in stock", items[0].Notes())
		assert.Equal(t, 5, items[1].Quantity())

		last := o.History()[len(o.History())-1]
		assert.Equal(t, "Sales Assistant", last.Role())
		assert.Equal(t, "Adjusted Quantities only and added notes", last.Action())
	})

	t.Run("may raise back up to original", func(t *testing.T) {
		o := newPendingOrder(t)
		finance := mustActor(t, "fin-1", kernel.Finance)

		require.NoError(t, o.Adjust(finance, []order.Adjustment{{ItemName: "Cement", Quantity: 0}}, testNow))
		require.NoError(t, o.Adjust(finance, []order.Adjustment{{ItemName: "Cement", Quantity: 100}}, testNow))

		assert.Equal(t, 100, o.Items()[0].Quantity())
	})

	t.Run("rejects above original and applies nothing", func(t *testing.T) {
		o := newPendingOrder(t, order.ItemInput{Name: "Cement", Quantity: 100}, order.ItemInput{Name: "Sand", Quantity: 5})

		err := o.Adjust(mustActor(t, "wh-1", kernel.Warehouse), []order.Adjustment{
			{ItemName: "Sand", Quantity: 1},
			{ItemName: "Cement", Quantity: 101},
		}, testNow)

		var rangeErr *errs.ValueIsOutOfRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, 100, rangeErr.Max)
		assert.Equal(t, 5, o.Items()[1].Quantity())
		assert.Len(t, o.History(), 1)
	})

	t.Run("cannot go below dispatched", func(t *testing.T) {
		o := newReadyOrder(t)
		dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 60})

		err := o.Adjust(mustActor(t, "sup-1", kernel.DriverSupervisor),
			[]order.Adjustment{{ItemName: "Cement", Quantity: 59}}, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assertShippedWithinOrdered(t, o)
	})

	t.Run("unknown item", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Adjust(mustActor(t, "asst-1", kernel.Assistant),
			[]order.Adjustment{{ItemName: "Gravel", Quantity: 1}}, testNow)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("roles outside review stages are denied", func(t *testing.T) {
		o := newPendingOrder(t)

		for _, r := range []kernel.Role{kernel.Sales, kernel.TruckDriver} {
			err := o.Adjust(mustActor(t, "x", r), []order.Adjustment{{ItemName: "Cement", Quantity: 1}}, testNow)
			require.ErrorIs(t, err, errs.ErrTransitionDenied, r.String())
		}
	})
}

func TestEditDetails(t *testing.T) {
	creator := mustActor(t, "sales-1", kernel.Sales)

	t.Run("resubmits a rejected order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Transition(mustActor(t, "asst-1", kernel.Assistant), order.Reject, "wrong area", testNow))
		itemID := o.Items()[0].ID()

		d := validDetails(
			order.ItemInput{Name: "Cement", Quantity: 90},
			order.ItemInput{Name: "Sand", Quantity: 12},
		)
		d.AreaLocation = "Nasr City"

		require.NoError(t, o.EditDetails(creator, d, testNow))

		assert.Equal(t, order.PendingAssistant, o.Status())
		assert.Equal(t, "Nasr City", o.AreaLocation())
		items := o.Items()
		require.Len(t, items, 2)
		assert.True(t, items[0].ID().IsEqual(itemID))
		assert.Equal(t, 100, items[0].OriginalQuantity())
		assert.Equal(t, 12, items[1].OriginalQuantity())
		assert.Equal(t, "Order Updated", o.History()[len(o.History())-1].Action())
	})

	t.Run("keeps serial when blank", func(t *testing.T) {
		o := newPendingOrder(t)
		serial := o.SerialNumber()

		require.NoError(t, o.EditDetails(creator, validDetails(), testNow))

		assert.Equal(t, serial, o.SerialNumber())
	})

	t.Run("denied once approved", func(t *testing.T) {
		o := orderInStatus(t, order.PendingFinance, order.OwnFleet)

		require.ErrorIs(t, o.EditDetails(creator, validDetails(), testNow), errs.ErrTransitionDenied)
	})

	t.Run("denied for other sales actor", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.EditDetails(mustActor(t, "sales-2", kernel.Sales), validDetails(), testNow),
			errs.ErrTransitionDenied)
	})

	t.Run("assistant corrects a pending order", func(t *testing.T) {
		o := newPendingOrder(t)
		assistant := mustActor(t, "asst-1", kernel.Assistant)
		d := validDetails(order.ItemInput{Name: "Cement", Quantity: 80})
		d.CustomerName = "Nile Builders Co."

		require.NoError(t, o.EditDetails(assistant, d, testNow))

		assert.Equal(t, order.PendingAssistant, o.Status())
		assert.Equal(t, "Nile Builders Co.", o.CustomerName())
		assert.Equal(t, 80, o.Items()[0].Quantity())
		assert.Equal(t, 100, o.Items()[0].OriginalQuantity())
		last := o.History()[len(o.History())-1]
		assert.Equal(t, "Sales Assistant", last.Role())
		assert.Equal(t, "Modified Details Snapshot", last.Action())
	})

	t.Run("assistant denied outside review", func(t *testing.T) {
		for _, st := range []order.Status{order.Rejected, order.PendingFinance, order.Approved} {
			o := orderInStatus(t, st, order.OwnFleet)

			err := o.EditDetails(mustActor(t, "asst-1", kernel.Assistant), validDetails(), testNow)

			require.ErrorIs(t, err, errs.ErrTransitionDenied, st.String())
			assert.Equal(t, st, o.Status())
		}
	})

	t.Run("denied for other roles", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.EditDetails(mustActor(t, "fin-1", kernel.Finance), validDetails(), testNow),
			errs.ErrTransitionDenied)
	})

	t.Run("invalid details", func(t *testing.T) {
		o := newPendingOrder(t)
		d := validDetails()
		d.CustomerName = ""

		err := o.EditDetails(creator, d, testNow)

		require.True(t, errs.IsValidation(err))
		assert.Equal(t, "Nile Builders", o.CustomerName())
	})
}
