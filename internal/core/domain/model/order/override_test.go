package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTransfer_OnCompletedOrder(t *testing.T) {
	o := orderInStatus(t, order.Completed, order.OwnFleet)
	admin := mustAdmin(t, "asst-9", kernel.Assistant)

	err := o.AdminTransfer(admin, "Delta Traders", "Alexandria", "original client closed", testNow)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, o.Status())
	assert.Equal(t, "Delta Traders", o.CustomerName())
	assert.Equal(t, "Alexandria", o.AreaLocation())
	require.Len(t, o.Items(), 1)
	assert.Equal(t, 10, o.Items()[0].Quantity())

	ae := o.AdminEmergency()
	require.NotNil(t, ae)
	assert.Equal(t, "original client closed", ae.Note)
	assert.True(t, ae.IsRecent(testNow.Add(23*time.Hour)))
	assert.False(t, ae.IsRecent(testNow.Add(24*time.Hour)))
	assert.True(t, ae.Active, "expiry is derived, storage keeps the flag")

	last := o.History()[len(o.History())-1]
	assert.Equal(t, "System Admin", last.Role())
	assert.Equal(t, "EMERGENCY TRANSFER to client Delta Traders: original client closed", last.Action())
}

func TestAdminTransfer_KeepsAreaWhenBlank(t *testing.T) {
	o := orderInStatus(t, order.InTransit, order.OwnFleet)

	require.NoError(t, o.AdminTransfer(mustAdmin(t, "a", kernel.Assistant), "Delta", "", "why", testNow))

	assert.Equal(t, "Giza", o.AreaLocation())
}

func TestAdminCancel_FromAnyState(t *testing.T) {
	for _, st := range order.AllStatuses() {
		t.Run(st.String(), func(t *testing.T) {
			o := orderInStatus(t, st, order.OwnFleet)

			require.NoError(t, o.AdminCancel(mustAdmin(t, "a", kernel.Finance), "fraud", testNow))

			assert.Equal(t, order.Canceled, o.Status())
			assert.Equal(t, "EMERGENCY CANCEL: fraud", o.History()[len(o.History())-1].Action())
		})
	}
}

func TestAdminOverrides_Rejected(t *testing.T) {
	t.Run("missing reason", func(t *testing.T) {
		o := orderInStatus(t, order.Approved, order.OwnFleet)

		err := o.AdminCancel(mustAdmin(t, "a", kernel.Assistant), "   ", testNow)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Approved, o.Status())
		assert.Nil(t, o.AdminEmergency())
		assert.Empty(t, o.History())
	})

	t.Run("not an admin", func(t *testing.T) {
		o := orderInStatus(t, order.Approved, order.OwnFleet)

		err := o.AdminTransfer(mustActor(t, "a", kernel.Assistant), "X", "Y", "reason", testNow)

		require.ErrorIs(t, err, errs.ErrTransitionDenied)
		assert.Equal(t, "Nile Builders", o.CustomerName())
	})

	t.Run("transfer needs a customer", func(t *testing.T) {
		o := orderInStatus(t, order.Approved, order.OwnFleet)

		require.ErrorIs(t, o.AdminTransfer(mustAdmin(t, "a", kernel.Assistant), "", "Y", "reason", testNow),
			errs.ErrValueIsRequired)
	})
}

func TestAdminEdit(t *testing.T) {
	t.Run("replaces fields and completes", func(t *testing.T) {
		o := newReadyOrder(t)
		d := validDetails(order.ItemInput{Name: "Cement", Quantity: 80, Notes: "short"})
		d.CustomerName = "Renamed"

		require.NoError(t, o.AdminEdit(mustAdmin(t, "a", kernel.Assistant), d, "customer call", testNow))

		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, "Renamed", o.CustomerName())
		assert.Equal(t, 80, o.Items()[0].Quantity())
		assert.Equal(t, 100, o.Items()[0].OriginalQuantity())
		assert.Equal(t, "EMERGENCY EDIT OVERRIDE: customer call", o.History()[len(o.History())-1].Action())
	})

	t.Run("cannot drop below dispatched quantity", func(t *testing.T) {
		o := newReadyOrder(t)
		dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 60})

		err := o.AdminEdit(mustAdmin(t, "a", kernel.Assistant),
			validDetails(order.ItemInput{Name: "Cement", Quantity: 50}), "reason", testNow)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, 100, o.Items()[0].Quantity())
		assert.Equal(t, order.PartiallyShipped, o.Status())
	})

	t.Run("cannot remove a dispatched item", func(t *testing.T) {
		o := newReadyOrder(t)
		dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 1})

		err := o.AdminEdit(mustAdmin(t, "a", kernel.Assistant),
			validDetails(order.ItemInput{Name: "Sand", Quantity: 5}), "reason", testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "Cement", o.Items()[0].Name())
	})
}

func TestParseOverrideKind(t *testing.T) {
	k, err := order.ParseOverrideKind("Transfer")
	require.NoError(t, err)
	assert.Equal(t, order.OverrideTransfer, k)

	_, err = order.ParseOverrideKind("delete")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
