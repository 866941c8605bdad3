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

func TestDispatchShipment_SplitAcrossTrips(t *testing.T) {
	o := newReadyOrder(t)

	a := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 60})
	assert.Equal(t, order.PartiallyShipped, o.Status())
	assert.Equal(t, 40, o.Remaining("Cement"))
	assert.Equal(t, order.ShipmentAssigned, a.Status())
	assertDerivedMatches(t, o)

	dispatch(t, o, "drv-b", order.Line{ItemName: "cement", Quantity: 40})
	assert.Equal(t, order.InTransit, o.Status())
	assert.Equal(t, 0, o.Remaining("Cement"))
	assertDerivedMatches(t, o)

	historyBefore := len(o.History())
	_, err := o.DispatchShipment(
		mustActor(t, "sup-1", kernel.DriverSupervisor),
		order.DispatchRequest{Assignment: assignment("drv-c"), Lines: []order.Line{{ItemName: "Cement", Quantity: 1}}},
		testNow,
	)

	var allocErr *errs.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, 1, allocErr.Requested)
	assert.Equal(t, 0, allocErr.Remaining)
	assert.Len(t, o.Shipments(), 2)
	assert.Len(t, o.History(), historyBefore)
	assertShippedWithinOrdered(t, o)
}

func TestDispatchShipment_RecordsHistory(t *testing.T) {
	o := newReadyOrder(t)

	s := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 10})

	last := o.History()[len(o.History())-1]
	assert.Equal(t, "Driver Supervisor", last.Role())
	assert.Equal(t, "Dispatched Shipment to Driver drv-a", last.Action())
	assert.Equal(t, "Main Yard", s.Assignment().WarehouseLocation)
	assert.Equal(t, []order.Line{{ItemName: "Cement", Quantity: 10}}, s.Lines())
}

func TestDispatchShipment_Validation(t *testing.T) {
	supervisor := mustActor(t, "sup-1", kernel.DriverSupervisor)

	tests := []struct {
		name   string
		mutate func(r *order.DispatchRequest)
		target error
	}{
		{
			name:   "missing driver",
			mutate: func(r *order.DispatchRequest) { r.Assignment.DriverID = "" },
			target: errs.ErrValueIsRequired,
		},
		{
			name:   "missing warehouse",
			mutate: func(r *order.DispatchRequest) { r.Assignment.WarehouseLocation = " " },
			target: errs.ErrValueIsRequired,
		},
		{
			name:   "missing dispatch time",
			mutate: func(r *order.DispatchRequest) { r.Assignment.DispatchTime = time.Time{} },
			target: errs.ErrValueIsRequired,
		},
		{
			name:   "all quantities zero",
			mutate: func(r *order.DispatchRequest) { r.Lines = []order.Line{{ItemName: "Cement", Quantity: 0}} },
			target: errs.ErrValueIsInvalid,
		},
		{
			name:   "no lines",
			mutate: func(r *order.DispatchRequest) { r.Lines = nil },
			target: errs.ErrValueIsInvalid,
		},
		{
			name:   "unknown item",
			mutate: func(r *order.DispatchRequest) { r.Lines = []order.Line{{ItemName: "Gravel", Quantity: 1}} },
			target: errs.ErrValueIsInvalid,
		},
		{
			name:   "negative quantity",
			mutate: func(r *order.DispatchRequest) { r.Lines = []order.Line{{ItemName: "Cement", Quantity: -1}} },
			target: errs.ErrValueIsOutOfRange,
		},
		{
			name:   "over remaining",
			mutate: func(r *order.DispatchRequest) { r.Lines = []order.Line{{ItemName: "Cement", Quantity: 101}} },
			target: errs.ErrAllocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newReadyOrder(t)
			req := order.DispatchRequest{
				Assignment: assignment("drv-a"),
				Lines:      []order.Line{{ItemName: "Cement", Quantity: 5}},
			}
			tt.mutate(&req)

			_, err := o.DispatchShipment(supervisor, req, testNow)

			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, o.Shipments())
			assert.Equal(t, order.ReadyForDriver, o.Status())
		})
	}
}

func TestDispatchShipment_Denied(t *testing.T) {
	t.Run("wrong role", func(t *testing.T) {
		o := newReadyOrder(t)

		_, err := o.DispatchShipment(
			mustActor(t, "wh-1", kernel.Warehouse),
			order.DispatchRequest{Assignment: assignment("drv-a"), Lines: []order.Line{{ItemName: "Cement", Quantity: 5}}},
			testNow,
		)

		require.ErrorIs(t, err, errs.ErrTransitionDenied)
	})

	for _, st := range []order.Status{order.PendingAssistant, order.Approved, order.OnHold, order.Completed, order.Canceled} {
		t.Run(st.String(), func(t *testing.T) {
			o := orderInStatus(t, st, order.OwnFleet)

			_, err := o.DispatchShipment(
				mustActor(t, "sup-1", kernel.DriverSupervisor),
				order.DispatchRequest{Assignment: assignment("drv-a"), Lines: []order.Line{{ItemName: "Cement", Quantity: 1}}},
				testNow,
			)

			require.ErrorIs(t, err, errs.ErrTransitionDenied)
		})
	}
}

func TestRemaining_ReleasesEmergencyQuantities(t *testing.T) {
	o := newReadyOrder(t, order.ItemInput{Name: "Cement", Quantity: 50}, order.ItemInput{Name: "Steel", Quantity: 20})
	driver := mustActor(t, "drv-a", kernel.TruckDriver)

	s := dispatch(t, o, "drv-a",
		order.Line{ItemName: "Cement", Quantity: 30},
		order.Line{ItemName: "Steel", Quantity: 20},
	)
	assert.Equal(t, 20, o.Remaining("Cement"))
	assert.Equal(t, 0, o.Remaining("Steel"))
	assert.Equal(t, 0, o.Remaining("Gravel"))

	require.NoError(t, o.ReportEmergency(driver, s.ID(), "engine failure", true, testNow))

	assert.Equal(t, 50, o.Remaining("Cement"))
	assert.Equal(t, 20, o.Remaining("Steel"))
	assert.Equal(t, 0, o.TotalShipped())
	assert.Equal(t, order.OnHold, o.Status())
}

func TestResolveEmergency_FailsWhenQuantitiesRedispatched(t *testing.T) {
	o := newReadyOrder(t)
	driver := mustActor(t, "drv-a", kernel.TruckDriver)

	s := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 100})
	require.NoError(t, o.ReportEmergency(driver, s.ID(), "accident", false, testNow))

	dispatch(t, o, "drv-b", order.Line{ItemName: "Cement", Quantity: 100})
	assert.Equal(t, order.InTransit, o.Status())
	assertDerivedMatches(t, o)

	err := o.ResolveEmergency(driver, s.ID(), testNow)

	require.ErrorIs(t, err, errs.ErrAllocation)
	assert.Equal(t, order.ShipmentEmergency, s.Status())
	assertShippedWithinOrdered(t, o)
}

func TestDeriveStatus(t *testing.T) {
	t.Run("no shipments", func(t *testing.T) {
		_, ok := order.DeriveStatus(nil, nil)
		assert.False(t, ok)
	})

	t.Run("is idempotent over a full lifecycle", func(t *testing.T) {
		o := newReadyOrder(t, order.ItemInput{Name: "Cement", Quantity: 10}, order.ItemInput{Name: "Sand", Quantity: 4})
		drvA := mustActor(t, "drv-a", kernel.TruckDriver)
		drvB := mustActor(t, "drv-b", kernel.TruckDriver)

		a := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 10})
		assertDerivedMatches(t, o)

		require.NoError(t, o.PickUpShipment(drvA, a.ID(), testNow))
		require.NoError(t, o.ReportEmergency(drvA, a.ID(), "police stop", false, testNow))
		assert.Equal(t, order.OnHold, o.Status())

		require.NoError(t, o.ResolveEmergency(drvA, a.ID(), testNow))
		assert.Equal(t, order.InTransit, o.Status())

		b := dispatch(t, o, "drv-b", order.Line{ItemName: "Sand", Quantity: 4})
		assertDerivedMatches(t, o)
		assert.Equal(t, order.InTransit, o.Status())

		require.NoError(t, o.DeliverShipment(drvA, a.ID(), "photos/a.jpg", testNow))
		assertDerivedMatches(t, o)
		require.NoError(t, o.PickUpShipment(drvB, b.ID(), testNow))
		require.NoError(t, o.DeliverShipment(drvB, b.ID(), "photos/b.jpg", testNow))
		assertDerivedMatches(t, o)
		assert.Equal(t, order.Completed, o.Status())
		assertShippedWithinOrdered(t, o)
	})
}

func TestDispatchShipment_WhileSiblingTripInEmergency(t *testing.T) {
	o := newReadyOrder(t)
	driver := mustActor(t, "drv-a", kernel.TruckDriver)
	a := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 100})
	require.NoError(t, o.ReportEmergency(driver, a.ID(), "engine failure", false, testNow))
	require.Equal(t, order.OnHold, o.Status())

	dispatch(t, o, "drv-b", order.Line{ItemName: "Cement", Quantity: 40})

	assert.Equal(t, order.PartiallyShipped, o.Status())
	assert.Equal(t, 60, o.Remaining("Cement"))
	assertDerivedMatches(t, o)

	dispatch(t, o, "drv-c", order.Line{ItemName: "Cement", Quantity: 60})

	assert.Equal(t, order.InTransit, o.Status())
	assert.Equal(t, 0, o.Remaining("Cement"))
	assertDerivedMatches(t, o)
}

func TestDeriveStatus_EmergencyTripBlocksCompletion(t *testing.T) {
	o := newReadyOrder(t)
	drvA := mustActor(t, "drv-a", kernel.TruckDriver)
	drvB := mustActor(t, "drv-b", kernel.TruckDriver)
	a := dispatch(t, o, "drv-a", order.Line{ItemName: "Cement", Quantity: 100})
	require.NoError(t, o.ReportEmergency(drvA, a.ID(), "accident", false, testNow))

	b := dispatch(t, o, "drv-b", order.Line{ItemName: "Cement", Quantity: 100})
	require.NoError(t, o.PickUpShipment(drvB, b.ID(), testNow))
	require.NoError(t, o.DeliverShipment(drvB, b.ID(), "photos/b.jpg", testNow))

	assert.Equal(t, order.InTransit, o.Status())
	assert.Equal(t, order.ShipmentEmergency, a.Status())
	assert.False(t, o.Status().IsTerminal())
	assertDerivedMatches(t, o)
}
