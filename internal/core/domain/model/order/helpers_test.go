package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func mustActor(t *testing.T, id string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, id+" name", role, false)
	require.NoError(t, err)
	return a
}

func mustAdmin(t *testing.T, id string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, "Admin "+id, role, true)
	require.NoError(t, err)
	return a
}

func validDetails(items ...order.ItemInput) order.Details {
	if len(items) == 0 {
		items = []order.ItemInput{{Name: "Cement", Quantity: 100}}
	}
	return order.Details{
		CustomerName:  "Nile Builders",
		AreaLocation:  "Giza",
		OrderDate:     testNow,
		ReceivingDate: testNow.Add(48 * time.Hour),
		DeliveryShift: order.FirstTrip,
		DeliveryType:  order.OwnFleet,
		Items:         items,
	}
}

func newPendingOrder(t *testing.T, items ...order.ItemInput) *order.Order {
	t.Helper()
	o, err := order.NewOrder(validDetails(items...), mustActor(t, "sales-1", kernel.Sales), testNow)
	require.NoError(t, err)
	return o
}

// newReadyOrder walks an order through assistant, finance and warehouse.
func newReadyOrder(t *testing.T, items ...order.ItemInput) *order.Order {
	t.Helper()
	o := newPendingOrder(t, items...)
	require.NoError(t, o.Transition(mustActor(t, "asst-1", kernel.Assistant), order.Approve, "", testNow))
	require.NoError(t, o.Transition(mustActor(t, "fin-1", kernel.Finance), order.Approve, "", testNow))
	require.NoError(t, o.Transition(mustActor(t, "wh-1", kernel.Warehouse), order.Ready, "", testNow))
	require.Equal(t, order.ReadyForDriver, o.Status())
	return o
}

func assignment(driverID string) order.DriverAssignment {
	return order.DriverAssignment{
		DriverID:          driverID,
		DriverName:        "Driver " + driverID,
		DriverPhone:       "0100000000",
		CarNumber:         "ABC-123",
		WarehouseLocation: "Main Yard",
		DispatchTime:      testNow.Add(time.Hour),
	}
}

func dispatch(t *testing.T, o *order.Order, driverID string, lines ...order.Line) *order.Shipment {
	t.Helper()
	s, err := o.DispatchShipment(
		mustActor(t, "sup-1", kernel.DriverSupervisor),
		order.DispatchRequest{Assignment: assignment(driverID), Lines: lines},
		testNow,
	)
	require.NoError(t, err)
	return s
}

// orderInStatus restores an order sitting in st with no shipments.
func orderInStatus(t *testing.T, st order.Status, deliveryType order.DeliveryType) *order.Order {
	t.Helper()
	item, err := order.RestoreItem(kernel.NewUUID(), "Cement", 10, 10, "")
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewUUID(),
		SerialNumber:  "SO-100200",
		CustomerName:  "Nile Builders",
		AreaLocation:  "Giza",
		OrderDate:     testNow,
		ReceivingDate: testNow,
		DeliveryShift: order.FirstTrip,
		DeliveryType:  deliveryType,
		Items:         []*order.Item{item},
		Status:        st,
		CreatedBy:     "sales-1",
		CreatorName:   "sales-1 name",
		Version:       3,
	})
	require.NoError(t, err)
	return o
}

func assertDerivedMatches(t *testing.T, o *order.Order) {
	t.Helper()
	derived, ok := order.DeriveStatus(o.Items(), o.Shipments())
	require.True(t, ok)
	require.Equal(t, o.Status(), derived, "stored status must equal re-derived status")
}

func assertShippedWithinOrdered(t *testing.T, o *order.Order) {
	t.Helper()
	for _, item := range o.Items() {
		shipped := 0
		for _, s := range o.Shipments() {
			if s.Status() != order.ShipmentEmergency {
				shipped += s.Quantity(item.Name())
			}
		}
		require.LessOrEqual(t, shipped, item.Quantity(), item.Name())
		require.GreaterOrEqual(t, item.Quantity(), 0)
		require.LessOrEqual(t, item.Quantity(), item.OriginalQuantity())
	}
}
