package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, f order.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListForBoard(ctx context.Context, since time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

func mustActor(t *testing.T, id string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, id, role, false)
	require.NoError(t, err)
	return a
}

func mustAdmin(t *testing.T, id string, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, id, role, true)
	require.NoError(t, err)
	return a
}

func testDetails() order.Details {
	return order.Details{
		CustomerName:  "Nile Builders",
		AreaLocation:  "Giza",
		ReceivingDate: time.Now().Add(48 * time.Hour),
		Items:         []order.ItemInput{{Name: "Cement", Quantity: 100}},
	}
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(testDetails(), mustActor(t, "sales-1", kernel.Sales), time.Now())
	require.NoError(t, err)
	return o
}

func readyOrder(t *testing.T) *order.Order {
	t.Helper()
	o := pendingOrder(t)
	now := time.Now()
	require.NoError(t, o.Transition(mustActor(t, "asst-1", kernel.Assistant), order.Approve, "", now))
	require.NoError(t, o.Transition(mustActor(t, "fin-1", kernel.Finance), order.Approve, "", now))
	require.NoError(t, o.Transition(mustActor(t, "wh-1", kernel.Warehouse), order.Ready, "", now))
	return o
}

// expectMutation wires a factory whose unit of work loads o under lock.
// The caller adds the expectations for what happens after the load.
func expectMutation(
	ctx context.Context,
	o *order.Order,
) (*MockOrderUoWFactory, *MockOrderUoW, *MockOrderRepository) {
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	return factory, uow, repo
}
