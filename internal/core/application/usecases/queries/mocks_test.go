package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
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

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUnitOfWork) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUnitOfWork) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUnitOfWork) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

type MockBoardStore struct{ mock.Mock }

func (m *MockBoardStore) Save(ctx context.Context, b services.Board) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBoardStore) Load(ctx context.Context) (services.Board, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Board), args.Error(1)
}

type MockBoardRefresher struct{ mock.Mock }

func (m *MockBoardRefresher) Refresh(ctx context.Context) (services.Board, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.Board), args.Error(1)
}

type MockDraftExtractor struct{ mock.Mock }

func (m *MockDraftExtractor) Extract(ctx context.Context, text string) (order.Draft, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(order.Draft), args.Error(1)
}

func mustActor(t *testing.T, id string, role kernel.Role, admin bool) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, id, role, admin)
	require.NoError(t, err)
	return a
}
