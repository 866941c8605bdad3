package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type mockHandler[In, Out any] struct{ mock.Mock }

func (m *mockHandler[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(Out)
	return out, args.Error(1)
}

type mockDispatchHandler struct{ mock.Mock }

func (m *mockDispatchHandler) Handle(
	ctx context.Context,
	cmd commands.DispatchShipmentCommand,
) (*order.Order, *order.Shipment, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	s, _ := args.Get(1).(*order.Shipment)
	return o, s, args.Error(2)
}

func newAPI(t *testing.T, handlers api.Handlers) *echo.Echo {
	t.Helper()
	server := api.NewServer(handlers, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e, err := api.NewEcho(server, testSecret)
	require.NoError(t, err)
	return e
}

func mustActor(t *testing.T, id string, role kernel.Role, admin bool) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, id+" name", role, admin)
	require.NoError(t, err)
	return a
}

func tokenFor(t *testing.T, actor kernel.Actor) string {
	t.Helper()
	token, err := api.IssueToken(testSecret, actor, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

func call(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	o, err := order.NewOrder(order.Details{
		CustomerName:  "Nile Traders",
		AreaLocation:  "North",
		ReceivingDate: now.AddDate(0, 0, 2),
		Items:         []order.ItemInput{{Name: "Cement", Quantity: 100}},
	}, mustActor(t, "sales-1", kernel.Sales, false), now)
	require.NoError(t, err)
	return o
}

func dispatchedOrder(t *testing.T) (*order.Order, *order.Shipment) {
	t.Helper()
	o := sampleOrder(t)
	now := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, o.Transition(mustActor(t, "asst-1", kernel.Assistant, false), order.Approve, "", now))
	require.NoError(t, o.Transition(mustActor(t, "fin-1", kernel.Finance, false), order.Approve, "", now))
	require.NoError(t, o.Transition(mustActor(t, "wh-1", kernel.Warehouse, false), order.Ready, "", now))
	s, err := o.DispatchShipment(mustActor(t, "sup-1", kernel.DriverSupervisor, false), order.DispatchRequest{
		Assignment: order.DriverAssignment{
			DriverID:          "drv-7",
			WarehouseLocation: "Bay 2",
			DispatchTime:      now,
		},
		Lines: []order.Line{{ItemName: "Cement", Quantity: 60}},
	}, now)
	require.NoError(t, err)
	return o, s
}

func TestHealth_IsPublic(t *testing.T) {
	e := newAPI(t, api.Handlers{})

	rec := call(e, nethttp.MethodGet, "/health", "", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	e := newAPI(t, api.Handlers{})
	sales := mustActor(t, "sales-1", kernel.Sales, false)

	expired, err := api.IssueToken(testSecret, sales, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	forged, err := api.IssueToken([]byte("other-secret"), sales, time.Hour, time.Now())
	require.NoError(t, err)
	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{
		Name: "Eve",
		Role: "janitor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "eve",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{
		Name:             "Sam",
		Role:             "sales",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sam"},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"expired", expired},
		{"wrong signature", forged},
		{"unknown role", unknownRole},
		{"no expiry", noExpiry},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(e, nethttp.MethodGet, "/api/v1/board", tt.token, "")

			assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
			body := decode[api.Error](t, rec)
			assert.Equal(t, "Authentication required", body.Message)
		})
	}
}

func TestCreateOrder_BuildsCommandFromBody(t *testing.T) {
	created := sampleOrder(t)
	h := &mockHandler[commands.CreateOrderCommand, *order.Order]{}
	h.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		d := cmd.Details()
		return cmd.Actor().ID() == "sales-1" &&
			d.CustomerName == "Nile Traders" &&
			d.DeliveryType == order.Outsource &&
			d.ReceivingDate.Equal(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)) &&
			len(d.Items) == 1 && d.Items[0].Name == "Cement" && d.Items[0].Quantity == 100
	})).Return(created, nil).Once()
	e := newAPI(t, api.Handlers{CreateOrder: h})

	rec := call(e, nethttp.MethodPost, "/api/v1/orders", tokenFor(t, mustActor(t, "sales-1", kernel.Sales, false)), `{
		"customerName": "Nile Traders",
		"areaLocation": "North",
		"receivingDate": "2025-05-12",
		"deliveryType": "Outsource",
		"items": [{"itemName": "Cement", "quantity": 100}]
	}`)

	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	body := decode[api.Order](t, rec)
	assert.Equal(t, created.ID().String(), body.ID)
	assert.Equal(t, "PendingAssistant", body.Status)
	assert.Equal(t, "2025-05-10", body.OrderDate.String())
	require.Len(t, body.Items, 1)
	assert.Equal(t, 100, body.Items[0].Remaining)
	require.Len(t, body.History, 1)
	assert.Equal(t, "Order Created", body.History[0].Action)
	h.AssertExpectations(t)
}

func TestTransitionOrder_RejectsUndocumentedAction(t *testing.T) {
	h := &mockHandler[commands.TransitionOrderCommand, *order.Order]{}
	e := newAPI(t, api.Handlers{TransitionOrder: h})
	token := tokenFor(t, mustActor(t, "asst-1", kernel.Assistant, false))

	rec := call(e, nethttp.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions", token,
		`{"action": "launch"}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	h.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestTransitionOrder_RejectsMalformedOrderID(t *testing.T) {
	e := newAPI(t, api.Handlers{TransitionOrder: &mockHandler[commands.TransitionOrderCommand, *order.Order]{}})
	token := tokenFor(t, mustActor(t, "asst-1", kernel.Assistant, false))

	rec := call(e, nethttp.MethodPost, "/api/v1/orders/not-a-uuid/transitions", token, `{"action": "approve"}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestTransitionOrder_MapsErrors(t *testing.T) {
	orderID := kernel.NewUUID()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"denied", errs.NewTransitionDeniedError("approve", "sales", "PendingAssistant"), nethttp.StatusConflict, ""},
		{"stale version", errs.NewConcurrencyConflictError("order", orderID.String(), 1, 2), nethttp.StatusConflict, ""},
		{"not found", errs.NewObjectNotFoundError("orderID", orderID), nethttp.StatusNotFound, ""},
		{"validation", errs.NewValueIsRequiredError("note"), nethttp.StatusBadRequest, ""},
		{"internal", errors.New("connection reset"), nethttp.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHandler[commands.TransitionOrderCommand, *order.Order]{}
			h.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
				return cmd.OrderID().IsEqual(orderID) && cmd.Action() == order.Approve &&
					cmd.ExpectedVersion() == 3 && cmd.Note() == "ok"
			})).Return(nil, tt.err).Once()
			e := newAPI(t, api.Handlers{TransitionOrder: h})
			token := tokenFor(t, mustActor(t, "asst-1", kernel.Assistant, false))

			rec := call(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/transitions", token,
				`{"action": "approve", "note": "ok", "expectedVersion": 3}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			body := decode[api.Error](t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
			h.AssertExpectations(t)
		})
	}
}

func TestDispatchShipment(t *testing.T) {
	orderID := kernel.NewUUID()
	token := tokenFor(t, mustActor(t, "sup-1", kernel.DriverSupervisor, false))
	body := `{
		"expectedVersion": 4,
		"driver": {"driverId": "drv-7", "driverName": "Omar", "dispatchTime": "2025-05-11T08:00:00Z"},
		"lines": [{"itemName": "Cement", "quantity": 60}]
	}`

	t.Run("created", func(t *testing.T) {
		o, shipment := dispatchedOrder(t)
		h := &mockDispatchHandler{}
		h.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DispatchShipmentCommand) bool {
			req := cmd.Request()
			return req.Assignment.DriverID == "drv-7" &&
				req.Assignment.DispatchTime.Equal(time.Date(2025, 5, 11, 8, 0, 0, 0, time.UTC)) &&
				len(req.Lines) == 1 && req.Lines[0].Quantity == 60 && cmd.ExpectedVersion() == 4
		})).Return(o, shipment, nil).Once()
		e := newAPI(t, api.Handlers{DispatchShipment: h})

		rec := call(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/shipments", token, body)

		require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
		resp := decode[api.DispatchResponse](t, rec)
		assert.Equal(t, "PartiallyShipped", resp.Order.Status)
		assert.Equal(t, shipment.ID().String(), resp.Shipment.ID)
		assert.Equal(t, "Assigned", resp.Shipment.Status)
		require.Len(t, resp.Order.Items, 1)
		assert.Equal(t, 40, resp.Order.Items[0].Remaining)
		h.AssertExpectations(t)
	})

	t.Run("over allocation", func(t *testing.T) {
		h := &mockDispatchHandler{}
		h.On("Handle", mock.Anything, mock.Anything).
			Return(nil, nil, errs.NewAllocationError("Cement", 60, 40)).Once()
		e := newAPI(t, api.Handlers{DispatchShipment: h})

		rec := call(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/shipments", token, body)

		assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing driver", func(t *testing.T) {
		h := &mockDispatchHandler{}
		e := newAPI(t, api.Handlers{DispatchShipment: h})

		rec := call(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/shipments", token,
			`{"driver": {"dispatchTime": "2025-05-11T08:00:00Z"}, "lines": [{"itemName": "Cement", "quantity": 1}]}`)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
		h.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestListOrders_BindsFilter(t *testing.T) {
	h := &mockHandler[queries.ListOrdersQuery, []queries.ListOrdersQueryResponse]{}
	h.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		f := q.Filter()
		return f.From != nil && f.From.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To == nil &&
			f.Status != nil && *f.Status == order.OnHold &&
			f.Search == "nile"
	})).Return([]queries.ListOrdersQueryResponse{{
		ID:              kernel.NewUUID(),
		SerialNumber:    "SO-100200",
		CustomerName:    "Nile Traders",
		OrderDate:       time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		DeliveryType:    order.OwnFleet,
		Status:          order.OnHold,
		TotalQuantity:   120,
		ShippedQuantity: 60,
		ShipmentCount:   2,
	}}, nil).Once()
	e := newAPI(t, api.Handlers{ListOrders: h})
	token := tokenFor(t, mustActor(t, "fin-1", kernel.Finance, false))

	rec := call(e, nethttp.MethodGet, "/api/v1/orders?from=2025-05-01&status=OnHold&search=nile", token, "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	rows := decode[[]api.OrderRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "SO-100200", rows[0].SerialNumber)
	assert.Equal(t, "OnHold", rows[0].Status)
	assert.Equal(t, "2025-05-03", rows[0].OrderDate.String())
	h.AssertExpectations(t)
}

func TestListOrders_RejectsBadDate(t *testing.T) {
	h := &mockHandler[queries.ListOrdersQuery, []queries.ListOrdersQueryResponse]{}
	e := newAPI(t, api.Handlers{ListOrders: h})
	token := tokenFor(t, mustActor(t, "fin-1", kernel.Finance, false))

	rec := call(e, nethttp.MethodGet, "/api/v1/orders?from=01/05/2025", token, "")

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	h.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetBoard_RendersRoleNames(t *testing.T) {
	admin := mustActor(t, "fin-admin", kernel.Finance, true)
	orderID := kernel.NewUUID()
	h := &mockHandler[queries.GetBoardQuery, queries.GetBoardQueryResponse]{}
	h.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetBoardQuery) bool {
		return q.Actor().ID() == "fin-admin" && q.Actor().IsAdmin()
	})).Return(queries.GetBoardQueryResponse{
		Role:    kernel.Finance,
		Pending: 2,
		Counts:  map[kernel.Role]int{kernel.Finance: 2, kernel.Warehouse: 5},
		Alerts: []services.Alert{{
			OrderID:      orderID,
			SerialNumber: "SO-100300",
			Note:         "customer closed",
			Timestamp:    time.Now().Add(-time.Hour),
		}},
	}, nil).Once()
	e := newAPI(t, api.Handlers{GetBoard: h})

	rec := call(e, nethttp.MethodGet, "/api/v1/board", tokenFor(t, admin), "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	board := decode[api.Board](t, rec)
	assert.Equal(t, "finance", board.Role)
	assert.Equal(t, 2, board.Pending)
	assert.Equal(t, map[string]int{"finance": 2, "warehouse": 5}, board.Counts)
	require.Len(t, board.Alerts, 1)
	assert.Equal(t, orderID.String(), board.Alerts[0].OrderID)
}

func TestExtractDraft(t *testing.T) {
	token := tokenFor(t, mustActor(t, "sales-1", kernel.Sales, false))

	t.Run("fills base", func(t *testing.T) {
		h := &mockHandler[queries.ExtractDraftQuery, order.Details]{}
		h.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ExtractDraftQuery) bool {
			return q.Text() == "20 bags cement for Delta Co" && q.Base().AreaLocation == "East"
		})).Return(order.Details{
			CustomerName: "Delta Co",
			AreaLocation: "East",
			Items:        []order.ItemInput{{Name: "Cement", Quantity: 20}},
		}, nil).Once()
		e := newAPI(t, api.Handlers{ExtractDraft: h})

		rec := call(e, nethttp.MethodPost, "/api/v1/drafts", token,
			`{"text": "20 bags cement for Delta Co", "base": {"areaLocation": "East"}}`)

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		draft := decode[api.OrderDetails](t, rec)
		assert.Equal(t, "Delta Co", draft.CustomerName)
		assert.Nil(t, draft.OrderDate)
		require.Len(t, draft.Items, 1)
		assert.Equal(t, 20, draft.Items[0].Quantity)
	})

	t.Run("assistant unavailable", func(t *testing.T) {
		h := &mockHandler[queries.ExtractDraftQuery, order.Details]{}
		h.On("Handle", mock.Anything, mock.Anything).
			Return(order.Details{}, ports.ErrExtractionUnavailable).Once()
		e := newAPI(t, api.Handlers{ExtractDraft: h})

		rec := call(e, nethttp.MethodPost, "/api/v1/drafts", token, `{"text": "anything"}`)

		assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	})
}
