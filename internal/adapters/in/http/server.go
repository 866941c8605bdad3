package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handler is the shape shared by command and query handlers.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// DispatchHandler also returns the created shipment.
type DispatchHandler interface {
	Handle(ctx context.Context, cmd commands.DispatchShipmentCommand) (*order.Order, *order.Shipment, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	CreateOrder      Handler[commands.CreateOrderCommand, *order.Order]
	EditOrder        Handler[commands.EditOrderCommand, *order.Order]
	TransitionOrder  Handler[commands.TransitionOrderCommand, *order.Order]
	AdjustItems      Handler[commands.AdjustItemsCommand, *order.Order]
	DispatchShipment DispatchHandler
	ReassignShipment Handler[commands.ReassignShipmentCommand, *order.Order]
	UpdateTrip       Handler[commands.UpdateTripCommand, *order.Order]
	AdminOverride    Handler[commands.AdminOverrideCommand, *order.Order]

	GetOrder     Handler[queries.GetOrderQuery, *order.Order]
	ListOrders   Handler[queries.ListOrdersQuery, []queries.ListOrdersQueryResponse]
	GetBoard     Handler[queries.GetBoardQuery, queries.GetBoardQueryResponse]
	ExtractDraft Handler[queries.ExtractDraftQuery, order.Details]
}

// Server translates HTTP requests into commands and queries.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
	clock    func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
		clock:    time.Now,
	}
}

// NewEcho builds the echo instance: unauthenticated health and docs routes,
// and the /api/v1 group behind bearer authentication and OpenAPI validation.
func NewEcho(s *Server, jwtSecret []byte) (*echo.Echo, error) {
	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}
	if err := registerDocs(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(requestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", Authenticate(jwtSecret), validate)
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PUT("/orders/:orderId", s.EditOrder)
	api.POST("/orders/:orderId/transitions", s.TransitionOrder)
	api.POST("/orders/:orderId/adjustments", s.AdjustItems)
	api.POST("/orders/:orderId/shipments", s.DispatchShipment)
	api.PUT("/orders/:orderId/shipments/:shipmentId/driver", s.ReassignShipment)
	api.POST("/orders/:orderId/shipments/:shipmentId/events", s.UpdateTrip)
	api.POST("/orders/:orderId/overrides", s.AdminOverride)
	api.GET("/board", s.GetBoard)
	api.POST("/drafts", s.ExtractDraft)

	return e, nil
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	var (
		from, to       *types.Date
		status, search *string
	)
	for name, dest := range map[string]any{"from": &from, "to": &to, "status": &status, "search": &search} {
		if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dest); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(name, err)
		}
	}

	filter := order.Filter{}
	if from != nil {
		filter.From = &from.Time
	}
	if to != nil {
		filter.To = &to.Time
	}
	if status != nil && *status != "" {
		st, err := order.ParseStatus(*status)
		if err != nil {
			return err
		}
		filter.Status = &st
	}
	if search != nil {
		filter.Search = *search
	}

	rows, err := s.handlers.ListOrders.Handle(c.Request().Context(), queries.NewListOrdersQuery(filter))
	if err != nil {
		return err
	}

	response := make([]OrderRow, 0, len(rows))
	for _, r := range rows {
		response = append(response, toOrderRow(r))
	}
	return c.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var body OrderDetails
	if err := bindBody(c, &body); err != nil {
		return err
	}
	details, err := body.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(actor, details)
	if err != nil {
		return err
	}
	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrder(o, s.clock()))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}
	o, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o, s.clock()))
}

// EditOrder handles PUT /api/v1/orders/:orderId.
func (s *Server) EditOrder(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	var body EditOrderRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	details, err := body.Details.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewEditOrderCommand(orderID, actor, details, body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.EditOrder, cmd)
}

// TransitionOrder handles POST /api/v1/orders/:orderId/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	var body TransitionRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	action, err := order.ParseAction(body.Action)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, action, body.Note, body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.TransitionOrder, cmd)
}

// AdjustItems handles POST /api/v1/orders/:orderId/adjustments.
func (s *Server) AdjustItems(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	var body AdjustItemsRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	adjustments := make([]order.Adjustment, 0, len(body.Adjustments))
	for _, a := range body.Adjustments {
		adjustments = append(adjustments, order.Adjustment{ItemName: a.ItemName, Quantity: a.Quantity, Notes: a.Notes})
	}

	cmd, err := commands.NewAdjustItemsCommand(orderID, actor, adjustments, body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.AdjustItems, cmd)
}

// DispatchShipment handles POST /api/v1/orders/:orderId/shipments.
func (s *Server) DispatchShipment(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	var body DispatchRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	req := order.DispatchRequest{
		Assignment: body.Driver.toDomain(),
		Lines:      make([]order.Line, 0, len(body.Lines)),
	}
	for _, l := range body.Lines {
		req.Lines = append(req.Lines, order.Line{ItemName: l.ItemName, Quantity: l.Quantity})
	}

	cmd, err := commands.NewDispatchShipmentCommand(orderID, actor, req, body.ExpectedVersion)
	if err != nil {
		return err
	}
	o, shipment, err := s.handlers.DispatchShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, DispatchResponse{
		Order:    toOrder(o, s.clock()),
		Shipment: toShipment(shipment),
	})
}

// ReassignShipment handles PUT /api/v1/orders/:orderId/shipments/:shipmentId/driver.
func (s *Server) ReassignShipment(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	shipmentID, err := pathUUID(c, "shipmentId")
	if err != nil {
		return err
	}
	var body ReassignRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewReassignShipmentCommand(orderID, shipmentID, actor, body.Driver.toDomain(), body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.ReassignShipment, cmd)
}

// UpdateTrip handles POST /api/v1/orders/:orderId/shipments/:shipmentId/events.
func (s *Server) UpdateTrip(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	shipmentID, err := pathUUID(c, "shipmentId")
	if err != nil {
		return err
	}
	var body TripEventRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	event, err := commands.ParseTripEvent(body.Event)
	if err != nil {
		return err
	}

	report := commands.TripReport{PhotoRef: body.PhotoRef, Details: body.Details, HasImage: body.HasImage}
	cmd, err := commands.NewUpdateTripCommand(orderID, shipmentID, actor, event, report, body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.UpdateTrip, cmd)
}

// AdminOverride handles POST /api/v1/orders/:orderId/overrides.
func (s *Server) AdminOverride(c echo.Context) error {
	actor, orderID, err := s.orderRequest(c)
	if err != nil {
		return err
	}
	var body OverrideRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	kind, err := order.ParseOverrideKind(body.Kind)
	if err != nil {
		return err
	}

	payload := commands.OverridePayload{NewCustomer: body.NewCustomer, NewArea: body.NewArea}
	if body.Details != nil {
		if payload.Details, err = body.Details.toDomain(); err != nil {
			return err
		}
	}

	cmd, err := commands.NewAdminOverrideCommand(orderID, actor, kind, body.Reason, payload, body.ExpectedVersion)
	if err != nil {
		return err
	}
	return respondOrder(s, c, s.handlers.AdminOverride, cmd)
}

// GetBoard handles GET /api/v1/board.
func (s *Server) GetBoard(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetBoardQuery(actor)
	if err != nil {
		return err
	}
	board, err := s.handlers.GetBoard.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoard(board))
}

// ExtractDraft handles POST /api/v1/drafts. Nothing is stored.
func (s *Server) ExtractDraft(c echo.Context) error {
	if _, err := actorFrom(c); err != nil {
		return err
	}
	var body DraftRequest
	if err := bindBody(c, &body); err != nil {
		return err
	}
	var base order.Details
	if body.Base != nil {
		var err error
		if base, err = body.Base.toDomain(); err != nil {
			return err
		}
	}

	query, err := queries.NewExtractDraftQuery(body.Text, base)
	if err != nil {
		return err
	}
	details, err := s.handlers.ExtractDraft.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromDetails(details))
}

func (s *Server) orderRequest(c echo.Context) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	return actor, orderID, nil
}

func respondOrder[C any](s *Server, c echo.Context, h Handler[C, *order.Order], cmd C) error {
	o, err := h.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o, s.clock()))
}

func bindBody(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return err
	}
	return c.Validate(dest)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("not a UUID: %w", err))
	}
	return kernel.UUIDFromBytes(id[:])
}
