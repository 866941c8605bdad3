package cmd

import (
	"log/slog"

	httpapi "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/projections"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases.
//
// Writes go through uowFactory, whose commits notify the board projector.
// Reads, including the projector's own, use readFactory, which has no
// listener, so a refresh never triggers another refresh.
type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	readFactory *postgres.GormUnitOfWorkFactory
	uowFactory  *postgres.GormUnitOfWorkFactory
	projector   *projections.BoardProjector
	boardStore  ports.BoardStore
	extractor   ports.DraftExtractor
	logger      *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	boardStore ports.BoardStore,
	extractor ports.DraftExtractor,
	logger *slog.Logger,
) *CompositionRoot {
	readFactory := postgres.NewGormUnitOfWorkFactory(gormDB, nil)
	projector := projections.NewBoardProjector(readFactory, boardStore, logger)

	return &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		readFactory: readFactory,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB, projector),
		projector:   projector,
		boardStore:  boardStore,
		extractor:   extractor,
		logger:      logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdjustItemsCommandHandler() commands.AdjustItemsCommandHandler {
	return commands.NewAdjustItemsCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateDispatchShipmentCommandHandler() commands.DispatchShipmentCommandHandler {
	return commands.NewDispatchShipmentCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReassignShipmentCommandHandler() commands.ReassignShipmentCommandHandler {
	return commands.NewReassignShipmentCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateTripCommandHandler() commands.UpdateTripCommandHandler {
	return commands.NewUpdateTripCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdminOverrideCommandHandler() commands.AdminOverrideCommandHandler {
	return commands.NewAdminOverrideCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readFactory)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBoardQueryHandler() queries.GetBoardQueryHandler {
	return queries.NewGetBoardQueryHandler(c.boardStore, c.projector)
}

func (c *CompositionRoot) CreateExtractDraftQueryHandler() queries.ExtractDraftQueryHandler {
	return queries.NewExtractDraftQueryHandler(c.extractor)
}

// HTTPHandlers collects every use case the HTTP API exposes.
func (c *CompositionRoot) HTTPHandlers() httpapi.Handlers {
	return httpapi.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		EditOrder:        c.CreateEditOrderCommandHandler(),
		TransitionOrder:  c.CreateTransitionOrderCommandHandler(),
		AdjustItems:      c.CreateAdjustItemsCommandHandler(),
		DispatchShipment: c.CreateDispatchShipmentCommandHandler(),
		ReassignShipment: c.CreateReassignShipmentCommandHandler(),
		UpdateTrip:       c.CreateUpdateTripCommandHandler(),
		AdminOverride:    c.CreateAdminOverrideCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		ListOrders:       c.CreateListOrdersQueryHandler(),
		GetBoard:         c.CreateGetBoardQueryHandler(),
		ExtractDraft:     c.CreateExtractDraftQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewBoardRefreshJob(c.projector, c.cfg.BoardRefreshSpec, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
