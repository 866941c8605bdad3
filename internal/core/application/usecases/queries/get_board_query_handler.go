package queries

import (
	"context"
	"errors"
	"maps"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// BoardRefresher recomputes the board from the order store and saves it.
type BoardRefresher interface {
	Refresh(ctx context.Context) (services.Board, error)
}

// GetBoardQueryHandler serves the board from the store and rebuilds it when
// nothing was saved yet. Alerts are re-checked against the current time so a
// board saved a while ago never shows an expired alert.
type GetBoardQueryHandler struct {
	store     ports.BoardStore
	refresher BoardRefresher
}

func NewGetBoardQueryHandler(store ports.BoardStore, refresher BoardRefresher) GetBoardQueryHandler {
	return GetBoardQueryHandler{store: store, refresher: refresher}
}

func (h GetBoardQueryHandler) Handle(ctx context.Context, query GetBoardQuery) (GetBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBoardQueryResponse{}, err
	}

	board, err := h.store.Load(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		board, err = h.refresher.Refresh(ctx)
	}
	if err != nil {
		return GetBoardQueryResponse{}, err
	}

	actor := query.Actor()
	now := time.Now().UTC()

	resp := GetBoardQueryResponse{
		Role:        actor.Role(),
		Pending:     board.Count(actor.Role()),
		Alerts:      make([]services.Alert, 0, len(board.Alerts)),
		GeneratedAt: board.GeneratedAt,
	}
	if actor.Is(kernel.TruckDriver) {
		resp.Pending = board.Trips(actor.ID())
	}
	if actor.IsAdmin() {
		resp.Counts = maps.Clone(board.Counts)
	}
	for _, a := range board.Alerts {
		if now.Sub(a.Timestamp) < order.AlertWindow {
			resp.Alerts = append(resp.Alerts, a)
		}
	}

	return resp, nil
}
