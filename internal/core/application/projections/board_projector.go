// Package projections keeps read models in step with committed order writes.
package projections

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// BoardProjector rebuilds the inbox board from the order store and saves it
// to a BoardStore. It listens for committed writes and is also driven by a
// schedule so alerts expire without a write.
//
// Refreshes are serialized so a slow rebuild never overwrites a newer board.
type BoardProjector struct {
	uowFactory ports.UnitOfWorkFactory
	store      ports.BoardStore
	aggregator services.InboxAggregator
	logger     *slog.Logger

	mu sync.Mutex
}

func NewBoardProjector(
	uowFactory ports.UnitOfWorkFactory,
	store ports.BoardStore,
	logger *slog.Logger,
) *BoardProjector {
	return &BoardProjector{
		uowFactory: uowFactory,
		store:      store,
		aggregator: services.NewInboxAggregator(),
		logger:     logger.With("component", "board_projector"),
	}
}

// Refresh reads every order that can still show on the board, aggregates
// and saves the result.
func (p *BoardProjector) Refresh(ctx context.Context) (services.Board, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	orders, err := p.uowFactory.Create().OrderRepository().ListForBoard(ctx, now.Add(-order.AlertWindow))
	if err != nil {
		return services.Board{}, err
	}

	board, err := p.aggregator.Aggregate(orders, now)
	if err != nil {
		return services.Board{}, err
	}

	if err = p.store.Save(ctx, board); err != nil {
		return services.Board{}, err
	}

	return board, nil
}

// OrdersCommitted implements ports.CommitListener. The write already
// committed, so a failed refresh is only logged; the next commit or the
// scheduled job repairs the board.
func (p *BoardProjector) OrdersCommitted(ctx context.Context, ids []kernel.UUID) {
	ctx = context.WithoutCancel(ctx)
	if _, err := p.Refresh(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Board refresh after commit failed", "orders", len(ids), "error", err)
		return
	}
	p.logger.DebugContext(ctx, "Board refreshed after commit", "orders", len(ids))
}
