package ports

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// BoardStore keeps the latest computed board so reads do not rescan orders.
// Load returns errs.ObjectNotFoundError when nothing was saved yet.
type BoardStore interface {
	Save(ctx context.Context, board services.Board) error
	Load(ctx context.Context) (services.Board, error)
}
