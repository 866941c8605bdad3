package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
)

// DraftExtractor turns free text (a pasted message or note) into a partial
// order. It is called outside any transaction and must honour ctx
// cancellation. A draft only pre-fills create input.
type DraftExtractor interface {
	Extract(ctx context.Context, text string) (order.Draft, error)
}

// ErrExtractionUnavailable is returned when no extraction assistant is configured
// or the assistant could not produce a draft.
var ErrExtractionUnavailable = errors.New("draft extraction unavailable")
