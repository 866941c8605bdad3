package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ExtractDraftQueryHandler calls the extraction assistant and merges its draft
// into the base input. Nothing is written; the caller submits the result as
// a create command if it wants to.
type ExtractDraftQueryHandler struct {
	extractor ports.DraftExtractor
}

func NewExtractDraftQueryHandler(extractor ports.DraftExtractor) ExtractDraftQueryHandler {
	return ExtractDraftQueryHandler{extractor: extractor}
}

func (h ExtractDraftQueryHandler) Handle(ctx context.Context, query ExtractDraftQuery) (order.Details, error) {
	if err := query.Validate(); err != nil {
		return order.Details{}, err
	}

	draft, err := h.extractor.Extract(ctx, query.Text())
	if err != nil {
		return order.Details{}, err
	}

	return order.ApplyDraft(query.Base(), draft), nil
}
