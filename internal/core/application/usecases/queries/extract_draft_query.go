package queries

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrExtractDraftQueryIsNotConstructed = errors.New(
		"ExtractDraftQuery must be created via NewExtractDraftQuery constructor",
	)
)

// ExtractDraftQuery turns pasted text into pre-filled create input. base is
// whatever the user already typed; it wins over extracted values.
type ExtractDraftQuery struct {
	text  string
	base  order.Details
	guard guard.ConstructorGuard
}

func NewExtractDraftQuery(text string, base order.Details) (ExtractDraftQuery, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ExtractDraftQuery{}, errs.NewValueIsRequiredError("text")
	}
	return ExtractDraftQuery{text: text, base: base, guard: guard.NewConstructorGuard()}, nil
}

func (q ExtractDraftQuery) Validate() error {
	return q.guard.Validate(ErrExtractDraftQueryIsNotConstructed)
}

func (q ExtractDraftQuery) Text() string {
	return q.text
}

func (q ExtractDraftQuery) Base() order.Details {
	return q.base
}
