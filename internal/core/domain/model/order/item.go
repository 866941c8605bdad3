package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is one catalog line of an order. originalQuantity is fixed when the
// item is first created and caps every later adjustment.
type Item struct {
	id               kernel.UUID
	name             string
	quantity         int
	originalQuantity int
	notes            string

	guard guard.ConstructorGuard
}

// NewItem creates a line whose original quantity equals its quantity.
func NewItem(name string, quantity int, notes string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("itemName")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%s: %d is not greater than 0", name, quantity))
	}

	return &Item{
		id:               kernel.NewUUID(),
		name:             name,
		quantity:         quantity,
		originalQuantity: quantity,
		notes:            strings.TrimSpace(notes),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// RestoreItem rebuilds a persisted line.
func RestoreItem(id kernel.UUID, name string, quantity, originalQuantity int, notes string) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValueIsRequiredError("itemName")
	}
	if quantity < 0 || quantity > originalQuantity {
		return nil, errs.NewValueIsOutOfRangeError(name, quantity, 0, originalQuantity)
	}

	return &Item{
		id:               id,
		name:             name,
		quantity:         quantity,
		originalQuantity: originalQuantity,
		notes:            notes,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) Name() string {
	return i.name
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) OriginalQuantity() int {
	return i.originalQuantity
}

func (i *Item) Notes() string {
	return i.notes
}

// setQuantity enforces floor <= q <= originalQuantity. The floor is the
// quantity already allocated to live shipments.
func (i *Item) setQuantity(q, floor int) error {
	if q < floor || q > i.originalQuantity {
		return errs.NewValueIsOutOfRangeError(i.name, q, floor, i.originalQuantity)
	}
	i.quantity = q
	return nil
}

func sameItemName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
