package order

import (
	"strings"
	"time"
)

// Filter selects orders for listings and exports. Zero fields match everything.
// From and To bound the order date by calendar day, both inclusive.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Status *Status
	Search string
}

// Matches reports whether o passes every set criterion. Search is a
// case-insensitive substring of the customer name or serial number.
func (f Filter) Matches(o *Order) bool {
	if o == nil {
		return false
	}
	day := o.orderDate.Format(time.DateOnly)
	if f.From != nil && day < f.From.Format(time.DateOnly) {
		return false
	}
	if f.To != nil && day > f.To.Format(time.DateOnly) {
		return false
	}
	if f.Status != nil && o.status != *f.Status {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(o.customerName), term) ||
			strings.Contains(strings.ToLower(o.serialNumber), term)
	}
	return true
}

// Apply returns the matching orders, preserving order.
func (f Filter) Apply(orders []*Order) []*Order {
	out := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}
