package order

import (
	"strings"
	"time"
)

// Draft is the partial order an extraction assistant produced from free text.
// It only ever pre-fills create input; it is never committed by itself.
type Draft struct {
	CustomerName string
	AreaLocation string
	OrderDate    *time.Time
	Items        []ItemInput
}

// ApplyDraft fills the blank fields of base from d. Fields the user already
// typed win. Draft items are appended unless base already lists that name.
func ApplyDraft(base Details, d Draft) Details {
	if strings.TrimSpace(base.CustomerName) == "" {
		base.CustomerName = strings.TrimSpace(d.CustomerName)
	}
	if strings.TrimSpace(base.AreaLocation) == "" {
		base.AreaLocation = strings.TrimSpace(d.AreaLocation)
	}
	if base.OrderDate.IsZero() && d.OrderDate != nil {
		base.OrderDate = *d.OrderDate
	}

	items := append([]ItemInput(nil), base.Items...)
	for _, in := range d.Items {
		if strings.TrimSpace(in.Name) == "" || containsItem(items, in.Name) {
			continue
		}
		items = append(items, ItemInput{
			Name:     strings.TrimSpace(in.Name),
			Quantity: in.Quantity,
			Notes:    strings.TrimSpace(in.Notes),
		})
	}
	base.Items = items
	return base
}

func containsItem(items []ItemInput, name string) bool {
	for _, in := range items {
		if sameItemName(in.Name, name) {
			return true
		}
	}
	return false
}
