package order

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// AlertWindow is how long an administrative override stays visible to every role.
const AlertWindow = 24 * time.Hour

// AdminEmergency stamps an order touched by an administrative override.
type AdminEmergency struct {
	Note      string
	Active    bool
	Timestamp time.Time
}

// IsRecent reports whether the override is still inside AlertWindow at now.
// Active stays true in storage; only this derived view expires.
func (a *AdminEmergency) IsRecent(now time.Time) bool {
	if a == nil || !a.Active {
		return false
	}
	age := now.Sub(a.Timestamp)
	return age >= 0 && age < AlertWindow
}

// OverrideKind names an administrative override.
type OverrideKind int

const (
	UnknownOverride OverrideKind = iota
	OverrideCancel
	OverrideTransfer
	OverrideEdit
)

func getOverrideKindStrings() map[OverrideKind]string {
	return map[OverrideKind]string{
		UnknownOverride:  "unknown",
		OverrideCancel:   "cancel",
		OverrideTransfer: "transfer",
		OverrideEdit:     "edit",
	}
}

func ParseOverrideKind(s string) (OverrideKind, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for k, str := range getOverrideKindStrings() {
		if k != UnknownOverride && str == needle {
			return k, nil
		}
	}
	return UnknownOverride, errs.NewValueIsInvalidErrorWithCause("override", fmt.Errorf("%q is not a valid override", s))
}

func (k OverrideKind) String() string {
	if s, ok := getOverrideKindStrings()[k]; ok {
		return s
	}
	return "unknown"
}

// overrideGate checks privilege and justification. Overrides have no source
// state precondition.
func overrideGate(actor kernel.Actor, kind OverrideKind, status Status, reason string) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	if !actor.IsAdmin() {
		return "", errs.NewTransitionDeniedError(kind.String()+" override", actor.Role().String(), status.String())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", errs.NewValueIsRequiredError("reason")
	}
	return reason, nil
}

func (o *Order) stampOverride(reason, entry string, actor kernel.Actor, now time.Time) {
	o.adminEmergency = &AdminEmergency{Note: reason, Active: true, Timestamp: now}
	o.record(kernel.AdminTitle, entry, actor, now)
}

// AdminCancel cancels the order from any state.
func (o *Order) AdminCancel(actor kernel.Actor, reason string, now time.Time) error {
	reason, err := overrideGate(actor, OverrideCancel, o.status, reason)
	if err != nil {
		return err
	}

	o.status = Canceled
	o.stampOverride(reason, "EMERGENCY CANCEL: "+reason, actor, now)
	return nil
}

// AdminTransfer hands the goods to another customer and completes the order.
// Items are retained; the area is kept when newArea is empty.
func (o *Order) AdminTransfer(actor kernel.Actor, newCustomer, newArea, reason string, now time.Time) error {
	reason, err := overrideGate(actor, OverrideTransfer, o.status, reason)
	if err != nil {
		return err
	}
	newCustomer = strings.TrimSpace(newCustomer)
	if newCustomer == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	o.customerName = newCustomer
	if area := strings.TrimSpace(newArea); area != "" {
		o.areaLocation = area
	}
	o.status = Completed
	o.stampOverride(reason, fmt.Sprintf("EMERGENCY TRANSFER to client %s: %s", newCustomer, reason), actor, now)
	return nil
}

// AdminEdit replaces every editable field and completes the order. Item
// quantities still respect original quantities and dispatched amounts.
func (o *Order) AdminEdit(actor kernel.Actor, details Details, reason string, now time.Time) error {
	reason, err := overrideGate(actor, OverrideEdit, o.status, reason)
	if err != nil {
		return err
	}

	details = details.normalized(o.orderDate)
	if err = details.validate(); err != nil {
		return err
	}
	if err = o.replaceDetails(details); err != nil {
		return err
	}

	o.status = Completed
	o.stampOverride(reason, "EMERGENCY EDIT OVERRIDE: "+reason, actor, now)
	return nil
}
