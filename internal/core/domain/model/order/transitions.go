package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Action is a role-gated status transition.
type Action int

const (
	UnknownAction Action = iota
	Approve
	Reject
	Ready
	Hold
	Cancel
)

func getActionStrings() map[Action]string {
	return map[Action]string{
		UnknownAction: "unknown",
		Approve:       "approve",
		Reject:        "reject",
		Ready:         "ready",
		Hold:          "hold",
		Cancel:        "cancel",
	}
}

func ParseAction(s string) (Action, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for a, str := range getActionStrings() {
		if a != UnknownAction && str == needle {
			return a, nil
		}
	}
	return UnknownAction, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

func (a Action) String() string {
	if s, ok := getActionStrings()[a]; ok {
		return s
	}
	return "unknown"
}

type transitionKey struct {
	role   kernel.Role
	action Action
}

type transitionRule struct {
	from []Status
	to   Status
	// defaultNote is recorded when the actor gives no note.
	defaultNote string
	// heldWithEmergency admits OnHold only while a shipment is in Emergency.
	heldWithEmergency bool
	noteRequired      bool
	creatorOnly       bool
	// inbox marks the rules whose source states count as pending work for the role.
	inbox bool
}

func (r transitionRule) admits(o *Order) bool {
	if !slices.Contains(r.from, o.status) {
		return false
	}
	if r.heldWithEmergency && o.status == OnHold {
		return o.HasEmergencyShipment()
	}
	return true
}

// getTransitionTable is the complete matrix of role-gated transitions. Any
// (role, action) pair absent here is denied.
func getTransitionTable() map[transitionKey]transitionRule {
	return map[transitionKey]transitionRule{
		{kernel.Assistant, Approve}: {
			from: []Status{PendingAssistant}, to: PendingFinance,
			defaultNote: "Qty Approved", inbox: true,
		},
		{kernel.Assistant, Reject}: {
			from: []Status{PendingAssistant}, to: Rejected,
			defaultNote: "Qty Rejected", noteRequired: true, inbox: true,
		},
		{kernel.Finance, Approve}: {
			from: []Status{PendingFinance}, to: Approved,
			defaultNote: "Credit Approved", inbox: true,
		},
		{kernel.Finance, Reject}: {
			from: []Status{PendingFinance}, to: Rejected,
			defaultNote: "Credit Issues", noteRequired: true, inbox: true,
		},
		{kernel.Warehouse, Ready}: {
			from: []Status{Approved, OnHold}, to: ReadyForDriver,
			defaultNote: "Ready for Driver", inbox: true,
		},
		{kernel.Warehouse, Hold}: {
			from: []Status{Approved, OnHold}, to: OnHold,
			defaultNote: "Order Held for Review", inbox: true,
		},
		{kernel.Warehouse, Reject}: {
			from: []Status{Approved, OnHold}, to: Rejected,
			defaultNote: "Order Rejected", noteRequired: true, inbox: true,
		},
		{kernel.DriverSupervisor, Hold}: {
			from: []Status{ReadyForDriver, PartiallyShipped, OnHold}, to: OnHold,
			defaultNote: "Held by Logistics", heldWithEmergency: true, inbox: true,
		},
		{kernel.Sales, Cancel}: {
			from: []Status{PendingAssistant, Rejected}, to: Canceled,
			defaultNote: "Order canceled by supervisor", creatorOnly: true,
		},
	}
}

// outsourceHandOff is recorded when the warehouse releases an outsourced
// order. The order completes without any shipment.
// TODO: model the carrier hand-off as its own HandedToCarrier status once
// carriers report delivery back.
const outsourceHandOff = "Marked Delivered (Outsource)"

// Transition applies a role-gated status change. Nothing is mutated when the
// actor's role has no rule for the action or the current status is outside
// the rule's source set.
func (o *Order) Transition(actor kernel.Actor, action Action, note string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	rule, ok := getTransitionTable()[transitionKey{role: actor.Role(), action: action}]
	if !ok || !rule.admits(o) {
		return errs.NewTransitionDeniedError(action.String(), actor.Role().String(), o.status.String())
	}
	if rule.creatorOnly && actor.ID() != o.createdBy {
		return errs.NewTransitionDeniedErrorWithCause(action.String(), actor.Role().String(), o.status.String(),
			errors.New("only the creator may "+action.String()))
	}

	note = strings.TrimSpace(note)
	if rule.noteRequired && note == "" {
		return errs.NewValueIsRequiredError("note")
	}

	to, entry := rule.to, note
	if entry == "" {
		entry = rule.defaultNote
	}
	if actor.Is(kernel.Warehouse) {
		o.warehouseNote = entry
		if action == Ready && o.deliveryType == Outsource {
			to, entry = Completed, outsourceHandOff
		}
	}

	o.status = to
	o.record(actor.Role().Title(), entry, actor, now)
	return nil
}

// CanTransition reports whether Transition would pass the role/state gate.
func (o *Order) CanTransition(role kernel.Role, action Action) bool {
	rule, ok := getTransitionTable()[transitionKey{role: role, action: action}]
	return ok && rule.admits(o)
}

// AwaitsRole reports whether the order sits in role's inbox, i.e. its state is
// in the source set of one of the role's inbox rules.
func (o *Order) AwaitsRole(role kernel.Role) bool {
	for key, rule := range getTransitionTable() {
		if key.role == role && rule.inbox && rule.admits(o) {
			return true
		}
	}
	return false
}

// InboxRoles lists the roles that have a pending-work inbox.
func InboxRoles() []kernel.Role {
	seen := make(map[kernel.Role]struct{})
	for key, rule := range getTransitionTable() {
		if rule.inbox {
			seen[key.role] = struct{}{}
		}
	}
	roles := make([]kernel.Role, 0, len(seen))
	for _, r := range kernel.AllRoles() {
		if _, ok := seen[r]; ok {
			roles = append(roles, r)
		}
	}
	return roles
}
