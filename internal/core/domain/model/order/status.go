package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the aggregate lifecycle state of an order.
//
//	PendingAssistant ─approve─> PendingFinance ─approve─> Approved ─ready─> ReadyForDriver
//	       │                          │                     │  ▲               │ dispatch
//	       └──reject──> Rejected <────┴──────reject─────────┘  │ hold          ▼
//	                       │                             OnHold ┘   PartiallyShipped / InTransit
//	                    cancel                                               │ deliver
//	                       ▼                                                 ▼
//	                    Canceled                                          Completed
//
// Statuses after dispatch are derived from shipments, see DeriveStatus.
type Status int

const (
	Unknown Status = iota
	PendingAssistant
	PendingFinance
	Approved
	Rejected
	ReadyForDriver
	PartiallyShipped
	InTransit
	Completed
	OnHold
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		PendingAssistant: "PendingAssistant",
		PendingFinance:   "PendingFinance",
		Approved:         "Approved",
		Rejected:         "Rejected",
		ReadyForDriver:   "ReadyForDriver",
		PartiallyShipped: "PartiallyShipped",
		InTransit:        "InTransit",
		Completed:        "Completed",
		OnHold:           "OnHold",
		Canceled:         "Canceled",
	}
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		PendingAssistant, PendingFinance, Approved, Rejected, ReadyForDriver,
		PartiallyShipped, InTransit, Completed, OnHold, Canceled,
	}
}

// ParseStatus accepts "InTransit", "in transit" or "in_transit".
func ParseStatus(s string) (Status, error) {
	needle := normalizeName(s)
	for _, st := range AllStatuses() {
		if normalizeName(st.String()) == needle {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the normal workflow has ended. Only
// administrative overrides mutate a terminal order.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Canceled
}

func normalizeName(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
