package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the workflow stage an actor works in. Administrative privilege is
// not a role; it is carried on Actor.
type Role int

const (
	UnknownRole Role = iota
	Sales
	Assistant
	Finance
	Warehouse
	DriverSupervisor
	TruckDriver
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:      "unknown",
		Sales:            "sales",
		Assistant:        "assistant",
		Finance:          "finance",
		Warehouse:        "warehouse",
		DriverSupervisor: "driver_supervisor",
		TruckDriver:      "truck_driver",
	}
}

// getRoleTitles holds the names recorded in order history.
func getRoleTitles() map[Role]string {
	//nolint:exhaustive // UnknownRole never acts
	return map[Role]string{
		Sales:            "Sales Supervisor",
		Assistant:        "Sales Assistant",
		Finance:          "Finance",
		Warehouse:        "Warehouse",
		DriverSupervisor: "Driver Supervisor",
		TruckDriver:      "Truck Driver",
	}
}

// AllRoles lists the valid roles in workflow order.
func AllRoles() []Role {
	return []Role{Sales, Assistant, Finance, Warehouse, DriverSupervisor, TruckDriver}
}

// ParseRole accepts the wire names used in tokens and query strings.
func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRoles() {
		if getRoleStrings()[r] == needle {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if _, ok := getRoleTitles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// Title is the human-readable stage name used in audit entries.
func (r Role) Title() string {
	if s, ok := getRoleTitles()[r]; ok {
		return s
	}
	return "Unknown"
}
