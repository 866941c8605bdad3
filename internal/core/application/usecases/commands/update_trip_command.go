package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateTripCommandIsNotConstructed = errors.New(
	"UpdateTripCommand must be created via NewUpdateTripCommand constructor",
)

// TripEvent is a driver's report about one of their trips.
type TripEvent int

const (
	UnknownTripEvent TripEvent = iota
	TripPickedUp
	TripDelivered
	TripEmergency
	TripResumed
)

func getTripEventStrings() map[TripEvent]string {
	return map[TripEvent]string{
		UnknownTripEvent: "unknown",
		TripPickedUp:     "pickup",
		TripDelivered:    "deliver",
		TripEmergency:    "emergency",
		TripResumed:      "resolve",
	}
}

func ParseTripEvent(s string) (TripEvent, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for e, str := range getTripEventStrings() {
		if e != UnknownTripEvent && str == needle {
			return e, nil
		}
	}
	return UnknownTripEvent, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a trip event", s))
}

func (e TripEvent) String() string {
	if s, ok := getTripEventStrings()[e]; ok {
		return s
	}
	return "unknown"
}

// UpdateTripCommand carries a driver's pickup, delivery, emergency report or
// resumption for one shipment. PhotoRef applies to deliveries; Details and
// HasImage apply to emergency reports.
type UpdateTripCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	shipmentID      kernel.UUID
	actor           kernel.Actor
	event           TripEvent
	photoRef        string
	details         string
	hasImage        bool
	expectedVersion int

	guard guard.ConstructorGuard
}

// TripReport holds the event-specific payload of an UpdateTripCommand.
type TripReport struct {
	PhotoRef string
	Details  string
	HasImage bool
}

func NewUpdateTripCommand(
	orderID kernel.UUID,
	shipmentID kernel.UUID,
	actor kernel.Actor,
	event TripEvent,
	report TripReport,
	expectedVersion int,
) (UpdateTripCommand, error) {
	cmd := UpdateTripCommand{
		photoRef: report.PhotoRef,
		details:  report.Details,
		hasImage: report.HasImage,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		shipmentID.Validate(),
		actor.Validate(),
		cmd.setEvent(event),
		setExpectedVersion(expectedVersion, &cmd.expectedVersion),
	); err != nil {
		return UpdateTripCommand{}, err
	}
	cmd.orderID = orderID
	cmd.shipmentID = shipmentID
	cmd.actor = actor

	return cmd, nil
}

func (c UpdateTripCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTripCommandIsNotConstructed)
}

func (c UpdateTripCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateTripCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c UpdateTripCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateTripCommand) Event() TripEvent {
	return c.event
}

func (c UpdateTripCommand) Report() TripReport {
	return TripReport{PhotoRef: c.photoRef, Details: c.details, HasImage: c.hasImage}
}

func (c UpdateTripCommand) ExpectedVersion() int {
	return c.expectedVersion
}

func (c *UpdateTripCommand) setEvent(event TripEvent) error {
	if _, err := ParseTripEvent(event.String()); err != nil {
		return err
	}

	c.event = event
	return nil
}
