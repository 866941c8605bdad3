package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DeliveryType selects who carries the goods.
type DeliveryType int

const (
	UnknownDeliveryType DeliveryType = iota
	OwnFleet
	Outsource
)

func getDeliveryTypeStrings() map[DeliveryType]string {
	return map[DeliveryType]string{
		UnknownDeliveryType: "Unknown",
		OwnFleet:            "OwnFleet",
		Outsource:           "Outsource",
	}
}

func ParseDeliveryType(s string) (DeliveryType, error) {
	switch normalizeName(s) {
	case "ownfleet", "owncars", "own":
		return OwnFleet, nil
	case "outsource", "outsourced":
		return Outsource, nil
	}
	return UnknownDeliveryType, errs.NewValueIsInvalidErrorWithCause(
		"deliveryType", fmt.Errorf("%q is not a valid delivery type", s))
}

func (t DeliveryType) Validate() error {
	if t != OwnFleet && t != Outsource {
		return errs.NewValueIsInvalidErrorWithCause("deliveryType", fmt.Errorf("%d is not a valid delivery type", t))
	}
	return nil
}

func (t DeliveryType) String() string {
	if s, ok := getDeliveryTypeStrings()[t]; ok {
		return s
	}
	return "Unknown"
}

// DeliveryShift is the loading slot the customer asked for.
type DeliveryShift int

const (
	UnknownShift DeliveryShift = iota
	FirstTrip
	SecondTrip
	NightTrip
)

func getDeliveryShiftStrings() map[DeliveryShift]string {
	return map[DeliveryShift]string{
		UnknownShift: "Unknown",
		FirstTrip:    "FirstTrip",
		SecondTrip:   "SecondTrip",
		NightTrip:    "NightTrip",
	}
}

func ParseDeliveryShift(s string) (DeliveryShift, error) {
	switch normalizeName(s) {
	case "firsttrip", "first":
		return FirstTrip, nil
	case "secondtrip", "second":
		return SecondTrip, nil
	case "nighttrip", "night":
		return NightTrip, nil
	}
	return UnknownShift, errs.NewValueIsInvalidErrorWithCause(
		"deliveryShift", fmt.Errorf("%q is not a valid delivery shift", s))
}

func (s DeliveryShift) Validate() error {
	if s < FirstTrip || s > NightTrip {
		return errs.NewValueIsInvalidErrorWithCause("deliveryShift", fmt.Errorf("%d is not a valid delivery shift", s))
	}
	return nil
}

func (s DeliveryShift) String() string {
	if str, ok := getDeliveryShiftStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
