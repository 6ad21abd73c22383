package status

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Fulfillment represents the lifecycle stage of an order or sub-order.
//
// Sub-order transitions:
//
//	Pending ──> Fulfilled ──┬──> Awaiting Shipment ──> Shipped ──> Delivered
//	   ▲                    │                             ▲
//	Partially Cancelled ────┘                             │
//	                        └─────────────────────────────┘
//
// Partially Fulfilled, Partially Shipped and Partially Delivered are reached
// only by a parent order through Project.
type Fulfillment int

const (
	// FulfillmentUnknown catches uninitialized values.
	FulfillmentUnknown Fulfillment = iota
	Pending
	Placed
	Processing
	PartiallyFulfilled
	Fulfilled
	AwaitingShipment
	PartiallyShipped
	Shipped
	PartiallyDelivered
	Delivered
	PartiallyCancelled
	Cancelled
	PartiallyReturned
	Returned
	Archived
)

var fulfillmentStrings = map[Fulfillment]string{
	Pending:            "Pending",
	Placed:             "Placed",
	Processing:         "Processing",
	PartiallyFulfilled: "Partially Fulfilled",
	Fulfilled:          "Fulfilled",
	AwaitingShipment:   "Awaiting Shipment",
	PartiallyShipped:   "Partially Shipped",
	Shipped:            "Shipped",
	PartiallyDelivered: "Partially Delivered",
	Delivered:          "Delivered",
	PartiallyCancelled: "Partially Cancelled",
	Cancelled:          "Cancelled",
	PartiallyReturned:  "Partially Returned",
	Returned:           "Returned",
	Archived:           "Archived",
}

// transitions lists every move the fulfillment workflow accepts, keyed by
// the current status. Cancellation and return states are absent on purpose:
// they belong to the cancellation workflow.
var transitions = map[Fulfillment][]Fulfillment{
	Pending:            {Fulfilled},
	PartiallyCancelled: {Fulfilled},
	Fulfilled:          {AwaitingShipment, Shipped},
	AwaitingShipment:   {Shipped},
	Shipped:            {Delivered},
}

// ParseFulfillment converts the persisted representation back to a Fulfillment.
func ParseFulfillment(s string) (Fulfillment, error) {
	for f, str := range fulfillmentStrings {
		if str == s {
			return f, nil
		}
	}
	return FulfillmentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"fulfillment status",
		fmt.Errorf("%q is not a valid fulfillment status", s),
	)
}

// Validate checks that f is one of the known statuses.
func (f Fulfillment) Validate() error {
	if _, ok := fulfillmentStrings[f]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment status",
			fmt.Errorf("%d is not a valid fulfillment status", f),
		)
	}
	return nil
}

func (f Fulfillment) String() string {
	if str, ok := fulfillmentStrings[f]; ok {
		return str
	}
	return "Unknown"
}

// CanTransitionTo reports whether the fulfillment workflow may move from f to
// next. Anything not listed in the transition table is a conflict.
func (f Fulfillment) CanTransitionTo(next Fulfillment) error {
	if err := next.Validate(); err != nil {
		return err
	}
	for _, allowed := range transitions[f] {
		if allowed == next {
			return nil
		}
	}
	return errs.NewConflictError("fulfillment status", fmt.Sprintf("cannot move from %s to %s", f, next))
}

// IsCancellable reports whether items may still be cancelled in this status.
func (f Fulfillment) IsCancellable() bool {
	return f == Pending || f == PartiallyCancelled
}

// IsCancelled reports whether f is the terminal cancelled state.
func (f Fulfillment) IsCancelled() bool {
	return f == Cancelled
}

// MarshalText and UnmarshalText keep JSON output in the persisted form.
func (f Fulfillment) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fulfillment) UnmarshalText(text []byte) error {
	parsed, err := ParseFulfillment(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
