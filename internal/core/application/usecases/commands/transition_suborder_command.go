package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/guard"
)

var ErrTransitionSubOrderCommandIsNotConstructed = errors.New(
	"TransitionSubOrderCommand must be created via NewTransitionSubOrderCommand constructor",
)

// TransitionSubOrderCommand is a seller's request to move one sub-order to
// the next fulfillment status.
type TransitionSubOrderCommand struct {
	callerID       kernel.UUID
	subOrderID     kernel.UUID
	next           status.Fulfillment
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewTransitionSubOrderCommand(
	callerID, subOrderID kernel.UUID,
	next status.Fulfillment,
	trackingNumber string,
) (TransitionSubOrderCommand, error) {
	if err := errors.Join(callerID.Validate(), subOrderID.Validate(), next.Validate()); err != nil {
		return TransitionSubOrderCommand{}, err
	}

	return TransitionSubOrderCommand{
		callerID:       callerID,
		subOrderID:     subOrderID,
		next:           next,
		trackingNumber: strings.TrimSpace(trackingNumber),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionSubOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionSubOrderCommandIsNotConstructed)
}

func (c TransitionSubOrderCommand) CallerID() kernel.UUID    { return c.callerID }
func (c TransitionSubOrderCommand) SubOrderID() kernel.UUID  { return c.subOrderID }
func (c TransitionSubOrderCommand) Next() status.Fulfillment { return c.next }
func (c TransitionSubOrderCommand) TrackingNumber() string   { return c.trackingNumber }
