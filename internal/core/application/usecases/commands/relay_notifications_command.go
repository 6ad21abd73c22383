package commands

import (
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRelayNotificationsCommandIsNotConstructed = errors.New(
	"RelayNotificationsCommand must be created via NewRelayNotificationsCommand constructor",
)

// RelayNotificationsCommand dispatches up to BatchSize pending outbox
// notifications.
type RelayNotificationsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayNotificationsCommand(batchSize int) (RelayNotificationsCommand, error) {
	if batchSize < 1 {
		return RelayNotificationsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return RelayNotificationsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRelayNotificationsCommandIsNotConstructed)
}

func (c RelayNotificationsCommand) BatchSize() int { return c.batchSize }

// RelayResult counts the outcome of one relay pass.
type RelayResult struct {
	Sent   int
	Failed int
}
