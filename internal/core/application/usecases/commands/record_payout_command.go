package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRecordPayoutCommandIsNotConstructed = errors.New(
	"RecordPayoutCommand must be created via NewRecordPayoutCommand constructor",
)

// RecordPayoutCommand stores the transfer that paid a seller for a sub-order.
type RecordPayoutCommand struct {
	subOrderID kernel.UUID
	transferID string

	guard guard.ConstructorGuard
}

func NewRecordPayoutCommand(subOrderID kernel.UUID, transferID string) (RecordPayoutCommand, error) {
	transferID = strings.TrimSpace(transferID)
	if err := subOrderID.Validate(); err != nil {
		return RecordPayoutCommand{}, err
	}
	if transferID == "" {
		return RecordPayoutCommand{}, errs.NewValueIsRequiredError("transfer id")
	}

	return RecordPayoutCommand{
		subOrderID: subOrderID,
		transferID: transferID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRecordPayoutCommandIsNotConstructed)
}

func (c RecordPayoutCommand) SubOrderID() kernel.UUID { return c.subOrderID }
func (c RecordPayoutCommand) TransferID() string      { return c.transferID }
