package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand records that the gateway collected an order's payment.
type ConfirmPaymentCommand struct {
	orderID       kernel.UUID
	transactionID string

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(orderID kernel.UUID, transactionID string) (ConfirmPaymentCommand, error) {
	transactionID = strings.TrimSpace(transactionID)
	if err := orderID.Validate(); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	if transactionID == "" {
		return ConfirmPaymentCommand{}, errs.NewValueIsRequiredError("transaction id")
	}

	return ConfirmPaymentCommand{
		orderID:       orderID,
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID  { return c.orderID }
func (c ConfirmPaymentCommand) TransactionID() string { return c.transactionID }
