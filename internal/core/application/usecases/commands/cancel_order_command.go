package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New("CancelOrderCommand must be created via NewCancelOrderCommand constructor")

// CancelOrderCommand cancels everything still outstanding on an order.
type CancelOrderCommand struct {
	callerID kernel.UUID
	orderID  kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(callerID, orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(callerID.Validate(), orderID.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		callerID: callerID,
		orderID:  orderID,
		reason:   strings.TrimSpace(reason),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) CallerID() kernel.UUID { return c.callerID }
func (c CancelOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c CancelOrderCommand) Reason() string        { return c.reason }

// CancelOrderResult lists the refunds made, one per outstanding line. It is
// empty for an unpaid order, whose RefundStatus is refund.NotApplicableUnpaid.
type CancelOrderResult struct {
	Refunds      []*refund.Refund
	RefundStatus string
	OrderStatus  status.Fulfillment
}
