package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCancelItemCommandIsNotConstructed = errors.New("CancelItemCommand must be created via NewCancelItemCommand constructor")

// CancelItemCommand withdraws some units of one order line. The caller is
// the buyer or the store the buyer acts for.
type CancelItemCommand struct {
	callerID  kernel.UUID
	orderID   kernel.UUID
	productID kernel.UUID
	quantity  int
	reason    string

	guard guard.ConstructorGuard
}

func NewCancelItemCommand(callerID, orderID, productID kernel.UUID, quantity int, reason string) (CancelItemCommand, error) {
	problems := []error{callerID.Validate(), orderID.Validate(), productID.Validate()}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(problems...); err != nil {
		return CancelItemCommand{}, err
	}

	return CancelItemCommand{
		callerID:  callerID,
		orderID:   orderID,
		productID: productID,
		quantity:  quantity,
		reason:    strings.TrimSpace(reason),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CancelItemCommand) Validate() error {
	return c.guard.Validate(ErrCancelItemCommandIsNotConstructed)
}

func (c CancelItemCommand) CallerID() kernel.UUID  { return c.callerID }
func (c CancelItemCommand) OrderID() kernel.UUID   { return c.orderID }
func (c CancelItemCommand) ProductID() kernel.UUID { return c.productID }
func (c CancelItemCommand) Quantity() int          { return c.quantity }
func (c CancelItemCommand) Reason() string         { return c.reason }

// CancelItemResult reports what a cancellation did. Refund is nil when the
// order was unpaid; RefundStatus then reads refund.NotApplicableUnpaid.
type CancelItemResult struct {
	Refund       *refund.Refund
	RefundStatus string
	ItemStatus   status.Item
	OrderStatus  status.Fulfillment
}
