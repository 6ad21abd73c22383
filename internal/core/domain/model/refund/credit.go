package refund

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Credit is money the gateway moved for one order line that no committed
// cancellation has accounted for yet: a confirmed refund and the payout
// reversal that went with it. A cancellation that rolls back after the
// gateway answered leaves its credits behind; the next cancellation of the
// same line draws on them before asking the gateway for more.
type Credit struct {
	id              kernel.UUID
	orderID         kernel.UUID
	productID       kernel.UUID
	gatewayRefundID string
	refund          kernel.Money
	reversal        kernel.Money
	createdAt       time.Time
}

// NewCredit records refund and reversal as not yet drawn.
func NewCredit(
	id, orderID, productID kernel.UUID,
	gatewayRefundID string,
	refund, reversal kernel.Money,
	createdAt time.Time,
) (*Credit, error) {
	problems := []error{id.Validate(), orderID.Validate(), productID.Validate()}
	if strings.TrimSpace(gatewayRefundID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("gateway refund id"))
	}
	if refund.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("refund", fmt.Errorf("%s is negative", refund)))
	}
	if reversal.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("reversal", fmt.Errorf("%s is negative", reversal)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Credit{
		id:              id,
		orderID:         orderID,
		productID:       productID,
		gatewayRefundID: gatewayRefundID,
		refund:          refund,
		reversal:        reversal,
		createdAt:       createdAt,
	}, nil
}

func (c *Credit) ID() kernel.UUID         { return c.id }
func (c *Credit) OrderID() kernel.UUID    { return c.orderID }
func (c *Credit) ProductID() kernel.UUID  { return c.productID }
func (c *Credit) GatewayRefundID() string { return c.gatewayRefundID }
func (c *Credit) Refund() kernel.Money    { return c.refund }
func (c *Credit) Reversal() kernel.Money  { return c.reversal }
func (c *Credit) CreatedAt() time.Time    { return c.createdAt }

// IsSpent reports whether nothing is left to draw.
func (c *Credit) IsSpent() bool {
	return !c.refund.IsPositive() && !c.reversal.IsPositive()
}

// Draw is the part of one credit a cancellation takes.
type Draw struct {
	CreditID        kernel.UUID
	GatewayRefundID string
	Refund          kernel.Money
	Reversal        kernel.Money
}

// Drawn sums what draws cover.
func Drawn(draws []Draw) (refund, reversal kernel.Money) {
	refund, reversal = kernel.Zero(), kernel.Zero()
	for _, d := range draws {
		refund = refund.Add(d.Refund)
		reversal = reversal.Add(d.Reversal)
	}
	return refund, reversal
}

// DrawCredits takes up to refund and reversal from credits, oldest first.
// Credits with nothing to give are skipped.
func DrawCredits(credits []*Credit, refund, reversal kernel.Money) []Draw {
	var draws []Draw
	for _, c := range credits {
		if !refund.IsPositive() && !reversal.IsPositive() {
			break
		}
		d := Draw{
			CreditID:        c.id,
			GatewayRefundID: c.gatewayRefundID,
			Refund:          minPositive(c.refund, refund),
			Reversal:        minPositive(c.reversal, reversal),
		}
		if !d.Refund.IsPositive() && !d.Reversal.IsPositive() {
			continue
		}
		refund = refund.Sub(d.Refund)
		reversal = reversal.Sub(d.Reversal)
		draws = append(draws, d)
	}
	return draws
}

func minPositive(available, wanted kernel.Money) kernel.Money {
	if !available.IsPositive() || !wanted.IsPositive() {
		return kernel.Zero()
	}
	if available.Cmp(wanted) < 0 {
		return available
	}
	return wanted
}
