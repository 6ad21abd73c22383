// Package refund provides the immutable Refund record written whenever money
// goes back to a buyer. Records are only created by the cancellation
// workflow and never change afterwards.
package refund

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRefundIsNotConstructed = errors.New("Refund must be created via NewRefund constructor")

// Status is the gateway outcome of a refund.
type Status string

const (
	Completed Status = "completed"
	Failed    Status = "failed"

	// NotApplicableUnpaid is reported, never stored, when a cancellation
	// needed no refund because nothing was collected.
	NotApplicableUnpaid = "N/A — Order Unpaid"
)

func (s Status) Validate() error {
	if s != Completed && s != Failed {
		return errs.NewValueIsInvalidErrorWithCause("refund status", fmt.Errorf("%q is not a valid refund status", string(s)))
	}
	return nil
}

// Refund is a financial record of money returned for one item.
type Refund struct {
	id              kernel.UUID
	orderID         kernel.UUID
	subOrderID      kernel.UUID
	productID       kernel.UUID
	amount          kernel.Money
	currency        string
	reason          string
	quantity        int
	gatewayRefundID string
	status          Status
	createdAt       time.Time

	guard guard.ConstructorGuard
}

// NewRefund records a refund the gateway has confirmed.
func NewRefund(
	id, orderID, subOrderID, productID kernel.UUID,
	amount kernel.Money,
	currency, reason string,
	quantity int,
	gatewayRefundID string,
	now time.Time,
) (*Refund, error) {
	return RestoreRefund(id, orderID, subOrderID, productID, amount, currency, reason, quantity, gatewayRefundID, Completed, now)
}

// RestoreRefund reconstructs a refund from storage.
func RestoreRefund(
	id, orderID, subOrderID, productID kernel.UUID,
	amount kernel.Money,
	currency, reason string,
	quantity int,
	gatewayRefundID string,
	refundStatus Status,
	createdAt time.Time,
) (*Refund, error) {
	var problems []error
	problems = append(problems,
		id.Validate(),
		orderID.Validate(),
		subOrderID.Validate(),
		productID.Validate(),
		refundStatus.Validate(),
	)
	if amount.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount)))
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if len(currency) != 3 {
		problems = append(problems, errs.NewValueIsInvalidError("currency"))
	}
	if refundStatus == Completed && strings.TrimSpace(gatewayRefundID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("gateway refund id"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Refund{
		id:              id,
		orderID:         orderID,
		subOrderID:      subOrderID,
		productID:       productID,
		amount:          amount,
		currency:        currency,
		reason:          reason,
		quantity:        quantity,
		gatewayRefundID: gatewayRefundID,
		status:          refundStatus,
		createdAt:       createdAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (r *Refund) Validate() error {
	if r == nil {
		return ErrRefundIsNotConstructed
	}
	return r.guard.Validate(ErrRefundIsNotConstructed)
}

func (r *Refund) ID() kernel.UUID         { return r.id }
func (r *Refund) OrderID() kernel.UUID    { return r.orderID }
func (r *Refund) SubOrderID() kernel.UUID { return r.subOrderID }
func (r *Refund) ProductID() kernel.UUID  { return r.productID }
func (r *Refund) Amount() kernel.Money    { return r.amount }
func (r *Refund) Currency() string        { return r.currency }
func (r *Refund) Reason() string          { return r.reason }
func (r *Refund) Quantity() int           { return r.quantity }
func (r *Refund) GatewayRefundID() string { return r.gatewayRefundID }
func (r *Refund) Status() Status          { return r.status }
func (r *Refund) CreatedAt() time.Time    { return r.createdAt }
