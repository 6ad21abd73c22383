package status

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Payment is the payment state of an order and of each of its sub-orders.
type Payment int

const (
	PaymentUnknown Payment = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var paymentStrings = map[Payment]string{
	PaymentPending:  "Pending",
	PaymentPaid:     "Paid",
	PaymentFailed:   "Failed",
	PaymentRefunded: "Refunded",
}

func ParsePayment(s string) (Payment, error) {
	for p, str := range paymentStrings {
		if str == s {
			return p, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (p Payment) Validate() error {
	if _, ok := paymentStrings[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%d is not a valid payment status", p),
		)
	}
	return nil
}

func (p Payment) String() string {
	if str, ok := paymentStrings[p]; ok {
		return str
	}
	return "Unknown"
}

func (p Payment) IsPaid() bool {
	return p == PaymentPaid
}

// Confirm moves a pending payment to Paid.
func (p Payment) Confirm() (Payment, error) {
	if p != PaymentPending {
		return PaymentUnknown, errs.NewConflictError("payment status", fmt.Sprintf("cannot confirm a %s payment", p))
	}
	return PaymentPaid, nil
}

// Refund moves a collected payment to Refunded.
func (p Payment) Refund() (Payment, error) {
	if p != PaymentPaid {
		return PaymentUnknown, errs.NewConflictError("payment status", fmt.Sprintf("cannot refund a %s payment", p))
	}
	return PaymentRefunded, nil
}

func (p Payment) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Payment) UnmarshalText(text []byte) error {
	parsed, err := ParsePayment(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
