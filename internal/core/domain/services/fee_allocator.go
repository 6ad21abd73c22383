package services

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// FeeInput is one seller's share of a checkout together with the commission
// terms that apply to it.
type FeeInput struct {
	Subtotal kernel.Money
	Tax      kernel.Money
	Shipping kernel.Money
	Rate     decimal.Decimal
	GrossUp  bool
}

// FeeBreakdown is the result of a fee allocation. It is never persisted on
// its own; sub-orders store it as their Totals.
type FeeBreakdown struct {
	Subtotal      kernel.Money
	Tax           kernel.Money
	Shipping      kernel.Money
	Commission    kernel.Money
	ServiceFee    kernel.Money
	SellerNet     kernel.Money
	CustomerTotal kernel.Money
}

// Totals converts the breakdown into the sub-order representation.
func (b FeeBreakdown) Totals() suborder.Totals {
	return suborder.Totals{
		Subtotal:   b.Subtotal,
		Tax:        b.Tax,
		Shipping:   b.Shipping,
		Commission: b.Commission,
		ServiceFee: b.ServiceFee,
		SellerNet:  b.SellerNet,
		Total:      b.CustomerTotal,
	}
}

// FeeAllocator computes a seller's fee breakdown.
//
// Business rules:
//   - commission = round(subtotal × rate), seller net = subtotal − commission,
//     customer total = subtotal + tax + shipping
//   - with gross-up the platform fee is charged to the customer instead:
//     service fee = round(subtotal / (1 − rate)) − subtotal, the commission
//     equals the service fee and the seller nets the full subtotal
//   - rate must lie in [0, 1); amounts must not be negative
//
// Example:
//
//	breakdown, err := services.NewFeeAllocator().Allocate(services.FeeInput{
//	    Subtotal: kernel.MustMoney("20.00"),
//	    Tax:      kernel.MustMoney("2.00"),
//	    Shipping: kernel.MustMoney("4.80"),
//	    Rate:     decimal.RequireFromString("0.10"),
//	})
//	// breakdown.Commission == 2.00, breakdown.SellerNet == 18.00
type FeeAllocator struct{}

func NewFeeAllocator() FeeAllocator {
	return FeeAllocator{}
}

func (FeeAllocator) Allocate(in FeeInput) (FeeBreakdown, error) {
	if err := in.validate(); err != nil {
		return FeeBreakdown{}, err
	}

	breakdown := FeeBreakdown{
		Subtotal:   in.Subtotal,
		Tax:        in.Tax,
		Shipping:   in.Shipping,
		ServiceFee: kernel.Zero(),
	}

	if in.GrossUp {
		grossed := kernel.NewMoney(in.Subtotal.Decimal().Div(decimal.NewFromInt(1).Sub(in.Rate)))
		breakdown.ServiceFee = grossed.Sub(in.Subtotal)
		breakdown.Commission = breakdown.ServiceFee
		breakdown.SellerNet = in.Subtotal
	} else {
		breakdown.Commission = in.Subtotal.Mul(in.Rate)
		breakdown.SellerNet = in.Subtotal.Sub(breakdown.Commission)
	}

	breakdown.CustomerTotal = kernel.Sum(in.Subtotal, in.Tax, in.Shipping, breakdown.ServiceFee)
	return breakdown, nil
}

func (in FeeInput) validate() error {
	var problems []error
	for _, amount := range []struct {
		name  string
		value kernel.Money
	}{
		{"subtotal", in.Subtotal},
		{"tax", in.Tax},
		{"shipping", in.Shipping},
	} {
		if amount.value.IsNegative() {
			problems = append(problems, errs.NewValueIsOutOfRangeError(amount.name, amount.value.String(), "0", "unbounded"))
		}
	}
	if in.Rate.IsNegative() || in.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("commission rate", in.Rate.String(), "0", "1 (exclusive)"))
	}
	return errors.Join(problems...)
}
