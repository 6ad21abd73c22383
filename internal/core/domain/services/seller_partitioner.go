package services

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CartLine is one product line of a cart as submitted at checkout.
type CartLine struct {
	ProductID kernel.UUID
	SellerID  kernel.UUID
	UnitPrice kernel.Money
	Quantity  int
	TaxRate   decimal.Decimal
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() kernel.Money {
	return l.UnitPrice.MulInt(l.Quantity)
}

// ShippingSelection is the rate a buyer picked for one seller's parcel.
type ShippingSelection struct {
	RateID         string
	Carrier        string
	DeliveryWindow string
}

// DraftLine is a cart line with its tax and its part of the seller's
// shipping share.
type DraftLine struct {
	CartLine
	TaxAmount     kernel.Money
	ShippingShare kernel.Money
}

// SellerDraft is the not yet persisted sub-order of one seller.
type SellerDraft struct {
	SellerID  kernel.UUID
	Lines     []DraftLine
	Subtotal  kernel.Money
	Tax       kernel.Money
	Shipping  kernel.Money
	Selection ShippingSelection
}

// ProductIDs lists the draft's products in cart order.
func (d SellerDraft) ProductIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// SellerPartitioner splits a cart into one draft per seller.
//
// Business rules:
//   - sellers appear in the order of their first line in the cart
//   - every input line lands in exactly one draft
//   - line tax = round(price × quantity × tax rate)
//   - order shipping is split over sellers in proportion to their subtotals
//     with the largest-remainder method, so shares always sum to the total
//   - each seller's share is split the same way over its lines
//   - a zero order subtotal yields zero shipping shares
type SellerPartitioner struct{}

func NewSellerPartitioner() SellerPartitioner {
	return SellerPartitioner{}
}

// Partition groups lines by seller. selections is keyed by seller id; a
// seller without a selection gets an empty one.
func (SellerPartitioner) Partition(
	lines []CartLine,
	shippingTotal kernel.Money,
	selections map[kernel.UUID]ShippingSelection,
) ([]SellerDraft, error) {
	if err := validateLines(lines, shippingTotal); err != nil {
		return nil, err
	}

	index := make(map[kernel.UUID]int)
	drafts := make([]SellerDraft, 0)
	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(drafts)
			index[line.SellerID] = i
			drafts = append(drafts, SellerDraft{
				SellerID:  line.SellerID,
				Subtotal:  kernel.Zero(),
				Tax:       kernel.Zero(),
				Shipping:  kernel.Zero(),
				Selection: selections[line.SellerID],
			})
		}

		tax := line.LineTotal().Mul(line.TaxRate)
		drafts[i].Lines = append(drafts[i].Lines, DraftLine{CartLine: line, TaxAmount: tax, ShippingShare: kernel.Zero()})
		drafts[i].Subtotal = drafts[i].Subtotal.Add(line.LineTotal())
		drafts[i].Tax = drafts[i].Tax.Add(tax)
	}

	subtotals := make([]kernel.Money, len(drafts))
	for i, d := range drafts {
		subtotals[i] = d.Subtotal
	}

	for i, share := range shippingTotal.Allocate(subtotals) {
		drafts[i].Shipping = share

		lineTotals := make([]kernel.Money, len(drafts[i].Lines))
		for j, l := range drafts[i].Lines {
			lineTotals[j] = l.LineTotal()
		}
		for j, lineShare := range share.Allocate(lineTotals) {
			drafts[i].Lines[j].ShippingShare = lineShare
		}
	}

	return drafts, nil
}

func validateLines(lines []CartLine, shippingTotal kernel.Money) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("cart items")
	}

	var problems []error
	if shippingTotal.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("shipping fee", fmt.Errorf("%s is negative", shippingTotal)))
	}
	for i, l := range lines {
		if err := errors.Join(l.ProductID.Validate(), l.SellerID.Validate()); err != nil {
			problems = append(problems, err)
		}
		if l.Quantity <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("cart items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", l.Quantity)))
		}
		if l.UnitPrice.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("cart items[%d].price", i), fmt.Errorf("%s is negative", l.UnitPrice)))
		}
		if l.TaxRate.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("cart items[%d].taxRate", i), fmt.Errorf("%s is negative", l.TaxRate)))
		}
	}
	return errors.Join(problems...)
}
