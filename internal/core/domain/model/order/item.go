package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is a single cart line of an order. Items are owned by their Order and
// only change through it.
type Item struct {
	productID         kernel.UUID
	sellerID          kernel.UUID
	unitPrice         kernel.Money
	quantity          int
	taxRate           decimal.Decimal
	taxAmount         kernel.Money
	shippingShare     kernel.Money
	cancelledQuantity int
	status            status.Item
}

// NewItem creates an active line with nothing cancelled. taxAmount and
// shippingShare are the allocations computed at checkout.
func NewItem(
	productID, sellerID kernel.UUID,
	unitPrice kernel.Money,
	quantity int,
	taxRate decimal.Decimal,
	taxAmount, shippingShare kernel.Money,
) (*Item, error) {
	return RestoreItem(productID, sellerID, unitPrice, quantity, taxRate, taxAmount, shippingShare, 0, status.ItemActive)
}

// RestoreItem reconstructs an item from storage.
func RestoreItem(
	productID, sellerID kernel.UUID,
	unitPrice kernel.Money,
	quantity int,
	taxRate decimal.Decimal,
	taxAmount, shippingShare kernel.Money,
	cancelledQuantity int,
	itemStatus status.Item,
) (*Item, error) {
	if err := errors.Join(
		productID.Validate(),
		sellerID.Validate(),
		itemStatus.Validate(),
		nonNegative("unit price", unitPrice),
		nonNegative("tax amount", taxAmount),
		nonNegative("shipping share", shippingShare),
	); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if taxRate.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("tax rate", fmt.Errorf("%s is negative", taxRate))
	}
	if cancelledQuantity < 0 || cancelledQuantity > quantity {
		return nil, errs.NewValueIsOutOfRangeError("cancelled quantity", cancelledQuantity, 0, quantity)
	}

	return &Item{
		productID:         productID,
		sellerID:          sellerID,
		unitPrice:         unitPrice,
		quantity:          quantity,
		taxRate:           taxRate,
		taxAmount:         taxAmount,
		shippingShare:     shippingShare,
		cancelledQuantity: cancelledQuantity,
		status:            itemStatus,
	}, nil
}

func nonNegative(name string, m kernel.Money) error {
	if m.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", m))
	}
	return nil
}

func (i *Item) ProductID() kernel.UUID        { return i.productID }
func (i *Item) SellerID() kernel.UUID         { return i.sellerID }
func (i *Item) UnitPrice() kernel.Money       { return i.unitPrice }
func (i *Item) Quantity() int                 { return i.quantity }
func (i *Item) TaxRate() decimal.Decimal      { return i.taxRate }
func (i *Item) TaxAmount() kernel.Money       { return i.taxAmount }
func (i *Item) ShippingShare() kernel.Money   { return i.shippingShare }
func (i *Item) CancelledQuantity() int        { return i.cancelledQuantity }
func (i *Item) Status() status.Item           { return i.status }
func (i *Item) Remaining() int                { return i.quantity - i.cancelledQuantity }
func (i *Item) LineTotal() kernel.Money       { return i.unitPrice.MulInt(i.quantity) }
func (i *Item) RefundableTotal() kernel.Money { return kernel.Sum(i.LineTotal(), i.taxAmount, i.shippingShare) }

// cancel accumulates quantity more cancelled units.
func (i *Item) cancel(quantity int) error {
	remaining := i.Remaining()
	if remaining == 0 {
		return errs.NewConflictError("item "+i.productID.String(), "already cancelled")
	}
	if quantity < 1 || quantity > remaining {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, remaining)
	}

	i.cancelledQuantity += quantity
	i.status = status.ForCancelledQuantity(i.cancelledQuantity, i.quantity)
	return nil
}
