package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/suborder"
)

// RefundCalculator prices cancellations.
//
// An item's refundable total is its line amount plus its tax and its
// shipping share. Refunds are computed on the cumulative cancelled quantity:
//
//	refund(from → to) = round(total × to / qty) − round(total × from / qty)
//
// so any sequence of partial cancellations refunds exactly the refundable
// total once every unit is cancelled.
type RefundCalculator struct{}

func NewRefundCalculator() RefundCalculator {
	return RefundCalculator{}
}

// ItemRefund is the amount owed to the buyer for line.
func (RefundCalculator) ItemRefund(item *order.Item, line order.CancelledLine) kernel.Money {
	return cumulative(item.RefundableTotal(), item.Quantity(), line)
}

// PayoutReversal is the amount to claw back from a seller already paid out
// for line. The seller's net is attributed to items by line amount and then
// pro-rated like the refund.
func (RefundCalculator) PayoutReversal(sub *suborder.SubOrder, item *order.Item, line order.CancelledLine) kernel.Money {
	subtotal := sub.Totals().Subtotal
	if subtotal.IsZero() {
		return kernel.Zero()
	}
	itemNet := kernel.NewMoney(sub.Totals().SellerNet.Decimal().Mul(item.LineTotal().Decimal()).Div(subtotal.Decimal()))
	return cumulative(itemNet, item.Quantity(), line)
}

func cumulative(total kernel.Money, quantity int, line order.CancelledLine) kernel.Money {
	return total.ProRate(line.ToQuantity, quantity).Sub(total.ProRate(line.FromQuantity, quantity))
}

// RefundIdempotencyKey identifies one cancellation step of one item. A retry
// of the same step yields the same key, so the gateway refunds it once.
func RefundIdempotencyKey(orderID kernel.UUID, line order.CancelledLine) string {
	return fmt.Sprintf("%s:%s:%d:%d", orderID, line.ProductID, line.FromQuantity, line.ToQuantity)
}

// ReversalIdempotencyKey is the payout-reversal counterpart of RefundIdempotencyKey.
func ReversalIdempotencyKey(orderID kernel.UUID, line order.CancelledLine) string {
	return "reversal:" + RefundIdempotencyKey(orderID, line)
}

// NetOfCredit derives the key for a step whose amount was reduced by
// credits already held, so the gateway never sees one key with two amounts.
func NetOfCredit(key string, credited kernel.Money) string {
	if !credited.IsPositive() {
		return key
	}
	return key + ":less:" + credited.String()
}
