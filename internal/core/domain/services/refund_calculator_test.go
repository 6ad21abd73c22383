package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refundItem(t *testing.T, price string, qty int, tax, shipping string) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney(price), qty,
		decimal.RequireFromString("0.1"), kernel.MustMoney(tax), kernel.MustMoney(shipping))
	require.NoError(t, err)
	return item
}

func TestRefundCalculator_ItemRefund(t *testing.T) {
	calc := services.NewRefundCalculator()

	t.Run("full line includes tax and shipping", func(t *testing.T) {
		item := refundItem(t, "10.00", 5, "5.00", "4.80")

		amount := calc.ItemRefund(item, order.CancelledLine{ProductID: item.ProductID(), FromQuantity: 0, ToQuantity: 5})

		assert.Equal(t, "59.80", amount.String())
	})

	t.Run("partial refunds sum to the refundable total", func(t *testing.T) {
		item := refundItem(t, "3.33", 3, "0.70", "1.01")
		steps := [][2]int{{0, 1}, {1, 2}, {2, 3}}

		sum := kernel.Zero()
		for _, s := range steps {
			sum = sum.Add(calc.ItemRefund(item, order.CancelledLine{FromQuantity: s[0], ToQuantity: s[1]}))
		}

		assert.True(t, sum.Equal(item.RefundableTotal()), "got %s want %s", sum, item.RefundableTotal())
	})

	t.Run("two of five", func(t *testing.T) {
		item := refundItem(t, "10.00", 5, "5.00", "4.80")

		amount := calc.ItemRefund(item, order.CancelledLine{FromQuantity: 0, ToQuantity: 2})

		assert.Equal(t, "23.92", amount.String())
	})
}

func TestRefundCalculator_PayoutReversal(t *testing.T) {
	now := time.Now().UTC()
	item := refundItem(t, "10.00", 2, "2.00", "4.80")
	other := refundItem(t, "30.00", 1, "3.00", "7.20")

	sub, err := suborder.RestoreSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]kernel.UUID{item.ProductID(), other.ProductID()}, suborder.Totals{
			Subtotal: kernel.MustMoney("50.00"), Tax: kernel.MustMoney("5.00"), Shipping: kernel.MustMoney("12.00"),
			Commission: kernel.MustMoney("5.00"), ServiceFee: kernel.Zero(), SellerNet: kernel.MustMoney("45.00"),
			Total: kernel.MustMoney("67.00"),
		}, suborder.Shipment{}, status.Pending, status.PaymentPaid, "tr_1", nil, now, now)
	require.NoError(t, err)

	calc := services.NewRefundCalculator()

	assert.Equal(t, "18.00", calc.PayoutReversal(sub, item, order.CancelledLine{FromQuantity: 0, ToQuantity: 2}).String())
	assert.Equal(t, "9.00", calc.PayoutReversal(sub, item, order.CancelledLine{FromQuantity: 1, ToQuantity: 2}).String())
}

func TestIdempotencyKeys(t *testing.T) {
	orderID := kernel.NewUUID()
	line := order.CancelledLine{ProductID: kernel.NewUUID(), FromQuantity: 1, ToQuantity: 3}

	key := services.RefundIdempotencyKey(orderID, line)

	assert.Equal(t, orderID.String()+":"+line.ProductID.String()+":1:3", key)
	assert.Equal(t, key, services.RefundIdempotencyKey(orderID, line))
	assert.Equal(t, "reversal:"+key, services.ReversalIdempotencyKey(orderID, line))
	assert.Equal(t, key, services.NetOfCredit(key, kernel.Zero()))
	assert.Equal(t, key+":less:11.50", services.NetOfCredit(key, kernel.MustMoney("11.5")))
}
