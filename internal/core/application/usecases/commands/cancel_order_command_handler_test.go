package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func threeLineFixture(opts fixtureOptions) fixture {
	x, y := kernel.NewUUID(), kernel.NewUUID()
	return newFixture(opts,
		fixtureLine{seller: x, price: "10.00", quantity: 2, tax: "1.00", shipping: "2.00"},
		fixtureLine{seller: x, price: "5.00", quantity: 1, tax: "0.00", shipping: "1.00"},
		fixtureLine{seller: y, price: "30.00", quantity: 1, tax: "3.00", shipping: "3.00"},
	)
}

func TestCancelOrderCommandHandler_Handle_PaidOrder(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{paid: true})
	uow := newMockUoW()
	gateway := new(MockPaymentGateway)

	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)
	uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
	uow.subOrders.On("ListByOrderForUpdate", mock.Anything, f.order.ID()).Return(f.subs, nil).Once()
	uow.journal.expectEmpty()
	uow.journal.expectRecords()
	uow.journal.On("Claim", mock.Anything, mock.AnythingOfType("refund.Draw")).Return(nil).Times(3)
	gateway.On("Refund", mock.Anything, mock.AnythingOfType("ports.RefundRequest")).
		Return(refunded("re_ok"), nil).Times(3)
	uow.refunds.On("Add", mock.Anything, mock.AnythingOfType("*refund.Refund")).Return(nil).Times(3)
	for _, item := range f.order.Items() {
		uow.inventory.On("Increment", mock.Anything, item.ProductID(), item.Quantity()).Return(nil).Once()
	}
	uow.subOrders.On("Update", mock.Anything, mock.AnythingOfType("*suborder.SubOrder")).Return(nil).Twice()
	uow.orders.On("Update", mock.Anything, f.order).Return(nil).Once()
	var events []*notification.Notification
	uow.outbox.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) { events = append(events, args.Get(1).(*notification.Notification)) }).
		Return(nil).Times(3)

	cmd, err := commands.NewCancelOrderCommand(f.buyerID, f.order.ID(), "duplicate order")
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(cancellationFactory{uow: uow}, gateway, nil)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	uow.assertAll(t)
	gateway.AssertExpectations(t)

	require.Len(t, result.Refunds, 3)
	assert.Equal(t, "23.00", result.Refunds[0].Amount().String())
	assert.Equal(t, "6.00", result.Refunds[1].Amount().String())
	assert.Equal(t, "36.00", result.Refunds[2].Amount().String())
	assert.Equal(t, string(refund.Completed), result.RefundStatus)
	assert.Equal(t, status.Cancelled, result.OrderStatus)

	assert.True(t, f.order.IsFullyCancelled())
	assert.Equal(t, status.PaymentRefunded, f.order.PaymentStatus())
	for _, sub := range f.subs {
		assert.Equal(t, status.Cancelled, sub.FulfillmentStatus())
		assert.Equal(t, status.PaymentRefunded, sub.PaymentStatus())
	}
	assert.Len(t, f.subs[0].RefundIDs(), 2)
	assert.Len(t, f.subs[1].RefundIDs(), 1)

	require.Len(t, events, 3)
	assert.Equal(t, notification.Buyer, events[0].Recipient())
	assert.Equal(t, "65.00", events[0].Payload()["refundAmount"])
	items := f.order.Items()
	sellerX, sellerY := events[1].Payload(), events[2].Payload()
	assert.Equal(t, notification.Seller, events[1].Recipient())
	assert.Equal(t, items[0].SellerID(), events[1].RecipientID())
	assert.Equal(t, "29.00", sellerX["refundAmount"])
	assert.Equal(t, []map[string]any{
		{"productId": items[0].ProductID().String(), "quantity": 2},
		{"productId": items[1].ProductID().String(), "quantity": 1},
	}, sellerX["items"])

	assert.Equal(t, notification.Seller, events[2].Recipient())
	assert.Equal(t, items[2].SellerID(), events[2].RecipientID())
	assert.Equal(t, "36.00", sellerY["refundAmount"])
	assert.Equal(t, []map[string]any{
		{"productId": items[2].ProductID().String(), "quantity": 1},
	}, sellerY["items"])
}

func TestCancelOrderCommandHandler_Handle_SecondRefundFails(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{paid: true})
	uow := newMockUoW()
	gateway := new(MockPaymentGateway)

	uow.expectTransaction(false)
	uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
	uow.subOrders.On("ListByOrderForUpdate", mock.Anything, f.order.ID()).Return(f.subs, nil).Once()
	uow.journal.expectEmpty()
	credits := uow.journal.expectRecords()
	mock.InOrder(
		gateway.On("Refund", mock.Anything, mock.AnythingOfType("ports.RefundRequest")).
			Return(refunded("re_1"), nil).Once(),
		gateway.On("Refund", mock.Anything, mock.AnythingOfType("ports.RefundRequest")).
			Return(ports.RefundResult{}, errors.New("gateway timeout")).Once(),
	)

	cmd, err := commands.NewCancelOrderCommand(f.buyerID, f.order.ID(), "")
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(cancellationFactory{uow: uow}, gateway, nil)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrExternalService)
	uow.assertAll(t)
	gateway.AssertExpectations(t)

	uow.refunds.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.journal.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	require.Len(t, *credits, 1, "the confirmed first refund stays journaled")
	assert.Equal(t, "23.00", (*credits)[0].Refund().String())
	assert.Equal(t, "re_1", (*credits)[0].GatewayRefundID())
	for _, item := range f.order.Items() {
		assert.Zero(t, item.CancelledQuantity())
		assert.Equal(t, status.ItemActive, item.Status())
	}
	assert.Equal(t, status.Pending, f.order.FulfillmentStatus())
	assert.Equal(t, status.PaymentPaid, f.order.PaymentStatus())
}

func TestCancelOrderCommandHandler_Handle_AbortedRefundIsNotPaidTwice(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{paid: true})
	journal := &memoryJournal{}
	first := f.order.Items()[0]

	aborted := newMockUoW()
	aborted.ledger = journal
	aborted.expectTransaction(false)
	aborted.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.fresh(), nil).Once()
	aborted.subOrders.On("ListByOrderForUpdate", mock.Anything, f.order.ID()).Return(f.freshSubs(), nil).Once()
	gateway := new(MockPaymentGateway)
	mock.InOrder(
		gateway.On("Refund", mock.Anything, mock.AnythingOfType("ports.RefundRequest")).
			Return(refunded("re_1"), nil).Once(),
		gateway.On("Refund", mock.Anything, mock.AnythingOfType("ports.RefundRequest")).
			Return(ports.RefundResult{}, errors.New("gateway timeout")).Once(),
	)

	cancelOrder, err := commands.NewCancelOrderCommand(f.buyerID, f.order.ID(), "")
	require.NoError(t, err)
	_, err = commands.NewCancelOrderCommandHandler(cancellationFactory{uow: aborted}, gateway, nil).Handle(ctx, cancelOrder)
	require.ErrorIs(t, err, errs.ErrExternalService)
	gateway.AssertExpectations(t)

	// The buyer then cancels one unit of the line that was already refunded.
	run := &cancelItemRun{
		uow:       newMockUoW(),
		gateway:   new(MockPaymentGateway),
		lockedOrd: f.fresh(),
		lockedSub: f.freshSubs(),
	}
	run.uow.ledger = journal
	run.uow.orders.On("Get", mock.Anything, f.order.ID()).Return(f.fresh(), nil).Once()
	run.uow.subOrders.On("ListByOrder", mock.Anything, f.order.ID()).Return(f.freshSubs(), nil).Once()
	run.expectApplied(f, first.ProductID(), 1, true)

	cancelItem, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), first.ProductID(), 1, "")
	require.NoError(t, err)
	result, err := run.handler().Handle(ctx, cancelItem)
	require.NoError(t, err)
	run.uow.assertAll(t)
	run.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)

	require.NotNil(t, result.Refund)
	assert.Equal(t, "11.50", result.Refund.Amount().String())
	assert.Equal(t, "re_1", result.Refund.GatewayRefundID())

	left, err := journal.Available(ctx, f.order.ID(), first.ProductID())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "11.50", left[0].Refund().String())
}

func TestCancelOrderCommandHandler_Handle_UnpaidOrder(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{paid: false})
	uow := newMockUoW()
	gateway := new(MockPaymentGateway)

	uow.expectTransaction(true)
	uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
	uow.subOrders.On("ListByOrderForUpdate", mock.Anything, f.order.ID()).Return(f.subs, nil).Once()
	uow.inventory.On("Increment", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)
	uow.subOrders.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()
	uow.orders.On("Update", mock.Anything, f.order).Return(nil).Once()
	uow.outbox.On("Add", mock.Anything, mock.Anything).Return(nil).Times(3)

	cmd, err := commands.NewCancelOrderCommand(f.buyerID, f.order.ID(), "")
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(cancellationFactory{uow: uow}, gateway, nil)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	uow.assertAll(t)
	gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)

	assert.Empty(t, result.Refunds)
	assert.Equal(t, refund.NotApplicableUnpaid, result.RefundStatus)
	assert.Equal(t, status.Cancelled, result.OrderStatus)
	assert.Equal(t, status.PaymentPending, f.order.PaymentStatus())
}

func TestCancelOrderCommandHandler_Handle_AlreadyCancelled(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{subStatus: status.Cancelled})
	uow := newMockUoW()

	uow.expectTransaction(false)
	uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.order, nil).Once()

	cmd, err := commands.NewCancelOrderCommand(f.buyerID, f.order.ID(), "")
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(cancellationFactory{uow: uow}, new(MockPaymentGateway), nil)
	_, err = h.Handle(ctx, cmd)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	uow.assertAll(t)
}

func TestCancelOrderCommandHandler_Handle_StrangerIsUnauthorized(t *testing.T) {
	ctx := t.Context()
	f := threeLineFixture(fixtureOptions{})
	uow := newMockUoW()

	uow.expectTransaction(false)
	uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(f.order, nil).Once()

	cmd, err := commands.NewCancelOrderCommand(kernel.NewUUID(), f.order.ID(), "")
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(cancellationFactory{uow: uow}, new(MockPaymentGateway), nil)
	_, err = h.Handle(ctx, cmd)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	uow.assertAll(t)
}
