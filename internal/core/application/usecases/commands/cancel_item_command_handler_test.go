package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cancelFixture has seller X with one line of 5 x 10.00 (4.00 tax, 6.00
// shipping) and seller Y with one line of 1 x 30.00.
func cancelFixture(opts fixtureOptions) (fixture, kernel.UUID) {
	x, y := kernel.NewUUID(), kernel.NewUUID()
	f := newFixture(opts,
		fixtureLine{seller: x, price: "10.00", quantity: 5, tax: "4.00", shipping: "6.00"},
		fixtureLine{seller: y, price: "30.00", quantity: 1, tax: "0.00", shipping: "6.00"},
	)
	return f, x
}

type cancelItemRun struct {
	uow       *MockUoW
	gateway   *MockPaymentGateway
	lockedOrd *order.Order
	lockedSub []*suborder.SubOrder
	refund    *refund.Refund
}

func newCancelItemRun(f fixture) *cancelItemRun {
	r := &cancelItemRun{
		uow:       newMockUoW(),
		gateway:   new(MockPaymentGateway),
		lockedOrd: f.fresh(),
		lockedSub: f.freshSubs(),
	}
	r.uow.orders.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
	r.uow.subOrders.On("ListByOrder", mock.Anything, f.order.ID()).Return(f.freshSubs(), nil).Once()
	return r
}

func (r *cancelItemRun) expectApplied(f fixture, productID kernel.UUID, quantity int, paid bool) {
	mock.InOrder(
		r.uow.On("Begin", mock.Anything).Return(nil).Once(),
		r.uow.On("Commit", mock.Anything).Return(nil).Once(),
		r.uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)
	r.uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(r.lockedOrd, nil).Once()
	r.uow.subOrders.On("ListByOrderForUpdate", mock.Anything, f.order.ID()).Return(r.lockedSub, nil).Once()
	if paid {
		r.uow.refunds.On("Add", mock.Anything, mock.AnythingOfType("*refund.Refund")).
			Run(func(args mock.Arguments) { r.refund = args.Get(1).(*refund.Refund) }).
			Return(nil).Once()
	}
	r.uow.inventory.On("Increment", mock.Anything, productID, quantity).Return(nil).Once()
	r.uow.subOrders.On("Update", mock.Anything, r.lockedSub[0]).Return(nil).Once()
	r.uow.orders.On("Update", mock.Anything, r.lockedOrd).Return(nil).Once()
	r.uow.outbox.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Twice()
}

func (r *cancelItemRun) handler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(cancellationFactory{uow: r.uow}, r.gateway, nil)
}

func TestCancelItemCommandHandler_Handle_FullLineOfPaidOrder(t *testing.T) {
	ctx := t.Context()
	f, sellerX := cancelFixture(fixtureOptions{paid: true})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	line := order.CancelledLine{ProductID: productID, SellerID: sellerX, FromQuantity: 0, ToQuantity: 5}
	r.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.RefundRequest) bool {
		return req.PaymentReference == "pi_123" &&
			req.Amount.String() == "60.00" &&
			req.Currency == "USD" &&
			req.Reason == "changed my mind" &&
			req.IdempotencyKey == services.RefundIdempotencyKey(f.order.ID(), line)
	})).Return(ports.RefundResult{RefundID: "re_1", RefundedAmount: kernel.MustMoney("60.00")}, nil).Once()
	r.uow.journal.expectEmpty()
	credits := r.uow.journal.expectRecords()
	r.uow.journal.On("Claim", mock.Anything, mock.MatchedBy(func(d refund.Draw) bool {
		return d.GatewayRefundID == "re_1" && d.Refund.String() == "60.00" && d.Reversal.IsZero()
	})).Return(nil).Once()
	r.expectApplied(f, productID, 5, true)

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 5, "changed my mind")
	require.NoError(t, err)

	result, err := r.handler().Handle(ctx, cmd)
	require.NoError(t, err)
	r.uow.assertAll(t)
	r.gateway.AssertExpectations(t)
	r.gateway.AssertNotCalled(t, "ReverseTransfer", mock.Anything, mock.Anything)

	require.NotNil(t, result.Refund)
	assert.Equal(t, r.refund, result.Refund)
	assert.Equal(t, "60.00", result.Refund.Amount().String())
	assert.Equal(t, "re_1", result.Refund.GatewayRefundID())
	assert.Equal(t, string(refund.Completed), result.RefundStatus)
	assert.Equal(t, status.ItemCancelled, result.ItemStatus)
	assert.Equal(t, status.PartiallyCancelled, result.OrderStatus)

	assert.Equal(t, status.Cancelled, r.lockedSub[0].FulfillmentStatus())
	assert.Equal(t, status.PaymentRefunded, r.lockedSub[0].PaymentStatus())
	assert.Equal(t, []kernel.UUID{result.Refund.ID()}, r.lockedSub[0].RefundIDs())
	assert.Equal(t, status.PaymentPaid, r.lockedOrd.PaymentStatus())
	require.Len(t, *credits, 1)
	assert.Equal(t, "60.00", (*credits)[0].Refund().String())
}

func TestCancelItemCommandHandler_Handle_RecordsAmountTheGatewayRefunded(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: true})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	r.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.RefundRequest) bool {
		return req.Amount.String() == "60.00"
	})).Return(ports.RefundResult{RefundID: "re_1", RefundedAmount: kernel.MustMoney("55.00")}, nil).Once()
	r.uow.journal.expectEmpty()
	r.uow.journal.expectRecords()
	r.uow.journal.On("Claim", mock.Anything, mock.AnythingOfType("refund.Draw")).Return(nil).Once()
	r.expectApplied(f, productID, 5, true)

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 5, "")
	require.NoError(t, err)

	result, err := r.handler().Handle(ctx, cmd)
	require.NoError(t, err)
	r.uow.assertAll(t)
	assert.Equal(t, "55.00", result.Refund.Amount().String())
}

func TestCancelItemCommandHandler_Handle_ConfirmationWithoutAmountIsRejected(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: true})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	r.gateway.On("Refund", mock.Anything, mock.Anything).Return(ports.RefundResult{RefundID: "re_1"}, nil).Once()
	r.uow.journal.expectEmpty()

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 5, "")
	require.NoError(t, err)

	_, err = r.handler().Handle(ctx, cmd)
	assert.Equal(t, errs.KindExternalService, errs.KindOf(err))
	r.uow.assertAll(t)
	r.uow.journal.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	r.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCancelItemCommandHandler_Handle_PartialQuantityWithPayoutReversal(t *testing.T) {
	ctx := t.Context()
	f, sellerX := cancelFixture(fixtureOptions{paid: true})
	require.NoError(t, f.subs[0].RecordPayout("tr_1", f.order.CreatedAt()))
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	line := order.CancelledLine{ProductID: productID, SellerID: sellerX, FromQuantity: 0, ToQuantity: 2}
	r.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.RefundRequest) bool {
		return req.Amount.String() == "24.00" && req.IdempotencyKey == services.RefundIdempotencyKey(f.order.ID(), line)
	})).Return(refunded("re_2"), nil).Once()
	r.gateway.On("ReverseTransfer", mock.Anything, mock.MatchedBy(func(req ports.TransferReversalRequest) bool {
		return req.TransferReference == "tr_1" &&
			req.Amount.String() == "18.00" &&
			req.IdempotencyKey == services.ReversalIdempotencyKey(f.order.ID(), line)
	})).Return(nil).Once()
	r.uow.journal.expectEmpty()
	credits := r.uow.journal.expectRecords()
	r.uow.journal.On("Claim", mock.Anything, mock.AnythingOfType("refund.Draw")).Return(nil).Once()
	r.expectApplied(f, productID, 2, true)

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 2, "")
	require.NoError(t, err)

	result, err := r.handler().Handle(ctx, cmd)
	require.NoError(t, err)
	r.uow.assertAll(t)
	r.gateway.AssertExpectations(t)

	assert.Equal(t, status.ItemPartiallyCancelled, result.ItemStatus)
	assert.Equal(t, status.PartiallyCancelled, result.OrderStatus)
	item, err := r.lockedOrd.Item(productID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.CancelledQuantity())
	assert.Equal(t, status.PartiallyCancelled, r.lockedSub[0].FulfillmentStatus())
	assert.Equal(t, status.PaymentPaid, r.lockedSub[0].PaymentStatus())
	require.Len(t, *credits, 1)
	assert.Equal(t, "24.00", (*credits)[0].Refund().String())
	assert.Equal(t, "18.00", (*credits)[0].Reversal().String())
}

func TestCancelItemCommandHandler_Handle_FailedReversalKeepsRefundCredited(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: true})
	require.NoError(t, f.subs[0].RecordPayout("tr_1", f.order.CreatedAt()))
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	r.gateway.On("Refund", mock.Anything, mock.Anything).Return(refunded("re_3"), nil).Once()
	r.gateway.On("ReverseTransfer", mock.Anything, mock.Anything).Return(errors.New("insufficient balance")).Once()
	r.uow.journal.expectEmpty()
	credits := r.uow.journal.expectRecords()

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 2, "")
	require.NoError(t, err)

	_, err = r.handler().Handle(ctx, cmd)
	assert.Equal(t, errs.KindExternalService, errs.KindOf(err))
	r.uow.assertAll(t)
	r.uow.AssertNotCalled(t, "Begin", mock.Anything)

	require.Len(t, *credits, 1)
	assert.Equal(t, "24.00", (*credits)[0].Refund().String())
	assert.True(t, (*credits)[0].Reversal().IsZero())
}

func TestCancelItemCommandHandler_Handle_UnpaidOrderSkipsGateway(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: false})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)
	r.expectApplied(f, productID, 1, false)

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 1, "")
	require.NoError(t, err)

	result, err := r.handler().Handle(ctx, cmd)
	require.NoError(t, err)
	r.uow.assertAll(t)
	r.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	r.uow.refunds.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)

	assert.Nil(t, result.Refund)
	assert.Equal(t, refund.NotApplicableUnpaid, result.RefundStatus)
}

func TestCancelItemCommandHandler_Handle_GatewayFailurePersistsNothing(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: true})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)
	r.gateway.On("Refund", mock.Anything, mock.Anything).
		Return(ports.RefundResult{}, errors.New("card_declined")).Once()
	r.uow.journal.expectEmpty()

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 1, "")
	require.NoError(t, err)

	_, err = r.handler().Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrExternalService)
	assert.Equal(t, errs.KindExternalService, errs.KindOf(err))
	r.uow.assertAll(t)
	r.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCancelItemCommandHandler_Handle_ConcurrentCancellationIsConflict(t *testing.T) {
	ctx := t.Context()
	f, _ := cancelFixture(fixtureOptions{paid: false})
	productID := f.order.Items()[0].ProductID()
	r := newCancelItemRun(f)

	_, err := r.lockedOrd.CancelItem(productID, 1, f.order.CreatedAt())
	require.NoError(t, err)

	r.uow.expectTransaction(false)
	r.uow.orders.On("GetForUpdate", mock.Anything, f.order.ID()).Return(r.lockedOrd, nil).Once()

	cmd, err := commands.NewCancelItemCommand(f.buyerID, f.order.ID(), productID, 1, "")
	require.NoError(t, err)

	_, err = r.handler().Handle(ctx, cmd)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	r.uow.assertAll(t)
}

func TestCancelItemCommandHandler_Handle_Rejections(t *testing.T) {
	tests := []struct {
		name string
		opts fixtureOptions
		caller   func(f fixture) kernel.UUID
		quantity int
		want     errs.Kind
	}{
		{
			name:     "stranger",
			caller:   func(fixture) kernel.UUID { return kernel.NewUUID() },
			quantity: 1,
			want:     errs.KindUnauthorized,
		},
		{
			name:     "quantity above remaining",
			caller:   func(f fixture) kernel.UUID { return f.buyerID },
			quantity: 6,
			want:     errs.KindValidation,
		},
		{
			name:     "shipped order",
			opts:     fixtureOptions{paid: true, subStatus: status.Shipped},
			caller:   func(f fixture) kernel.UUID { return f.buyerID },
			quantity: 1,
			want:     errs.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := cancelFixture(tt.opts)
			productID := f.order.Items()[0].ProductID()
			uow := newMockUoW()
			uow.orders.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
			uow.subOrders.On("ListByOrder", mock.Anything, f.order.ID()).Return(f.freshSubs(), nil).Maybe()
			gateway := new(MockPaymentGateway)

			cmd, err := commands.NewCancelItemCommand(tt.caller(f), f.order.ID(), productID, tt.quantity, "")
			require.NoError(t, err)

			h := commands.NewCancelItemCommandHandler(cancellationFactory{uow: uow}, gateway, nil)
			_, err = h.Handle(t.Context(), cmd)
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))
			uow.AssertNotCalled(t, "Begin", mock.Anything)
			gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
		})
	}
}
