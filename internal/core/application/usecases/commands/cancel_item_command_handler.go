package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"go.uber.org/zap"
)

// CancelItemCommandHandler cancels units of one order line.
//
// The refund is requested from the gateway before any row is locked, so the
// transaction never waits on the network. The confirmed refund is journaled
// as a credit right away. The transaction then re-reads the order, fails
// with a conflict if another cancellation got there first, and otherwise
// claims the credit; a retry draws on the unclaimed credit instead of
// refunding again.
type CancelItemCommandHandler struct {
	uowFactory CancellationUoWFactory
	gateway    ports.PaymentGateway
	calculator services.RefundCalculator
	logger     *zap.Logger
}

func NewCancelItemCommandHandler(
	uowFactory CancellationUoWFactory,
	gateway ports.PaymentGateway,
	logger *zap.Logger,
) CancelItemCommandHandler {
	return CancelItemCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		calculator: services.NewRefundCalculator(),
		logger:     nopLogger(logger).With(zap.String("component", "cancel_item")),
	}
}

func (h CancelItemCommandHandler) Handle(ctx context.Context, command CancelItemCommand) (CancelItemResult, error) {
	if err := command.Validate(); err != nil {
		return CancelItemResult{}, err
	}

	now := time.Now().UTC()
	uow := h.uowFactory.Create()

	// Checks and the gateway call run against a snapshot outside the
	// transaction.
	snapshot, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return CancelItemResult{}, persistence("get order", err)
	}
	if err = snapshot.AuthorizeCancellation(command.CallerID()); err != nil {
		return CancelItemResult{}, err
	}
	if err = snapshot.EnsureCancellable(); err != nil {
		return CancelItemResult{}, err
	}

	item, err := snapshot.Item(command.ProductID())
	if err != nil {
		return CancelItemResult{}, err
	}
	subs, err := uow.SubOrderRepository().ListByOrder(ctx, snapshot.ID())
	if err != nil {
		return CancelItemResult{}, persistence("list sub-orders", err)
	}
	sub, err := subOrderOfSeller(subs, item.SellerID())
	if err != nil {
		return CancelItemResult{}, err
	}
	if err = sub.EnsureCancellable(); err != nil {
		return CancelItemResult{}, err
	}

	line, err := snapshot.CancelItem(command.ProductID(), command.Quantity(), now)
	if err != nil {
		return CancelItemResult{}, err
	}

	var paid *gatewayRefund
	if snapshot.IsPaid() {
		r, refundErr := refundLine(ctx, h.gateway, uow.RefundJournal(), h.calculator, snapshot, sub, line, command.Reason(), now)
		if refundErr != nil {
			h.logger.Warn("refund failed",
				zap.String("order_id", snapshot.ID().String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Error(refundErr),
			)
			return CancelItemResult{}, refundErr
		}
		paid = &r
	}

	result, err := h.apply(ctx, uow, command, line.FromQuantity, paid, now)
	if err != nil && paid != nil {
		h.logger.Warn("refund credited but cancellation not recorded",
			zap.String("order_id", command.OrderID().String()),
			zap.String("gateway_refund_id", paid.gatewayID),
			zap.Error(err),
		)
	}
	return result, err
}

// apply records the cancellation under row locks.
func (h CancelItemCommandHandler) apply(
	ctx context.Context,
	uow CancellationUoW,
	command CancelItemCommand,
	expectedCancelled int,
	paid *gatewayRefund,
	now time.Time,
) (CancelItemResult, error) {
	if err := uow.Begin(ctx); err != nil {
		return CancelItemResult{}, persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	locked, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return CancelItemResult{}, persistence("lock order", err)
	}
	item, err := locked.Item(command.ProductID())
	if err != nil {
		return CancelItemResult{}, err
	}
	if item.CancelledQuantity() != expectedCancelled {
		return CancelItemResult{}, errs.NewConflictError("order "+locked.ID().String(),
			"item was cancelled concurrently, retry the request")
	}

	subRepo := uow.SubOrderRepository()
	subs, err := subRepo.ListByOrderForUpdate(ctx, locked.ID())
	if err != nil {
		return CancelItemResult{}, persistence("lock sub-orders", err)
	}
	sub, err := subOrderOfSeller(subs, item.SellerID())
	if err != nil {
		return CancelItemResult{}, err
	}
	if err = sub.EnsureCancellable(); err != nil {
		return CancelItemResult{}, err
	}

	if _, err = locked.CancelItem(command.ProductID(), command.Quantity(), now); err != nil {
		return CancelItemResult{}, err
	}

	result := CancelItemResult{RefundStatus: refund.NotApplicableUnpaid}
	var refundIDs []kernel.UUID
	if paid != nil {
		if err = paid.claim(ctx, uow.RefundJournal()); err != nil {
			return CancelItemResult{}, err
		}
	}
	if paid != nil && paid.isRecorded() {
		record, recordErr := refund.NewRefund(
			kernel.NewUUID(), locked.ID(), sub.ID(), command.ProductID(),
			paid.amount, locked.Currency(), command.Reason(), command.Quantity(),
			paid.gatewayID, now,
		)
		if recordErr != nil {
			return CancelItemResult{}, recordErr
		}
		if recordErr = uow.RefundRepository().Add(ctx, record); recordErr != nil {
			return CancelItemResult{}, persistence("add refund", recordErr)
		}
		refundIDs = append(refundIDs, record.ID())
		result.Refund = record
		result.RefundStatus = string(record.Status())
	}

	if err = uow.InventoryRepository().Increment(ctx, command.ProductID(), command.Quantity()); err != nil {
		return CancelItemResult{}, persistence("restore stock", err)
	}

	sub.ApplyItemCancellation(locked.ItemStatusesOfSeller(sub.SellerID()), now, refundIDs...)
	if err = subRepo.Update(ctx, sub); err != nil {
		return CancelItemResult{}, persistence("update sub-order", err)
	}

	projectOrder(locked, subs, now)
	locked.SettleRefunds(now)
	if err = orderRepo.Update(ctx, locked); err != nil {
		return CancelItemResult{}, persistence("update order", err)
	}

	result.ItemStatus = item.Status()
	result.OrderStatus = locked.FulfillmentStatus()

	payload := notification.Payload{
		"orderId":      locked.ID().String(),
		"subOrderId":   sub.ID().String(),
		"productId":    command.ProductID().String(),
		"quantity":     command.Quantity(),
		"reason":       command.Reason(),
		"itemStatus":   result.ItemStatus.String(),
		"orderStatus":  result.OrderStatus.String(),
		"refundStatus": result.RefundStatus,
	}
	if result.Refund != nil {
		payload["refundAmount"] = result.Refund.Amount().String()
	}
	box := outbox{repo: uow.OutboxRepository(), now: now}
	if err = box.enqueue(ctx, notification.Buyer, buyerRecipient(locked), notification.EventItemCancelled, payload); err != nil {
		return CancelItemResult{}, err
	}
	if err = box.enqueue(ctx, notification.Seller, sub.SellerID(), notification.EventItemCancelled, payload); err != nil {
		return CancelItemResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CancelItemResult{}, persistence("commit cancellation", err)
	}

	h.logger.Info("item cancelled",
		zap.String("order_id", locked.ID().String()),
		zap.String("product_id", command.ProductID().String()),
		zap.Int("quantity", command.Quantity()),
		zap.String("refund_status", result.RefundStatus),
	)
	return result, nil
}
