package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"go.uber.org/zap"
)

// CancelOrderCommandHandler cancels a whole order. Unlike single-item
// cancellation everything, gateway calls included, happens while the order
// row is locked: the first failed refund aborts the transaction and leaves
// the order untouched.
type CancelOrderCommandHandler struct {
	uowFactory CancellationUoWFactory
	gateway    ports.PaymentGateway
	calculator services.RefundCalculator
	logger     *zap.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory CancellationUoWFactory,
	gateway ports.PaymentGateway,
	logger *zap.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		calculator: services.NewRefundCalculator(),
		logger:     nopLogger(logger).With(zap.String("component", "cancel_order")),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (CancelOrderResult, error) {
	if err := command.Validate(); err != nil {
		return CancelOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelOrderResult{}, persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()

	locked, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return CancelOrderResult{}, persistence("lock order", err)
	}
	if err = locked.AuthorizeCancellation(command.CallerID()); err != nil {
		return CancelOrderResult{}, err
	}
	if err = locked.EnsureCancellable(); err != nil {
		return CancelOrderResult{}, err
	}

	subRepo := uow.SubOrderRepository()
	subs, err := subRepo.ListByOrderForUpdate(ctx, locked.ID())
	if err != nil {
		return CancelOrderResult{}, persistence("lock sub-orders", err)
	}

	lines := locked.OutstandingLines()
	affected := make(map[kernel.UUID]struct{})
	var touched []*suborder.SubOrder
	for _, line := range lines {
		sub, subErr := subOrderOfSeller(subs, line.SellerID)
		if subErr != nil {
			return CancelOrderResult{}, subErr
		}
		if _, seen := affected[sub.ID()]; seen {
			continue
		}
		if subErr = sub.EnsureCancellable(); subErr != nil {
			return CancelOrderResult{}, subErr
		}
		affected[sub.ID()] = struct{}{}
		touched = append(touched, sub)
	}

	journal := uow.RefundJournal()
	var refunds []gatewayRefund
	if locked.IsPaid() {
		refunds, err = h.refundAll(ctx, journal, locked, subs, lines, command.Reason(), now)
		if err != nil {
			return CancelOrderResult{}, err
		}
	}

	locked.CancelAll(now)

	inventory := uow.InventoryRepository()
	for _, line := range lines {
		if err = inventory.Increment(ctx, line.ProductID, line.Quantity()); err != nil {
			return CancelOrderResult{}, persistence("restore stock", err)
		}
	}

	result := CancelOrderResult{RefundStatus: refund.NotApplicableUnpaid}
	refundIDs := make(map[kernel.UUID][]kernel.UUID)
	refundRepo := uow.RefundRepository()
	for _, r := range refunds {
		if err = r.claim(ctx, journal); err != nil {
			return CancelOrderResult{}, err
		}
		if !r.isRecorded() {
			continue
		}
		record, recordErr := refund.NewRefund(
			kernel.NewUUID(), locked.ID(), r.subOrder.ID(), r.line.ProductID,
			r.amount, locked.Currency(), command.Reason(), r.line.Quantity(),
			r.gatewayID, now,
		)
		if recordErr != nil {
			return CancelOrderResult{}, recordErr
		}
		if recordErr = refundRepo.Add(ctx, record); recordErr != nil {
			return CancelOrderResult{}, persistence("add refund", recordErr)
		}
		refundIDs[r.subOrder.ID()] = append(refundIDs[r.subOrder.ID()], record.ID())
		result.Refunds = append(result.Refunds, record)
		result.RefundStatus = string(record.Status())
	}

	for _, sub := range touched {
		sub.ApplyItemCancellation(locked.ItemStatusesOfSeller(sub.SellerID()), now, refundIDs[sub.ID()]...)
		if err = subRepo.Update(ctx, sub); err != nil {
			return CancelOrderResult{}, persistence("update sub-order", err)
		}
	}

	projectOrder(locked, subs, now)
	locked.SettleRefunds(now)
	if err = orderRepo.Update(ctx, locked); err != nil {
		return CancelOrderResult{}, persistence("update order", err)
	}
	result.OrderStatus = locked.FulfillmentStatus()

	if err = h.enqueueNotifications(ctx, outbox{repo: uow.OutboxRepository(), now: now}, locked, touched, lines, result, command.Reason()); err != nil {
		return CancelOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		if len(refunds) > 0 {
			h.logger.Warn("refunds credited but cancellation not recorded",
				zap.String("order_id", locked.ID().String()),
				zap.Int("refunds", len(refunds)),
				zap.Error(err),
			)
		}
		return CancelOrderResult{}, persistence("commit cancellation", err)
	}

	h.logger.Info("order cancelled",
		zap.String("order_id", locked.ID().String()),
		zap.Int("lines", len(lines)),
		zap.String("refund_status", result.RefundStatus),
	)
	return result, nil
}

// refundAll refunds lines in order and stops at the first failure. Lines
// refunded before the failure stay in the journal as credits, and the next
// cancellation of those lines draws on them.
func (h CancelOrderCommandHandler) refundAll(
	ctx context.Context,
	journal ports.RefundJournal,
	o *order.Order,
	subs []*suborder.SubOrder,
	lines []order.CancelledLine,
	reason string,
	now time.Time,
) ([]gatewayRefund, error) {
	refunds := make([]gatewayRefund, 0, len(lines))
	for _, line := range lines {
		sub, err := subOrderOfSeller(subs, line.SellerID)
		if err != nil {
			return nil, err
		}
		r, err := refundLine(ctx, h.gateway, journal, h.calculator, o, sub, line, reason, now)
		if err != nil {
			h.logger.Warn("order cancellation aborted by failed refund",
				zap.String("order_id", o.ID().String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Int("credited_before_failure", len(refunds)),
				zap.Error(err),
			)
			return nil, err
		}
		refunds = append(refunds, r)
	}
	return refunds, nil
}

func (h CancelOrderCommandHandler) enqueueNotifications(
	ctx context.Context,
	box outbox,
	o *order.Order,
	subs []*suborder.SubOrder,
	lines []order.CancelledLine,
	result CancelOrderResult,
	reason string,
) error {
	total := kernel.Zero()
	for _, r := range result.Refunds {
		total = total.Add(r.Amount())
	}

	if err := box.enqueue(ctx, notification.Buyer, buyerRecipient(o), notification.EventOrderCancelled, notification.Payload{
		"orderId":      o.ID().String(),
		"reason":       reason,
		"orderStatus":  result.OrderStatus.String(),
		"refundStatus": result.RefundStatus,
		"refundAmount": total.String(),
		"refunds":      len(result.Refunds),
	}); err != nil {
		return err
	}

	for _, sub := range subs {
		share := kernel.Zero()
		for _, r := range result.Refunds {
			if r.SubOrderID().IsEqual(sub.ID()) {
				share = share.Add(r.Amount())
			}
		}

		var items []map[string]any
		for _, line := range lines {
			if line.SellerID.IsEqual(sub.SellerID()) {
				items = append(items, map[string]any{
					"productId": line.ProductID.String(),
					"quantity":  line.Quantity(),
				})
			}
		}

		if err := box.enqueue(ctx, notification.Seller, sub.SellerID(), notification.EventOrderCancelled, notification.Payload{
			"orderId":      o.ID().String(),
			"subOrderId":   sub.ID().String(),
			"reason":       reason,
			"status":       sub.FulfillmentStatus().String(),
			"items":        items,
			"refundStatus": result.RefundStatus,
			"refundAmount": share.String(),
		}); err != nil {
			return err
		}
	}
	return nil
}
