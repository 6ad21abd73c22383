package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/notification"

	"go.uber.org/zap"
)

// ConfirmPaymentCommandHandler marks an order and all of its sub-orders Paid.
type ConfirmPaymentCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	logger     *zap.Logger
}

func NewConfirmPaymentCommandHandler(uowFactory FulfillmentUoWFactory, logger *zap.Logger) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		logger:     nopLogger(logger).With(zap.String("component", "confirm_payment")),
	}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return persistence("lock order", err)
	}
	if err = o.ConfirmPayment(command.TransactionID(), now); err != nil {
		return err
	}

	subRepo := uow.SubOrderRepository()
	subs, err := subRepo.ListByOrderForUpdate(ctx, o.ID())
	if err != nil {
		return persistence("lock sub-orders", err)
	}
	for _, sub := range subs {
		if err = sub.ConfirmPayment(now); err != nil {
			return err
		}
		if err = subRepo.Update(ctx, sub); err != nil {
			return persistence("update sub-order", err)
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return persistence("update order", err)
	}

	box := outbox{repo: uow.OutboxRepository(), now: now}
	if err = box.enqueue(ctx, notification.Buyer, buyerRecipient(o), notification.EventPaymentConfirmed, notification.Payload{
		"orderId": o.ID().String(),
		"amount":  o.Totals().Amount.String(),
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return persistence("commit payment", err)
	}

	h.logger.Info("payment confirmed",
		zap.String("order_id", o.ID().String()),
		zap.String("transaction_id", command.TransactionID()),
	)
	return nil
}
