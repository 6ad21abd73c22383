package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/suborder"

	"go.uber.org/zap"
)

// TransitionSubOrderCommandHandler moves a sub-order through the fulfillment
// state machine and recomputes the parent order in the same transaction.
type TransitionSubOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	logger     *zap.Logger
}

func NewTransitionSubOrderCommandHandler(uowFactory FulfillmentUoWFactory, logger *zap.Logger) TransitionSubOrderCommandHandler {
	return TransitionSubOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     nopLogger(logger).With(zap.String("component", "transition_suborder")),
	}
}

func (h TransitionSubOrderCommandHandler) Handle(ctx context.Context, command TransitionSubOrderCommand) error {
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
	subRepo := uow.SubOrderRepository()
	orderRepo := uow.OrderRepository()

	// Locks follow the order-then-sub-order sequence of every other writer.
	// The unlocked read only finds the parent.
	current, err := subRepo.Get(ctx, command.SubOrderID())
	if err != nil {
		return persistence("get sub-order", err)
	}
	if err = current.AuthorizeSeller(command.CallerID()); err != nil {
		return err
	}

	parent, err := orderRepo.GetForUpdate(ctx, current.OrderID())
	if err != nil {
		return persistence("get order", err)
	}
	sub, err := subRepo.GetForUpdate(ctx, command.SubOrderID())
	if err != nil {
		return persistence("lock sub-order", err)
	}

	previous := sub.FulfillmentStatus()
	if err = sub.Transition(command.Next(), command.TrackingNumber(), now); err != nil {
		return err
	}

	siblings, err := subRepo.ListByOrder(ctx, sub.OrderID())
	if err != nil {
		return persistence("list sub-orders", err)
	}
	projectOrder(parent, replaceSibling(siblings, sub), now)

	if err = subRepo.Update(ctx, sub); err != nil {
		return persistence("update sub-order", err)
	}
	if err = orderRepo.Update(ctx, parent); err != nil {
		return persistence("update order", err)
	}

	box := outbox{repo: uow.OutboxRepository(), now: now}
	payload := notification.Payload{
		"orderId":        parent.ID().String(),
		"subOrderId":     sub.ID().String(),
		"from":           previous.String(),
		"status":         sub.FulfillmentStatus().String(),
		"orderStatus":    parent.FulfillmentStatus().String(),
		"trackingNumber": sub.Shipment().TrackingNumber,
	}
	if err = enqueueStatusChange(ctx, box, parent, sub, payload); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return persistence("commit transition", err)
	}

	h.logger.Info("sub-order transitioned",
		zap.String("sub_order_id", sub.ID().String()),
		zap.Stringer("from", previous),
		zap.Stringer("to", sub.FulfillmentStatus()),
		zap.Stringer("order_status", parent.FulfillmentStatus()),
	)
	return nil
}

func enqueueStatusChange(
	ctx context.Context,
	box outbox,
	parent *order.Order,
	sub *suborder.SubOrder,
	payload notification.Payload,
) error {
	if err := box.enqueue(ctx, notification.Buyer, buyerRecipient(parent), notification.EventSubOrderStatusChanged, payload); err != nil {
		return err
	}
	return box.enqueue(ctx, notification.Seller, sub.SellerID(), notification.EventSubOrderStatusChanged, payload)
}

// replaceSibling swaps the stored copy of changed for the in-memory one, so
// the projection sees the state about to be written.
func replaceSibling(siblings []*suborder.SubOrder, changed *suborder.SubOrder) []*suborder.SubOrder {
	out := make([]*suborder.SubOrder, 0, len(siblings))
	found := false
	for _, s := range siblings {
		if s.ID().IsEqual(changed.ID()) {
			out = append(out, changed)
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, changed)
	}
	return out
}
