package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"go.uber.org/zap"
)

// persistence wraps storage failures as retryable internal errors. Errors
// that already carry a caller-facing kind pass through untouched.
func persistence(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindInternal || errors.Is(err, errs.ErrInternal) {
		return err
	}
	return errs.NewInternalError(operation, err)
}

// buyerRecipient is the id a buyer is addressed by: its store when it buys
// for one.
func buyerRecipient(o *order.Order) kernel.UUID {
	if o.StoreID() != nil {
		return *o.StoreID()
	}
	return o.BuyerID()
}

type outbox struct {
	repo ports.OutboxRepository
	now  time.Time
}

func (b outbox) enqueue(
	ctx context.Context,
	recipient notification.Recipient,
	recipientID kernel.UUID,
	event string,
	payload notification.Payload,
) error {
	n, err := notification.NewNotification(recipient, recipientID, event, payload, b.now)
	if err != nil {
		return err
	}
	return persistence("enqueue notification", b.repo.Add(ctx, n))
}

// projectOrder recomputes the order's fulfillment status from the given
// sub-orders, which must be all of the order's sub-orders.
func projectOrder(o *order.Order, subs []*suborder.SubOrder, now time.Time) {
	statuses := make([]status.Fulfillment, 0, len(subs))
	for _, s := range subs {
		statuses = append(statuses, s.FulfillmentStatus())
	}
	o.ProjectFulfillment(statuses, now)
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
