package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RelayNotificationsCommandHandler drains the outbox. A batch stays locked
// while it is dispatched, so concurrent relays never send the same
// notification. A dispatch failure marks the notification failed and is
// never retried.
type RelayNotificationsCommandHandler struct {
	uowFactory  RelayUoWFactory
	dispatcher  ports.NotificationDispatcher
	concurrency int
	logger      *zap.Logger
}

func NewRelayNotificationsCommandHandler(
	uowFactory RelayUoWFactory,
	dispatcher ports.NotificationDispatcher,
	concurrency int,
	logger *zap.Logger,
) RelayNotificationsCommandHandler {
	if concurrency < 1 {
		concurrency = 1
	}
	return RelayNotificationsCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  dispatcher,
		concurrency: concurrency,
		logger:      nopLogger(logger).With(zap.String("component", "notification_relay")),
	}
}

func (h RelayNotificationsCommandHandler) Handle(ctx context.Context, command RelayNotificationsCommand) (RelayResult, error) {
	if err := command.Validate(); err != nil {
		return RelayResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RelayResult{}, persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OutboxRepository()
	pending, err := repo.ListPending(ctx, command.BatchSize())
	if err != nil {
		return RelayResult{}, persistence("list pending notifications", err)
	}
	if len(pending) == 0 {
		return RelayResult{}, nil
	}

	outcomes := h.dispatchAll(ctx, pending)

	var result RelayResult
	now := time.Now().UTC()
	for i, n := range pending {
		if outcomes[i] == nil {
			err = n.MarkSent(now)
			result.Sent++
		} else {
			h.logger.Error("notification dispatch failed",
				zap.String("notification_id", n.ID().String()),
				zap.String("event", n.Event()),
				zap.String("recipient_id", n.RecipientID().String()),
				zap.Error(outcomes[i]))
			err = n.MarkFailed(outcomes[i], now)
			result.Failed++
		}
		if err != nil {
			return RelayResult{}, err
		}
		if err = repo.Update(ctx, n); err != nil {
			return RelayResult{}, persistence("update notification", err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return RelayResult{}, persistence("commit relay", err)
	}

	h.logger.Debug("outbox relayed", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	return result, nil
}

// dispatchAll returns one outcome per notification, in order.
func (h RelayNotificationsCommandHandler) dispatchAll(ctx context.Context, pending []*notification.Notification) []error {
	outcomes := make([]error, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, n := range pending {
		g.Go(func() error {
			outcomes[i] = h.dispatch(gctx, n)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (h RelayNotificationsCommandHandler) dispatch(ctx context.Context, n *notification.Notification) error {
	if n.Recipient() == notification.Seller {
		return h.dispatcher.NotifySeller(ctx, n.RecipientID(), n.Event(), n.Payload())
	}
	return h.dispatcher.NotifyBuyer(ctx, n.RecipientID(), n.Event(), n.Payload())
}
