package ports

import (
	"context"

	"marketplace/internal/core/domain/model/notification"
)

// OutboxRepository stores notifications until the relay has handed them to
// the dispatcher.
type OutboxRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Update(ctx context.Context, n *notification.Notification) error

	// ListPending returns up to limit pending notifications, oldest first,
	// skipping rows locked by another relay.
	ListPending(ctx context.Context, limit int) ([]*notification.Notification, error)
}
