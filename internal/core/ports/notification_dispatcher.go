package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// NotificationDispatcher delivers messages to buyers and sellers. Delivery is
// at least once; callers never depend on its outcome.
type NotificationDispatcher interface {
	NotifyBuyer(ctx context.Context, buyerID kernel.UUID, event string, payload notification.Payload) error
	NotifySeller(ctx context.Context, sellerID kernel.UUID, event string, payload notification.Payload) error
}
