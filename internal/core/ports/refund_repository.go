package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
)

// RefundRepository stores immutable refund records. There is no update.
type RefundRepository interface {
	Add(ctx context.Context, r *refund.Refund) error
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error)
}
