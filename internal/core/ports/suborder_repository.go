package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/suborder"
)

// SubOrderRepository defines the persistence contract for sub-orders.
type SubOrderRepository interface {
	Add(ctx context.Context, aggregate *suborder.SubOrder) error
	Update(ctx context.Context, aggregate *suborder.SubOrder) error
	Get(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error)

	// GetForUpdate locks the sub-order row so that status transitions on the
	// same sub-order run one after the other.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error)

	// ListByOrder returns every sub-order of an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error)

	// ListByOrderForUpdate is ListByOrder with row locks.
	ListByOrderForUpdate(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error)
}
