// Package ports defines the contracts between the order pipeline and its
// infrastructure: persistence, the payment gateway and the notification
// dispatcher. Adapters implement them; command handlers depend only on them.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates,
// items included.
type OrderRepository interface {
	// Add persists a new order aggregate with all its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order and its items.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the current
	// transaction ends. Concurrent writers of the same order serialize here.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
