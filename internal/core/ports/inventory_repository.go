package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// InventoryRepository adjusts stock counters. It is only ever obtained from
// a unit of work, so every adjustment shares the transaction of the order
// change it accompanies.
type InventoryRepository interface {
	// StockForUpdate reads the available stock of a product and locks the
	// counter; concurrent checkouts of the same product serialize here.
	StockForUpdate(ctx context.Context, productID kernel.UUID) (int, error)

	// Decrement removes quantity units. It fails when stock would go negative.
	Decrement(ctx context.Context, productID kernel.UUID, quantity int) error

	// Increment returns quantity units to stock.
	Increment(ctx context.Context, productID kernel.UUID, quantity int) error
}
