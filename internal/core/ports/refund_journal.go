package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
)

// RefundJournal keeps gateway credits that no committed cancellation has
// claimed yet.
type RefundJournal interface {
	// Record stores a credit immediately, outside any transaction of the
	// unit of work it came from, so it survives that transaction's rollback.
	Record(ctx context.Context, credit *refund.Credit) error

	// Available lists the credits of a line with something left to draw,
	// oldest first.
	Available(ctx context.Context, orderID, productID kernel.UUID) ([]*refund.Credit, error)

	// Claim subtracts a draw from its credit inside the current transaction.
	// It fails when the credit no longer holds enough.
	Claim(ctx context.Context, draw refund.Draw) error
}
