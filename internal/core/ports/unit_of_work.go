package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained before Begin read outside any transaction; those
// obtained after Begin are bound to it.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	SubOrderRepository() SubOrderRepository
	RefundRepository() RefundRepository
	RefundJournal() RefundJournal
	InventoryRepository() InventoryRepository
	BuyerRepository() BuyerRepository
	SellerRepository() SellerRepository
	OutboxRepository() OutboxRepository
}
