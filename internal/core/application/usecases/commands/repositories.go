// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	SubOrderRepoFactory interface {
		SubOrderRepository() ports.SubOrderRepository
	}

	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
		RefundJournal() ports.RefundJournal
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	// AccountRepoFactory provides the read models of buyers and sellers.
	AccountRepoFactory interface {
		BuyerRepository() ports.BuyerRepository
		SellerRepository() ports.SellerRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// CheckoutUoW spans everything order creation writes: the order, its
	// sub-orders, stock counters and the outbox.
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		SubOrderRepoFactory
		InventoryRepoFactory
		AccountRepoFactory
		OutboxRepoFactory
	}

	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// FulfillmentUoW is used by seller-driven status changes and payment
	// bookkeeping.
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		SubOrderRepoFactory
		OutboxRepoFactory
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// CancellationUoW spans a cancellation: statuses, refund records,
	// restored stock and the outbox.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   refundRepo := uow.RefundRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	CancellationUoW interface {
		TxManager
		OrderRepoFactory
		SubOrderRepoFactory
		RefundRepoFactory
		InventoryRepoFactory
		OutboxRepoFactory
	}

	CancellationUoWFactory interface {
		Create() CancellationUoW
	}

	// RelayUoW locks a batch of pending notifications while they are
	// dispatched.
	RelayUoW interface {
		TxManager
		OutboxRepoFactory
	}

	RelayUoWFactory interface {
		Create() RelayUoW
	}
)
