// Package postgres provides the GORM-based Unit of Work that spans every
// repository of the order pipeline.
//
// A unit of work hands out repositories bound to whatever connection is
// current: the plain pool before Begin, the open transaction after it.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.InventoryRepository().Decrement(ctx, productID, qty); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction,
// which the deferred call discards.
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns at most one transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Aggregates that are read-modify-written go through GetForUpdate
package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/accountrepo"
	"marketplace/internal/adapters/out/postgres/creditrepo"
	"marketplace/internal/adapters/out/postgres/inventoryrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/adapters/out/postgres/refundrepo"
	"marketplace/internal/adapters/out/postgres/suborderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

// TrackedAggregate is an aggregate written during the unit of work.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.create()
}

func (f *GormUnitOfWorkFactory) create() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]TrackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction and records the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []TrackedAggregate
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback returns gorm.ErrInvalidTransaction if no transaction is open.
// Tracked aggregates are forgotten.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) SubOrderRepository() ports.SubOrderRepository {
	return suborderrepo.NewGormSubOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RefundRepository() ports.RefundRepository {
	return refundrepo.NewGormRefundRepository(uow.conn(), uow)
}

// RefundJournal records credits on the pool, so they outlive a rolled back
// transaction, and claims them on the current connection.
func (uow *GormUnitOfWork) RefundJournal() ports.RefundJournal {
	return creditrepo.NewGormRefundJournal(uow.db, uow.conn())
}

func (uow *GormUnitOfWork) InventoryRepository() ports.InventoryRepository {
	return inventoryrepo.NewGormInventoryRepository(uow.conn())
}

func (uow *GormUnitOfWork) BuyerRepository() ports.BuyerRepository {
	return accountrepo.NewGormBuyerRepository(uow.conn())
}

func (uow *GormUnitOfWork) SellerRepository() ports.SellerRepository {
	return accountrepo.NewGormSellerRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate is called by repositories after an aggregate is written.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, TrackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates lists what was written since the unit of work was
// created or last rolled back.
func (uow *GormUnitOfWork) TrackedAggregates() []TrackedAggregate {
	out := make([]TrackedAggregate, len(uow.trackedAggregates))
	copy(out, uow.trackedAggregates)
	return out
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountrepo.BuyerDTO{},
		&accountrepo.SellerDTO{},
		&inventoryrepo.StockDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&suborderrepo.SubOrderDTO{},
		&refundrepo.RefundDTO{},
		&creditrepo.CreditDTO{},
		&outboxrepo.NotificationDTO{},
	)
}
