package suborderrepo

import (
	"context"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/suborder"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubOrderRepository implements ports.SubOrderRepository using GORM.
type GormSubOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormSubOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormSubOrderRepository {
	return &GormSubOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormSubOrderRepository) Add(ctx context.Context, aggregate *suborder.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSubOrderRepository) Update(ctx context.Context, aggregate *suborder.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SubOrderDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return pgconv.NotFound(gorm.ErrRecordNotFound, "sub-order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the sub-order row until the transaction ends.
func (r *GormSubOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListByOrder returns the sub-orders of an order, oldest first.
func (r *GormSubOrderRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error) {
	return r.list(r.db.WithContext(ctx), orderID)
}

// ListByOrderForUpdate locks every sub-order of the order.
func (r *GormSubOrderRepository) ListByOrderForUpdate(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error) {
	return r.list(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), orderID)
}

func (r *GormSubOrderRepository) get(db *gorm.DB, id kernel.UUID) (*suborder.SubOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SubOrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgconv.NotFound(err, "sub-order", id)
	}

	return toDomain(dto)
}

func (r *GormSubOrderRepository) list(db *gorm.DB, orderID kernel.UUID) ([]*suborder.SubOrder, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SubOrderDTO
	if err := db.Where("order_id = ?", orderID.Bytes()).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	subs := make([]*suborder.SubOrder, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, nil
}
