// Package inventoryrepo keeps per-product stock counters.
package inventoryrepo

import (
	"context"
	"fmt"
	"math"
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockDTO is the available quantity of one product.
type StockDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available int       `gorm:"not null;check:available >= 0"`
	UpdatedAt time.Time
}

func (StockDTO) TableName() string {
	return "inventory"
}

// GormInventoryRepository implements ports.InventoryRepository. It is meant
// to run on a transaction handle.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Stock inserts or replaces the counter of a product.
func (r *GormInventoryRepository) Stock(ctx context.Context, productID kernel.UUID, available int) error {
	if available < 0 {
		return errs.NewValueIsOutOfRangeError("available", available, 0, math.MaxInt32)
	}
	dto := StockDTO{ProductID: productID.Bytes(), Available: available, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormInventoryRepository) StockForUpdate(ctx context.Context, productID kernel.UUID) (int, error) {
	if err := productID.Validate(); err != nil {
		return 0, err
	}

	var dto StockDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "product_id = ?", productID.Bytes()).Error
	if err != nil {
		return 0, pgconv.NotFound(err, "product stock", productID)
	}
	return dto.Available, nil
}

func (r *GormInventoryRepository) Decrement(ctx context.Context, productID kernel.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&StockDTO{}).
		Where("product_id = ? AND available >= ?", productID.Bytes(), quantity).
		Updates(map[string]any{
			"available":  gorm.Expr("available - ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("stock of product "+productID.String(), fmt.Sprintf("fewer than %d units available", quantity))
	}
	return nil
}

func (r *GormInventoryRepository) Increment(ctx context.Context, productID kernel.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&StockDTO{}).
		Where("product_id = ?", productID.Bytes()).
		Updates(map[string]any{
			"available":  gorm.Expr("available + ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product stock", productID.String())
	}
	return nil
}
