// Package refundrepo stores refund records. Rows are inserted once and never
// updated.
package refundrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RefundDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubOrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency        string          `gorm:"type:char(3);not null"`
	Reason          string          `gorm:"type:text"`
	Quantity        int             `gorm:"not null"`
	GatewayRefundID string          `gorm:"type:varchar(255);index"`
	Status          string          `gorm:"type:varchar(16);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (RefundDTO) TableName() string {
	return "refunds"
}

// GormRefundRepository implements ports.RefundRepository using GORM.
type GormRefundRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRefundRepository(db *gorm.DB, tracker aggregateTracker) *GormRefundRepository {
	return &GormRefundRepository{db: db, tracker: tracker}
}

func (r *GormRefundRepository) Add(ctx context.Context, record *refund.Refund) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := RefundDTO{
		ID:              record.ID().Bytes(),
		OrderID:         record.OrderID().Bytes(),
		SubOrderID:      record.SubOrderID().Bytes(),
		ProductID:       record.ProductID().Bytes(),
		Amount:          record.Amount().Decimal(),
		Currency:        record.Currency(),
		Reason:          record.Reason(),
		Quantity:        record.Quantity(),
		GatewayRefundID: record.GatewayRefundID(),
		Status:          string(record.Status()),
		CreatedAt:       record.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// ListByOrder returns the refunds of an order, oldest first.
func (r *GormRefundRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toDomain(dto RefundDTO) (*refund.Refund, error) {
	id, err := pgconv.UUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgconv.UUID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	subOrderID, err := pgconv.UUID(dto.SubOrderID)
	if err != nil {
		return nil, err
	}
	productID, err := pgconv.UUID(dto.ProductID)
	if err != nil {
		return nil, err
	}

	return refund.RestoreRefund(id, orderID, subOrderID, productID, kernel.NewMoney(dto.Amount),
		dto.Currency, dto.Reason, dto.Quantity, dto.GatewayRefundID, refund.Status(dto.Status), dto.CreatedAt.UTC())
}
