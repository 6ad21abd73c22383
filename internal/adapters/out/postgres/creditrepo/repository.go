// Package creditrepo stores gateway credits: refunds and payout reversals the
// gateway confirmed before the cancellation that asked for them committed.
//
// Credits are inserted on the connection pool, never inside the caller's
// transaction, and are drawn down inside it.
package creditrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreditDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_credits_line,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_credits_line,priority:2"`
	GatewayRefundID string          `gorm:"type:varchar(255);not null"`
	Refund          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reversal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (CreditDTO) TableName() string {
	return "refund_credits"
}

// GormRefundJournal implements ports.RefundJournal. pool is used for
// Record, db for everything else.
type GormRefundJournal struct {
	pool *gorm.DB
	db   *gorm.DB
}

func NewGormRefundJournal(pool, db *gorm.DB) *GormRefundJournal {
	return &GormRefundJournal{pool: pool, db: db}
}

func (j *GormRefundJournal) Record(ctx context.Context, credit *refund.Credit) error {
	dto := CreditDTO{
		ID:              credit.ID().Bytes(),
		OrderID:         credit.OrderID().Bytes(),
		ProductID:       credit.ProductID().Bytes(),
		GatewayRefundID: credit.GatewayRefundID(),
		Refund:          credit.Refund().Decimal(),
		Reversal:        credit.Reversal().Decimal(),
		CreatedAt:       credit.CreatedAt(),
	}
	return j.pool.WithContext(ctx).Create(&dto).Error
}

func (j *GormRefundJournal) Available(ctx context.Context, orderID, productID kernel.UUID) ([]*refund.Credit, error) {
	var dtos []CreditDTO
	err := j.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ? AND (refund > 0 OR reversal > 0)", orderID.Bytes(), productID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*refund.Credit, 0, len(dtos))
	for _, dto := range dtos {
		c, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, c)
	}
	return out, nil
}

// Claim draws in a single guarded update, so two transactions drawing on
// the same credit cannot both take the last of it.
func (j *GormRefundJournal) Claim(ctx context.Context, draw refund.Draw) error {
	amount, reversal := draw.Refund.Decimal(), draw.Reversal.Decimal()
	result := j.db.WithContext(ctx).Model(&CreditDTO{}).
		Where("id = ? AND refund >= ? AND reversal >= ?", draw.CreditID.Bytes(), amount, reversal).
		Updates(map[string]any{
			"refund":   gorm.Expr("refund - ?", amount),
			"reversal": gorm.Expr("reversal - ?", reversal),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("refund credit "+draw.CreditID.String(),
			"credit was drawn concurrently, retry the request")
	}
	return nil
}

func toDomain(dto CreditDTO) (*refund.Credit, error) {
	id, err := pgconv.UUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgconv.UUID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	productID, err := pgconv.UUID(dto.ProductID)
	if err != nil {
		return nil, err
	}
	return refund.NewCredit(id, orderID, productID, dto.GatewayRefundID,
		kernel.NewMoney(dto.Refund), kernel.NewMoney(dto.Reversal), dto.CreatedAt.UTC())
}
