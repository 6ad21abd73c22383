// Package accountrepo reads buyers and sellers. The rows are owned by the
// user service and replicated into this database; Save exists for that
// replication and for tests.
package accountrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BuyerDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StoreID *uuid.UUID `gorm:"type:uuid"`
}

func (BuyerDTO) TableName() string {
	return "buyers"
}

type SellerDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	GraceRate      decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0"`
	GraceUntil     *time.Time
	GrossUp        bool            `gorm:"not null;default:false"`
}

func (SellerDTO) TableName() string {
	return "sellers"
}

type GormBuyerRepository struct {
	db *gorm.DB
}

func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

func (r *GormBuyerRepository) Get(ctx context.Context, id kernel.UUID) (*account.Buyer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BuyerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgconv.NotFound(err, "buyer", id)
	}

	storeID, err := pgconv.OptionalUUID(dto.StoreID)
	if err != nil {
		return nil, err
	}
	return account.NewBuyer(id, storeID)
}

func (r *GormBuyerRepository) Save(ctx context.Context, b *account.Buyer) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dto := BuyerDTO{ID: b.ID().Bytes()}
	if b.StoreID() != nil {
		raw := b.StoreID().Bytes()
		dto.StoreID = &raw
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

type GormSellerRepository struct {
	db *gorm.DB
}

func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

func (r *GormSellerRepository) Get(ctx context.Context, id kernel.UUID) (*account.Seller, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SellerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgconv.NotFound(err, "seller", id)
	}

	var graceUntil *time.Time
	if dto.GraceUntil != nil {
		t := dto.GraceUntil.UTC()
		graceUntil = &t
	}
	terms, err := account.NewCommissionTerms(dto.CommissionRate, dto.GraceRate, graceUntil, dto.GrossUp)
	if err != nil {
		return nil, err
	}
	return account.NewSeller(id, terms)
}

func (r *GormSellerRepository) Save(ctx context.Context, s *account.Seller) error {
	if err := s.Validate(); err != nil {
		return err
	}

	terms := s.Terms()
	dto := SellerDTO{
		ID:             s.ID().Bytes(),
		CommissionRate: terms.Rate(),
		GraceRate:      terms.GraceRate(),
		GraceUntil:     terms.GraceUntil(),
		GrossUp:        terms.GrossUp(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}
