// Package suborderrepo persists sub-orders. Product and refund references
// are kept in text[] columns on the sub-order row.
package suborderrepo

import (
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/domain/model/suborder"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type SubOrderDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID           uuid.UUID       `gorm:"type:uuid;not null"`
	ProductIDs        pq.StringArray  `gorm:"type:text[];not null"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax               decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Shipping          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Commission        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ServiceFee        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SellerNet         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FulfillmentStatus string          `gorm:"type:varchar(32);not null;index"`
	PaymentStatus     string          `gorm:"type:varchar(32);not null"`
	ShippingRateID    string          `gorm:"type:varchar(255)"`
	Carrier           string          `gorm:"type:varchar(64)"`
	TrackingNumber    string          `gorm:"type:varchar(255)"`
	TransferID        string          `gorm:"type:varchar(255)"`
	RefundIDs         pq.StringArray  `gorm:"type:text[]"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

func fromDomain(s *suborder.SubOrder) SubOrderDTO {
	totals := s.Totals()
	shipment := s.Shipment()
	return SubOrderDTO{
		ID:                s.ID().Bytes(),
		OrderID:           s.OrderID().Bytes(),
		SellerID:          s.SellerID().Bytes(),
		BuyerID:           s.BuyerID().Bytes(),
		ProductIDs:        pgconv.UUIDArray(s.ProductIDs()),
		Subtotal:          totals.Subtotal.Decimal(),
		Tax:               totals.Tax.Decimal(),
		Shipping:          totals.Shipping.Decimal(),
		Commission:        totals.Commission.Decimal(),
		ServiceFee:        totals.ServiceFee.Decimal(),
		SellerNet:         totals.SellerNet.Decimal(),
		Total:             totals.Total.Decimal(),
		FulfillmentStatus: s.FulfillmentStatus().String(),
		PaymentStatus:     s.PaymentStatus().String(),
		ShippingRateID:    shipment.RateID,
		Carrier:           shipment.Carrier,
		TrackingNumber:    shipment.TrackingNumber,
		TransferID:        s.TransferID(),
		RefundIDs:         pgconv.UUIDArray(s.RefundIDs()),
		CreatedAt:         s.CreatedAt(),
		UpdatedAt:         s.UpdatedAt(),
	}
}

func toDomain(dto SubOrderDTO) (*suborder.SubOrder, error) {
	id, err := pgconv.UUID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgconv.UUID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	sellerID, err := pgconv.UUID(dto.SellerID)
	if err != nil {
		return nil, err
	}
	buyerID, err := pgconv.UUID(dto.BuyerID)
	if err != nil {
		return nil, err
	}

	productIDs, err := pgconv.UUIDsFromArray(dto.ProductIDs)
	if err != nil {
		return nil, err
	}
	refundIDs, err := pgconv.UUIDsFromArray(dto.RefundIDs)
	if err != nil {
		return nil, err
	}
	fulfillmentStatus, err := status.ParseFulfillment(dto.FulfillmentStatus)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := status.ParsePayment(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return suborder.RestoreSubOrder(id, orderID, sellerID, buyerID, productIDs,
		suborder.Totals{
			Subtotal:   kernel.NewMoney(dto.Subtotal),
			Tax:        kernel.NewMoney(dto.Tax),
			Shipping:   kernel.NewMoney(dto.Shipping),
			Commission: kernel.NewMoney(dto.Commission),
			ServiceFee: kernel.NewMoney(dto.ServiceFee),
			SellerNet:  kernel.NewMoney(dto.SellerNet),
			Total:      kernel.NewMoney(dto.Total),
		},
		suborder.Shipment{RateID: dto.ShippingRateID, Carrier: dto.Carrier, TrackingNumber: dto.TrackingNumber},
		fulfillmentStatus, paymentStatus, dto.TransferID, refundIDs,
		dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}
