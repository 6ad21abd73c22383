// Package orderrepo persists the order aggregate in two tables: orders and
// order_items. Items are written with the order and always loaded with it.
package orderrepo

import (
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/status"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row of the orders table. Statuses are stored by name.
type OrderDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID              *uuid.UUID      `gorm:"type:uuid;index"`
	ShippingAddress      kernel.Address  `gorm:"type:jsonb;serializer:json;not null"`
	BillingAddress       kernel.Address  `gorm:"type:jsonb;serializer:json;not null"`
	Currency             string          `gorm:"type:char(3);not null"`
	PaymentMethod        string          `gorm:"type:varchar(32);not null"`
	EstimatedDelivery    time.Time       `gorm:"type:date"`
	Amount               decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax                  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Shipping             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TransactionFee       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentStatus        string          `gorm:"type:varchar(32);not null"`
	FulfillmentStatus    string          `gorm:"type:varchar(32);not null;index"`
	PaymentTransactionID string          `gorm:"type:varchar(255)"`
	SubOrderIDs          pq.StringArray  `gorm:"type:text[]"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
	Items                []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of an order, keyed by order and product.
type OrderItemDTO struct {
	OrderID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position          int             `gorm:"not null"`
	SellerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Quantity          int             `gorm:"not null"`
	TaxRate           decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShippingShare     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CancelledQuantity int             `gorm:"not null;default:0"`
	Status            string          `gorm:"type:varchar(32);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	var storeID *uuid.UUID
	if id := o.StoreID(); id != nil {
		raw := id.Bytes()
		storeID = &raw
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:           orderID,
			ProductID:         item.ProductID().Bytes(),
			Position:          i,
			SellerID:          item.SellerID().Bytes(),
			UnitPrice:         item.UnitPrice().Decimal(),
			Quantity:          item.Quantity(),
			TaxRate:           item.TaxRate(),
			TaxAmount:         item.TaxAmount().Decimal(),
			ShippingShare:     item.ShippingShare().Decimal(),
			CancelledQuantity: item.CancelledQuantity(),
			Status:            item.Status().String(),
		})
	}

	checkout := o.Checkout()
	totals := o.Totals()
	return OrderDTO{
		ID:                   orderID,
		BuyerID:              checkout.BuyerID.Bytes(),
		StoreID:              storeID,
		ShippingAddress:      checkout.ShippingAddress,
		BillingAddress:       checkout.BillingAddress,
		Currency:             checkout.Currency,
		PaymentMethod:        checkout.PaymentMethod,
		EstimatedDelivery:    checkout.EstimatedDelivery,
		Amount:               totals.Amount.Decimal(),
		Tax:                  totals.Tax.Decimal(),
		Shipping:             totals.Shipping.Decimal(),
		TransactionFee:       totals.TransactionFee.Decimal(),
		PaymentStatus:        o.PaymentStatus().String(),
		FulfillmentStatus:    o.FulfillmentStatus().String(),
		PaymentTransactionID: o.PaymentTransactionID(),
		SubOrderIDs:          pgconv.UUIDArray(o.SubOrderIDs()),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
		Items:                items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := pgconv.UUID(dto.ID)
	if err != nil {
		return nil, err
	}
	buyerID, err := pgconv.UUID(dto.BuyerID)
	if err != nil {
		return nil, err
	}
	storeID, err := pgconv.OptionalUUID(dto.StoreID)
	if err != nil {
		return nil, err
	}
	subOrderIDs, err := pgconv.UUIDsFromArray(dto.SubOrderIDs)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := status.ParsePayment(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	fulfillmentStatus, err := status.ParseFulfillment(dto.FulfillmentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, order.Checkout{
		BuyerID:           buyerID,
		StoreID:           storeID,
		ShippingAddress:   dto.ShippingAddress,
		BillingAddress:    dto.BillingAddress,
		Currency:          dto.Currency,
		PaymentMethod:     dto.PaymentMethod,
		EstimatedDelivery: dto.EstimatedDelivery.UTC(),
	}, items, order.Totals{
		Amount:         kernel.NewMoney(dto.Amount),
		Tax:            kernel.NewMoney(dto.Tax),
		Shipping:       kernel.NewMoney(dto.Shipping),
		TransactionFee: kernel.NewMoney(dto.TransactionFee),
	}, paymentStatus, fulfillmentStatus, dto.PaymentTransactionID, subOrderIDs, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}

func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	productID, err := pgconv.UUID(dto.ProductID)
	if err != nil {
		return nil, err
	}
	sellerID, err := pgconv.UUID(dto.SellerID)
	if err != nil {
		return nil, err
	}
	itemStatus, err := status.ParseItem(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(productID, sellerID,
		kernel.NewMoney(dto.UnitPrice), dto.Quantity, dto.TaxRate,
		kernel.NewMoney(dto.TaxAmount), kernel.NewMoney(dto.ShippingShare),
		dto.CancelledQuantity, itemStatus)
}
