// Package queries contains read operations for retrieving system state.
// Queries read the tables directly and return read models shaped for the
// HTTP adapter; they never load aggregates.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order with its items and sub-orders. The buyer,
// the buyer's store and every seller with a sub-order may read it.
//
// Example:
//
//	query, err := NewGetOrderQuery(callerID, orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	callerID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(callerID, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(callerID.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{callerID: callerID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) CallerID() kernel.UUID { return q.callerID }
func (q GetOrderQuery) OrderID() kernel.UUID  { return q.orderID }

// GetOrderQueryResponse is the read model of an order.
type GetOrderQueryResponse struct {
	ID                   kernel.UUID     `json:"id"`
	BuyerID              kernel.UUID     `json:"buyerId"`
	StoreID              *kernel.UUID    `json:"storeId,omitempty"`
	ShippingAddress      kernel.Address  `json:"shippingAddress"`
	Currency             string          `json:"currency"`
	PaymentMethod        string          `json:"paymentMethod"`
	PaymentStatus        string          `json:"paymentStatus"`
	PaymentTransactionID string          `json:"paymentTransactionId,omitempty"`
	FulfillmentStatus    string          `json:"fulfillmentStatus"`
	EstimatedDelivery    string          `json:"estimatedDelivery"`
	Amount               kernel.Money    `json:"amount"`
	Tax                  kernel.Money    `json:"tax"`
	Shipping             kernel.Money    `json:"shipping"`
	TransactionFee       kernel.Money    `json:"transactionFee"`
	Items                []OrderItemView `json:"items"`
	SubOrders            []SubOrderView  `json:"subOrders"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type OrderItemView struct {
	ProductID         kernel.UUID  `json:"productId"`
	SellerID          kernel.UUID  `json:"sellerId"`
	UnitPrice         kernel.Money `json:"unitPrice"`
	Quantity          int          `json:"quantity"`
	CancelledQuantity int          `json:"cancelledQuantity"`
	TaxAmount         kernel.Money `json:"taxAmount"`
	ShippingShare     kernel.Money `json:"shippingShare"`
	Status            string       `json:"status"`
}

type SubOrderView struct {
	ID                kernel.UUID  `json:"id"`
	SellerID          kernel.UUID  `json:"sellerId"`
	FulfillmentStatus string       `json:"fulfillmentStatus"`
	PaymentStatus     string       `json:"paymentStatus"`
	Subtotal          kernel.Money `json:"subtotal"`
	Tax               kernel.Money `json:"tax"`
	Shipping          kernel.Money `json:"shipping"`
	Commission        kernel.Money `json:"commission"`
	ServiceFee        kernel.Money `json:"serviceFee"`
	SellerNet         kernel.Money `json:"sellerNet"`
	Total             kernel.Money `json:"total"`
	Carrier           string       `json:"carrier"`
	TrackingNumber    string       `json:"trackingNumber,omitempty"`
}
