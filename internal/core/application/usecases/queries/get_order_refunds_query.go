package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderRefundsQueryIsNotConstructed = errors.New(
	"GetOrderRefundsQuery must be created via NewGetOrderRefundsQuery constructor",
)

// GetOrderRefundsQuery lists the refunds issued for an order. The buyer and
// the buyer's store see every refund; a seller sees the refunds of their own
// sub-order.
type GetOrderRefundsQuery struct {
	callerID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderRefundsQuery(callerID, orderID kernel.UUID) (GetOrderRefundsQuery, error) {
	if err := errors.Join(callerID.Validate(), orderID.Validate()); err != nil {
		return GetOrderRefundsQuery{}, err
	}
	return GetOrderRefundsQuery{callerID: callerID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderRefundsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderRefundsQueryIsNotConstructed)
}

func (q GetOrderRefundsQuery) CallerID() kernel.UUID { return q.callerID }
func (q GetOrderRefundsQuery) OrderID() kernel.UUID  { return q.orderID }

type GetOrderRefundsQueryResponse struct {
	ID              kernel.UUID  `json:"id"`
	SubOrderID      kernel.UUID  `json:"subOrderId"`
	ProductID       kernel.UUID  `json:"productId"`
	Amount          kernel.Money `json:"amount"`
	Currency        string       `json:"currency"`
	Quantity        int          `json:"quantity"`
	Reason          string       `json:"reason,omitempty"`
	GatewayRefundID string       `json:"gatewayRefundId"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
}
