package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// RefundRequest asks the gateway to return money from a collected payment.
// IdempotencyKey must be deterministic for a given cancellation step so a
// retried request never refunds twice.
type RefundRequest struct {
	PaymentReference string
	Amount           kernel.Money
	Currency         string
	Reason           string
	IdempotencyKey   string
}

// RefundResult is the gateway's confirmation of a refund.
type RefundResult struct {
	RefundID       string
	RefundedAmount kernel.Money
}

// TransferReversalRequest claws back part of a payout already sent to a seller.
type TransferReversalRequest struct {
	TransferReference string
	Amount            kernel.Money
	Currency          string
	IdempotencyKey    string
}

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	Refund(ctx context.Context, req RefundRequest) (RefundResult, error)
	ReverseTransfer(ctx context.Context, req TransferReversalRequest) error
}
