// Package stripe implements ports.PaymentGateway on top of the Stripe API.
// Every call carries the idempotency key chosen by the caller, so a retried
// cancellation gets the earlier Stripe object back instead of moving money
// twice.
package stripe

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	stripeapi "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace/internal/adapters/out/stripe")

type refundAPI interface {
	New(params *stripeapi.RefundParams) (*stripeapi.Refund, error)
}

type transferReversalAPI interface {
	New(params *stripeapi.TransferReversalParams) (*stripeapi.TransferReversal, error)
}

// Clients lets tests replace the Stripe resource clients.
type Clients struct {
	Refunds           refundAPI
	TransferReversals transferReversalAPI
}

type Config struct {
	APIKey   string
	Backends *stripeapi.Backends
	Clients  *Clients
}

// Gateway is the Stripe payment gateway.
type Gateway struct {
	refunds   refundAPI
	reversals transferReversalAPI
	logger    *zap.Logger
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func NewGateway(cfg Config, logger *zap.Logger) (*Gateway, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.Clients == nil {
		return nil, errors.New("stripe: api key is required")
	}

	var clients Clients
	if cfg.Clients != nil {
		clients = *cfg.Clients
	} else {
		sc := client.New(apiKey, cfg.Backends)
		clients = Clients{Refunds: sc.Refunds, TransferReversals: sc.TransferReversals}
	}
	if clients.Refunds == nil || clients.TransferReversals == nil {
		return nil, errors.New("stripe: incomplete client configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		refunds:   clients.Refunds,
		reversals: clients.TransferReversals,
		logger:    logger.With(zap.String("component", "stripe_gateway")),
	}, nil
}

// Refund refunds part of a payment intent.
func (g *Gateway) Refund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	ctx, span := tracer.Start(ctx, "stripe.refund", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.reference", req.PaymentReference),
		attribute.String("payment.amount", req.Amount.String()),
		attribute.String("payment.currency", req.Currency),
	)

	if strings.TrimSpace(req.PaymentReference) == "" {
		return ports.RefundResult{}, fail(span, errors.New("stripe: payment reference is required"))
	}

	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(req.PaymentReference),
		Amount:        stripeapi.Int64(req.Amount.Cents()),
		Reason:        stripeapi.String(string(stripeapi.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		params.AddMetadata("cancellation_reason", reason)
	}

	refund, err := g.refunds.New(params)
	if err != nil {
		g.logger.Warn("refund rejected",
			zap.String("payment_intent", req.PaymentReference),
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Error(err))
		return ports.RefundResult{}, fail(span, err)
	}
	if refund.Status == stripeapi.RefundStatusFailed || refund.Status == stripeapi.RefundStatusCanceled {
		return ports.RefundResult{}, fail(span, errors.New("stripe: refund "+refund.ID+" is "+string(refund.Status)))
	}

	span.SetAttributes(attribute.String("stripe.refund_id", refund.ID))
	g.logger.Info("refund issued",
		zap.String("refund_id", refund.ID),
		zap.String("payment_intent", req.PaymentReference),
		zap.Int64("amount", refund.Amount))

	return ports.RefundResult{
		RefundID:       refund.ID,
		RefundedAmount: kernel.MoneyFromCents(refund.Amount),
	}, nil
}

// ReverseTransfer reverses part of a transfer to a connected account.
func (g *Gateway) ReverseTransfer(ctx context.Context, req ports.TransferReversalRequest) error {
	ctx, span := tracer.Start(ctx, "stripe.transfer_reversal", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("transfer.reference", req.TransferReference),
		attribute.String("transfer.amount", req.Amount.String()),
	)

	if strings.TrimSpace(req.TransferReference) == "" {
		return fail(span, errors.New("stripe: transfer reference is required"))
	}

	params := &stripeapi.TransferReversalParams{
		ID:     stripeapi.String(req.TransferReference),
		Amount: stripeapi.Int64(req.Amount.Cents()),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	reversal, err := g.reversals.New(params)
	if err != nil {
		g.logger.Warn("transfer reversal rejected",
			zap.String("transfer", req.TransferReference),
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Error(err))
		return fail(span, err)
	}

	g.logger.Info("transfer reversed",
		zap.String("reversal_id", reversal.ID),
		zap.String("transfer", req.TransferReference),
		zap.Int64("amount", reversal.Amount))
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
