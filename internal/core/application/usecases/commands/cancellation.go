package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const paymentGatewayService = "payment gateway"

// gatewayRefund is the money covering one cancelled line: credits left by
// earlier attempts plus whatever the gateway was asked for now. draws must
// be claimed in the transaction that records the cancellation.
type gatewayRefund struct {
	line      order.CancelledLine
	subOrder  *suborder.SubOrder
	amount    kernel.Money
	gatewayID string
	draws     []refund.Draw
}

func (r gatewayRefund) isRecorded() bool {
	return r.gatewayID != ""
}

// claim draws down every credit the refund used.
func (r gatewayRefund) claim(ctx context.Context, journal ports.RefundJournal) error {
	for _, d := range r.draws {
		if err := journal.Claim(ctx, d); err != nil {
			return persistence("claim refund credit", err)
		}
	}
	return nil
}

func subOrderOfSeller(subs []*suborder.SubOrder, sellerID kernel.UUID) (*suborder.SubOrder, error) {
	for _, s := range subs {
		if s.SellerID().IsEqual(sellerID) {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundErrorWithCause("sub-order", sellerID,
		fmt.Errorf("no sub-order for seller %s", sellerID))
}

// refundLine returns the money of one cancelled line to the buyer and, when
// the seller was already paid out, claws the seller's share back.
//
// Credits the journal holds for the line are used first. Whatever the
// gateway confirms is journaled at once, so it is never lost when the
// caller's transaction rolls back.
func refundLine(
	ctx context.Context,
	gateway ports.PaymentGateway,
	journal ports.RefundJournal,
	calc services.RefundCalculator,
	o *order.Order,
	sub *suborder.SubOrder,
	line order.CancelledLine,
	reason string,
	now time.Time,
) (gatewayRefund, error) {
	item, err := o.Item(line.ProductID)
	if err != nil {
		return gatewayRefund{}, err
	}

	owed := calc.ItemRefund(item, line)
	reversal := kernel.Zero()
	if sub.HasPayout() {
		if r := calc.PayoutReversal(sub, item, line); r.IsPositive() {
			reversal = r
		}
	}

	credits, err := journal.Available(ctx, o.ID(), line.ProductID)
	if err != nil {
		return gatewayRefund{}, persistence("read refund credits", err)
	}
	draws := refund.DrawCredits(credits, owed, reversal)
	creditedRefund, creditedReversal := refund.Drawn(draws)

	if owed.Sub(creditedRefund).IsPositive() || reversal.Sub(creditedReversal).IsPositive() {
		fallbackID := sub.TransferID()
		if len(draws) > 0 {
			fallbackID = draws[0].GatewayRefundID
		}
		fresh, chargeErr := chargeGateway(ctx, gateway, journal, o, sub, line, reason, now, gatewayCharge{
			refund:           owed.Sub(creditedRefund),
			reversal:         reversal.Sub(creditedReversal),
			creditedRefund:   creditedRefund,
			creditedReversal: creditedReversal,
			fallbackID:       fallbackID,
		})
		if chargeErr != nil {
			return gatewayRefund{}, chargeErr
		}
		draws = append(draws, fresh)
	}

	if len(draws) == 0 {
		return gatewayRefund{line: line, subOrder: sub, amount: kernel.Zero()}, nil
	}
	refunded, _ := refund.Drawn(draws)
	return gatewayRefund{
		line:      line,
		subOrder:  sub,
		amount:    refunded,
		gatewayID: draws[len(draws)-1].GatewayRefundID,
		draws:     draws,
	}, nil
}

type gatewayCharge struct {
	refund           kernel.Money
	reversal         kernel.Money
	creditedRefund   kernel.Money
	creditedReversal kernel.Money
	fallbackID       string
}

// chargeGateway asks the gateway for what credits did not cover and
// journals the outcome. A refund confirmed before a failed reversal is
// journaled too.
func chargeGateway(
	ctx context.Context,
	gateway ports.PaymentGateway,
	journal ports.RefundJournal,
	o *order.Order,
	sub *suborder.SubOrder,
	line order.CancelledLine,
	reason string,
	now time.Time,
	charge gatewayCharge,
) (refund.Draw, error) {
	gatewayID, refunded := charge.fallbackID, kernel.Zero()
	if charge.refund.IsPositive() {
		result, err := gateway.Refund(ctx, ports.RefundRequest{
			PaymentReference: o.PaymentTransactionID(),
			Amount:           charge.refund,
			Currency:         o.Currency(),
			Reason:           reason,
			IdempotencyKey:   services.NetOfCredit(services.RefundIdempotencyKey(o.ID(), line), charge.creditedRefund),
		})
		if err != nil {
			return refund.Draw{}, errs.NewExternalServiceError(paymentGatewayService, "refund", err)
		}
		if !result.RefundedAmount.IsPositive() {
			return refund.Draw{}, errs.NewExternalServiceError(paymentGatewayService, "refund",
				fmt.Errorf("refund %q confirmed no amount", result.RefundID))
		}
		gatewayID, refunded = result.RefundID, result.RefundedAmount
	}

	reversed := kernel.Zero()
	var reversalErr error
	if charge.reversal.IsPositive() {
		reversalErr = gateway.ReverseTransfer(ctx, ports.TransferReversalRequest{
			TransferReference: sub.TransferID(),
			Amount:            charge.reversal,
			Currency:          o.Currency(),
			IdempotencyKey:    services.NetOfCredit(services.ReversalIdempotencyKey(o.ID(), line), charge.creditedReversal),
		})
		if reversalErr == nil {
			reversed = charge.reversal
		} else {
			reversalErr = errs.NewExternalServiceError(paymentGatewayService, "reverse transfer", reversalErr)
		}
	}

	if !refunded.IsPositive() && !reversed.IsPositive() {
		return refund.Draw{}, reversalErr
	}

	credit, err := refund.NewCredit(kernel.NewUUID(), o.ID(), line.ProductID, gatewayID, refunded, reversed, now)
	if err != nil {
		return refund.Draw{}, errors.Join(err, reversalErr)
	}
	if err = journal.Record(ctx, credit); err != nil {
		return refund.Draw{}, errors.Join(persistence("record refund credit", err), reversalErr)
	}
	if reversalErr != nil {
		return refund.Draw{}, reversalErr
	}

	return refund.Draw{
		CreditID:        credit.ID(),
		GatewayRefundID: gatewayID,
		Refund:          refunded,
		Reversal:        reversed,
	}, nil
}
