// Package suborder provides the per-seller SubOrder aggregate. A checkout
// produces one SubOrder for every distinct seller in the cart; each carries
// its own fee split and moves through its own fulfillment lifecycle.
package suborder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via NewSubOrder constructor")

// Totals is the fee split of one seller's share of an order.
//
//	Total     = Subtotal + Tax + Shipping + ServiceFee
//	SellerNet = Subtotal - Commission, or Subtotal when fees are grossed up
type Totals struct {
	Subtotal   kernel.Money
	Tax        kernel.Money
	Shipping   kernel.Money
	Commission kernel.Money
	ServiceFee kernel.Money
	SellerNet  kernel.Money
	Total      kernel.Money
}

// Shipment holds the carrier facts chosen at checkout and filled in by
// the seller when the parcel leaves.
type Shipment struct {
	RateID         string
	Carrier        string
	TrackingNumber string
}

// SubOrder is the seller-facing partition of an order.
type SubOrder struct {
	id         kernel.UUID
	orderID    kernel.UUID
	sellerID   kernel.UUID
	buyerID    kernel.UUID
	productIDs []kernel.UUID
	totals     Totals
	shipment   Shipment

	fulfillmentStatus status.Fulfillment
	paymentStatus     status.Payment
	transferID        string
	refundIDs         []kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewSubOrder creates a pending, unpaid sub-order.
func NewSubOrder(
	id, orderID, sellerID, buyerID kernel.UUID,
	productIDs []kernel.UUID,
	totals Totals,
	shipment Shipment,
	now time.Time,
) (*SubOrder, error) {
	return RestoreSubOrder(id, orderID, sellerID, buyerID, productIDs, totals, shipment,
		status.Pending, status.PaymentPending, "", nil, now, now)
}

// RestoreSubOrder reconstructs a SubOrder from storage.
func RestoreSubOrder(
	id, orderID, sellerID, buyerID kernel.UUID,
	productIDs []kernel.UUID,
	totals Totals,
	shipment Shipment,
	fulfillmentStatus status.Fulfillment,
	paymentStatus status.Payment,
	transferID string,
	refundIDs []kernel.UUID,
	createdAt, updatedAt time.Time,
) (*SubOrder, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		sellerID.Validate(),
		buyerID.Validate(),
		fulfillmentStatus.Validate(),
		paymentStatus.Validate(),
		validateTotals(totals),
	); err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("product ids")
	}

	return &SubOrder{
		id:                id,
		orderID:           orderID,
		sellerID:          sellerID,
		buyerID:           buyerID,
		productIDs:        productIDs,
		totals:            totals,
		shipment:          shipment,
		fulfillmentStatus: fulfillmentStatus,
		paymentStatus:     paymentStatus,
		transferID:        transferID,
		refundIDs:         refundIDs,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func validateTotals(t Totals) error {
	names := []string{"subtotal", "tax", "shipping", "commission", "service fee", "seller net", "total"}
	amounts := []kernel.Money{t.Subtotal, t.Tax, t.Shipping, t.Commission, t.ServiceFee, t.SellerNet, t.Total}

	var problems []error
	for i, m := range amounts {
		if m.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(names[i], fmt.Errorf("%s is negative", m)))
		}
	}
	return errors.Join(problems...)
}

func (s *SubOrder) Validate() error {
	if s == nil {
		return ErrSubOrderIsNotConstructed
	}
	return s.guard.Validate(ErrSubOrderIsNotConstructed)
}

func (s *SubOrder) ID() kernel.UUID                       { return s.id }
func (s *SubOrder) OrderID() kernel.UUID                  { return s.orderID }
func (s *SubOrder) SellerID() kernel.UUID                 { return s.sellerID }
func (s *SubOrder) BuyerID() kernel.UUID                  { return s.buyerID }
func (s *SubOrder) Totals() Totals                        { return s.totals }
func (s *SubOrder) Shipment() Shipment                    { return s.shipment }
func (s *SubOrder) FulfillmentStatus() status.Fulfillment { return s.fulfillmentStatus }
func (s *SubOrder) PaymentStatus() status.Payment         { return s.paymentStatus }
func (s *SubOrder) TransferID() string                    { return s.transferID }
func (s *SubOrder) HasPayout() bool                       { return s.transferID != "" }
func (s *SubOrder) CreatedAt() time.Time                  { return s.createdAt }
func (s *SubOrder) UpdatedAt() time.Time                  { return s.updatedAt }

func (s *SubOrder) ProductIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), s.productIDs...)
}

func (s *SubOrder) RefundIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), s.refundIDs...)
}

// AuthorizeSeller accepts only the seller the sub-order belongs to.
func (s *SubOrder) AuthorizeSeller(callerID kernel.UUID) error {
	if !s.sellerID.IsEqual(callerID) {
		return errs.NewUnauthorizedError(callerID.String(), "sub-order "+s.id.String())
	}
	return nil
}

// Transition applies a fulfillment move requested by the seller. Shipping
// requires a tracking number, either supplied now or recorded earlier, and
// a collected payment. Nothing is mutated when the move is rejected.
func (s *SubOrder) Transition(next status.Fulfillment, trackingNumber string, now time.Time) error {
	if err := s.fulfillmentStatus.CanTransitionTo(next); err != nil {
		return err
	}

	tracking := strings.TrimSpace(trackingNumber)
	if next == status.Shipped {
		if tracking == "" {
			tracking = s.shipment.TrackingNumber
		}
		if tracking == "" {
			return errs.NewValueIsRequiredError("tracking number")
		}
		if !s.paymentStatus.IsPaid() {
			return errs.NewConflictError("sub-order "+s.id.String(), fmt.Sprintf("cannot ship while payment is %s", s.paymentStatus))
		}
	}

	if tracking != "" {
		s.shipment.TrackingNumber = tracking
	}
	s.fulfillmentStatus = next
	s.updatedAt = now
	return nil
}

// EnsureCancellable rejects sub-orders that have progressed past Pending.
func (s *SubOrder) EnsureCancellable() error {
	if !s.fulfillmentStatus.IsCancellable() {
		return errs.NewConflictError("sub-order "+s.id.String(), fmt.Sprintf("cannot cancel in status %s", s.fulfillmentStatus))
	}
	return nil
}

// ApplyItemCancellation mirrors the statuses of the seller's items after a
// cancellation and links the refunds that paid for it.
func (s *SubOrder) ApplyItemCancellation(items []status.Item, now time.Time, refundIDs ...kernel.UUID) {
	s.fulfillmentStatus = status.MirrorItems(s.fulfillmentStatus, items)
	s.refundIDs = append(s.refundIDs, refundIDs...)
	if s.fulfillmentStatus == status.Cancelled && s.paymentStatus.IsPaid() {
		s.paymentStatus = status.PaymentRefunded
	}
	s.updatedAt = now
}

// ConfirmPayment marks the sub-order's share as collected.
func (s *SubOrder) ConfirmPayment(now time.Time) error {
	next, err := s.paymentStatus.Confirm()
	if err != nil {
		return err
	}
	s.paymentStatus = next
	s.updatedAt = now
	return nil
}

// RecordPayout stores the transfer that paid the seller. Recording the same
// transfer twice is a no-op.
func (s *SubOrder) RecordPayout(transferID string, now time.Time) error {
	transferID = strings.TrimSpace(transferID)
	if transferID == "" {
		return errs.NewValueIsRequiredError("transfer id")
	}
	if s.transferID == transferID {
		return nil
	}
	if s.transferID != "" {
		return errs.NewConflictError("sub-order "+s.id.String(), "payout already recorded")
	}
	if !s.paymentStatus.IsPaid() {
		return errs.NewConflictError("sub-order "+s.id.String(), fmt.Sprintf("cannot pay out while payment is %s", s.paymentStatus))
	}
	s.transferID = transferID
	s.updatedAt = now
	return nil
}
