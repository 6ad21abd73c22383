package order

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

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Checkout carries the buyer-supplied facts of an order that never change
// after creation.
type Checkout struct {
	BuyerID           kernel.UUID
	StoreID           *kernel.UUID
	ShippingAddress   kernel.Address
	BillingAddress    kernel.Address
	Currency          string
	PaymentMethod     string
	EstimatedDelivery time.Time
}

// Totals are the customer-facing amounts of an order. Amount is what the
// buyer pays: the sum of every sub-order's customer total.
type Totals struct {
	Amount         kernel.Money
	Tax            kernel.Money
	Shipping       kernel.Money
	TransactionFee kernel.Money
}

// CancelledLine records one cancellation applied to an item: the cancelled
// quantity moved from FromQuantity to ToQuantity.
type CancelledLine struct {
	ProductID    kernel.UUID
	SellerID     kernel.UUID
	FromQuantity int
	ToQuantity   int
}

// Quantity is the number of units cancelled by this line.
func (l CancelledLine) Quantity() int {
	return l.ToQuantity - l.FromQuantity
}

// Order is the buyer-facing aggregate root of a checkout.
//
// Order follows these invariants:
//   - Must have a valid identifier and buyer
//   - Holds at least one item, at most one per product
//   - Sub-order links are attached once
//   - Fulfillment status is a projection of the sub-orders' statuses
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id       kernel.UUID
	checkout Checkout
	items    []*Item
	totals   Totals

	paymentStatus        status.Payment
	fulfillmentStatus    status.Fulfillment
	paymentTransactionID string

	subOrderIDs []kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a pending, unpaid order. Sub-order links are attached
// later with AttachSubOrders once the sub-orders have identifiers.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), checkout, items, totals, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, checkout Checkout, items []*Item, totals Totals, now time.Time) (*Order, error) {
	return RestoreOrder(id, checkout, items, totals, status.PaymentPending, status.Pending, "", nil, now, now)
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
func RestoreOrder(
	id kernel.UUID,
	checkout Checkout,
	items []*Item,
	totals Totals,
	paymentStatus status.Payment,
	fulfillmentStatus status.Fulfillment,
	paymentTransactionID string,
	subOrderIDs []kernel.UUID,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		paymentTransactionID: paymentTransactionID,
		subOrderIDs:          subOrderIDs,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCheckout(checkout),
		o.setItems(items),
		o.setTotals(totals),
		paymentStatus.Validate(),
		fulfillmentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.paymentStatus = paymentStatus
	o.fulfillmentStatus = fulfillmentStatus
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                       { return o.id }
func (o *Order) BuyerID() kernel.UUID                  { return o.checkout.BuyerID }
func (o *Order) StoreID() *kernel.UUID                 { return o.checkout.StoreID }
func (o *Order) Checkout() Checkout                    { return o.checkout }
func (o *Order) Currency() string                      { return o.checkout.Currency }
func (o *Order) Totals() Totals                        { return o.totals }
func (o *Order) PaymentStatus() status.Payment         { return o.paymentStatus }
func (o *Order) FulfillmentStatus() status.Fulfillment { return o.fulfillmentStatus }
func (o *Order) PaymentTransactionID() string          { return o.paymentTransactionID }
func (o *Order) CreatedAt() time.Time                  { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                  { return o.updatedAt }
func (o *Order) IsPaid() bool                          { return o.paymentStatus.IsPaid() }

// Items returns a copy of the item slice; the items themselves are shared.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) SubOrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(o.subOrderIDs))
	copy(ids, o.subOrderIDs)
	return ids
}

// Item finds the line for productID.
func (o *Order) Item(productID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.productID.IsEqual(productID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order item", productID.String())
}

// ItemsOfSeller returns the lines sold by sellerID in cart order.
func (o *Order) ItemsOfSeller(sellerID kernel.UUID) []*Item {
	var items []*Item
	for _, item := range o.items {
		if item.sellerID.IsEqual(sellerID) {
			items = append(items, item)
		}
	}
	return items
}

// ItemStatusesOfSeller returns the statuses of sellerID's lines.
func (o *Order) ItemStatusesOfSeller(sellerID kernel.UUID) []status.Item {
	items := o.ItemsOfSeller(sellerID)
	statuses := make([]status.Item, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, item.status)
	}
	return statuses
}

// AttachSubOrders links the sub-orders created for this order. Links are
// fixed once attached.
func (o *Order) AttachSubOrders(ids []kernel.UUID, now time.Time) error {
	if len(o.subOrderIDs) > 0 {
		return errs.NewConflictError("order "+o.id.String(), "sub-orders already attached")
	}
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("sub-order ids")
	}
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	o.subOrderIDs = append([]kernel.UUID(nil), ids...)
	o.updatedAt = now
	return nil
}

// AuthorizeCancellation accepts the buyer, or the store the buyer acts for.
func (o *Order) AuthorizeCancellation(callerID kernel.UUID) error {
	if o.checkout.BuyerID.IsEqual(callerID) {
		return nil
	}
	if o.checkout.StoreID != nil && o.checkout.StoreID.IsEqual(callerID) {
		return nil
	}
	return errs.NewUnauthorizedError(callerID.String(), "order "+o.id.String())
}

// EnsureCancellable rejects orders whose fulfillment has moved past the
// point where items can be withdrawn.
func (o *Order) EnsureCancellable() error {
	if o.fulfillmentStatus.IsCancelled() {
		return errs.NewConflictError("order "+o.id.String(), "already cancelled")
	}
	if !o.fulfillmentStatus.IsCancellable() {
		return errs.NewConflictError("order "+o.id.String(), fmt.Sprintf("cannot cancel in status %s", o.fulfillmentStatus))
	}
	return nil
}

// CancelItem cancels quantity more units of productID.
func (o *Order) CancelItem(productID kernel.UUID, quantity int, now time.Time) (CancelledLine, error) {
	item, err := o.Item(productID)
	if err != nil {
		return CancelledLine{}, err
	}

	from := item.cancelledQuantity
	if err = item.cancel(quantity); err != nil {
		return CancelledLine{}, err
	}

	o.updatedAt = now
	return CancelledLine{
		ProductID:    item.productID,
		SellerID:     item.sellerID,
		FromQuantity: from,
		ToQuantity:   item.cancelledQuantity,
	}, nil
}

// OutstandingLines describes, without mutating anything, what CancelAll
// would cancel.
func (o *Order) OutstandingLines() []CancelledLine {
	lines := make([]CancelledLine, 0, len(o.items))
	for _, item := range o.items {
		if item.Remaining() == 0 {
			continue
		}
		lines = append(lines, CancelledLine{
			ProductID:    item.productID,
			SellerID:     item.sellerID,
			FromQuantity: item.cancelledQuantity,
			ToQuantity:   item.quantity,
		})
	}
	return lines
}

// CancelAll cancels the remaining quantity of every item.
func (o *Order) CancelAll(now time.Time) []CancelledLine {
	lines := o.OutstandingLines()
	for _, item := range o.items {
		if item.Remaining() > 0 {
			_ = item.cancel(item.Remaining())
		}
	}
	o.updatedAt = now
	return lines
}

// IsFullyCancelled reports whether every unit of every item was cancelled.
func (o *Order) IsFullyCancelled() bool {
	for _, item := range o.items {
		if item.Remaining() > 0 {
			return false
		}
	}
	return true
}

// ProjectFulfillment recomputes the fulfillment status from the statuses of
// all sub-orders. This is the only way the status changes.
func (o *Order) ProjectFulfillment(children []status.Fulfillment, now time.Time) {
	projected := status.Project(children)
	if projected != o.fulfillmentStatus {
		o.fulfillmentStatus = projected
		o.updatedAt = now
	}
}

// ConfirmPayment records the gateway transaction that collected the payment.
func (o *Order) ConfirmPayment(transactionID string, now time.Time) error {
	if strings.TrimSpace(transactionID) == "" {
		return errs.NewValueIsRequiredError("transaction id")
	}

	next, err := o.paymentStatus.Confirm()
	if err != nil {
		return err
	}

	o.paymentStatus = next
	o.paymentTransactionID = transactionID
	o.updatedAt = now
	return nil
}

// SettleRefunds marks a paid order Refunded once nothing is left to refund.
func (o *Order) SettleRefunds(now time.Time) {
	if !o.IsPaid() || !o.IsFullyCancelled() {
		return
	}
	o.paymentStatus = status.PaymentRefunded
	o.updatedAt = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCheckout(checkout Checkout) error {
	if err := errors.Join(
		checkout.BuyerID.Validate(),
		checkout.ShippingAddress.Validate("shippingAddress"),
		checkout.BillingAddress.Validate("billingAddress"),
	); err != nil {
		return err
	}
	if checkout.StoreID != nil {
		if err := checkout.StoreID.Validate(); err != nil {
			return err
		}
	}
	if len(checkout.Currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", checkout.Currency))
	}
	if strings.TrimSpace(checkout.PaymentMethod) == "" {
		return errs.NewValueIsRequiredError("payment method")
	}
	o.checkout = checkout
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if item == nil {
			return errs.NewValueIsRequiredError("item")
		}
		if _, dup := seen[item.productID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("product %s appears twice", item.productID))
		}
		seen[item.productID] = struct{}{}
	}
	o.items = items
	return nil
}

func (o *Order) setTotals(totals Totals) error {
	if err := errors.Join(
		nonNegative("amount", totals.Amount),
		nonNegative("tax", totals.Tax),
		nonNegative("shipping", totals.Shipping),
		nonNegative("transaction fee", totals.TransactionFee),
	); err != nil {
		return err
	}
	o.totals = totals
	return nil
}
