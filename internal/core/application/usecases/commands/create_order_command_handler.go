package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"go.uber.org/zap"
)

// CreateOrderCommandHandler turns a checkout into one order and one sub-order
// per seller inside a single transaction. Stock is read with row locks, so
// two checkouts of the same product serialize and cannot oversell.
//
// Either everything is written (order, sub-orders, stock decrements,
// outbox notifications) or nothing is.
type CreateOrderCommandHandler struct {
	uowFactory  CheckoutUoWFactory
	partitioner services.SellerPartitioner
	fees        services.FeeAllocator
	estimator   services.DeliveryEstimator
	currency    string
	logger      *zap.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	estimator services.DeliveryEstimator,
	currency string,
	logger *zap.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		partitioner: services.NewSellerPartitioner(),
		fees:        services.NewFeeAllocator(),
		estimator:   estimator,
		currency:    currency,
		logger:      nopLogger(logger).With(zap.String("component", "create_order")),
	}
}

type sellerPlan struct {
	draft     services.SellerDraft
	breakdown services.FeeBreakdown
}

// Handle creates the order and returns its identifier.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	buyer, err := uow.BuyerRepository().Get(ctx, command.BuyerID())
	if err != nil {
		return kernel.UUID{}, persistence("get buyer", err)
	}

	inventory := uow.InventoryRepository()
	for _, item := range byProduct(command.Items()) {
		stock, stockErr := inventory.StockForUpdate(ctx, item.ProductID)
		if stockErr != nil {
			return kernel.UUID{}, persistence("read stock", stockErr)
		}
		if item.Quantity > stock {
			return kernel.UUID{}, errs.NewValueIsOutOfRangeErrorWithCause(
				"quantity", item.Quantity, 1, stock,
				fmt.Errorf("insufficient stock for product %s", item.ProductID),
			)
		}
	}

	plans, err := h.plan(ctx, uow, command, now)
	if err != nil {
		return kernel.UUID{}, err
	}

	orderID := kernel.NewUUID()
	newOrder, err := h.buildOrder(orderID, buyer.StoreID(), command, plans, now)
	if err != nil {
		return kernel.UUID{}, err
	}

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return kernel.UUID{}, persistence("add order", err)
	}

	for _, item := range command.Items() {
		if err = inventory.Decrement(ctx, item.ProductID, item.Quantity); err != nil {
			return kernel.UUID{}, persistence("decrement stock", err)
		}
	}

	subRepo := uow.SubOrderRepository()
	subs := make([]*suborder.SubOrder, 0, len(plans))
	subIDs := make([]kernel.UUID, 0, len(plans))
	for _, p := range plans {
		sub, subErr := suborder.NewSubOrder(
			kernel.NewUUID(), orderID, p.draft.SellerID, command.BuyerID(),
			p.draft.ProductIDs(), p.breakdown.Totals(),
			suborder.Shipment{RateID: p.draft.Selection.RateID, Carrier: p.draft.Selection.Carrier},
			now,
		)
		if subErr != nil {
			return kernel.UUID{}, subErr
		}
		if subErr = subRepo.Add(ctx, sub); subErr != nil {
			return kernel.UUID{}, persistence("add sub-order", subErr)
		}
		subs = append(subs, sub)
		subIDs = append(subIDs, sub.ID())
	}

	if err = newOrder.AttachSubOrders(subIDs, now); err != nil {
		return kernel.UUID{}, err
	}
	if err = orderRepo.Update(ctx, newOrder); err != nil {
		return kernel.UUID{}, persistence("link sub-orders", err)
	}

	if err = h.enqueueNotifications(ctx, outbox{repo: uow.OutboxRepository(), now: now}, newOrder, subs); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, persistence("commit order", err)
	}

	h.logger.Info("order created",
		zap.String("order_id", orderID.String()),
		zap.Int("sub_orders", len(subs)),
		zap.String("amount", newOrder.Totals().Amount.String()),
	)
	return orderID, nil
}

// plan partitions the cart and allocates fees with each seller's terms.
func (h CreateOrderCommandHandler) plan(
	ctx context.Context,
	uow CheckoutUoW,
	command CreateOrderCommand,
	now time.Time,
) ([]sellerPlan, error) {
	lines := make([]services.CartLine, 0, len(command.Items()))
	for _, item := range command.Items() {
		lines = append(lines, services.CartLine{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			TaxRate:   item.TaxRate,
		})
	}

	selections := make(map[kernel.UUID]services.ShippingSelection, len(command.Options()))
	for _, o := range command.Options() {
		selections[o.SellerID] = services.ShippingSelection{
			RateID:         o.RateID,
			Carrier:        o.Carrier,
			DeliveryWindow: o.DeliveryWindow,
		}
	}

	drafts, err := h.partitioner.Partition(lines, command.ShippingFee(), selections)
	if err != nil {
		return nil, err
	}

	sellers := uow.SellerRepository()
	plans := make([]sellerPlan, 0, len(drafts))
	for _, d := range drafts {
		seller, sellerErr := sellers.Get(ctx, d.SellerID)
		if sellerErr != nil {
			return nil, persistence("get seller", sellerErr)
		}

		terms := seller.Terms()
		breakdown, feeErr := h.fees.Allocate(services.FeeInput{
			Subtotal: d.Subtotal,
			Tax:      d.Tax,
			Shipping: d.Shipping,
			Rate:     terms.EffectiveRate(now),
			GrossUp:  terms.GrossUp(),
		})
		if feeErr != nil {
			return nil, feeErr
		}
		plans = append(plans, sellerPlan{draft: d, breakdown: breakdown})
	}

	return plans, nil
}

func (h CreateOrderCommandHandler) buildOrder(
	orderID kernel.UUID,
	storeID *kernel.UUID,
	command CreateOrderCommand,
	plans []sellerPlan,
	now time.Time,
) (*order.Order, error) {
	lines := make(map[kernel.UUID]services.DraftLine)
	totals := order.Totals{
		Amount:         kernel.Zero(),
		Tax:            kernel.Zero(),
		Shipping:       kernel.Zero(),
		TransactionFee: kernel.Zero(),
	}
	var windows []string
	for _, p := range plans {
		for _, l := range p.draft.Lines {
			lines[l.ProductID] = l
		}
		totals.Amount = totals.Amount.Add(p.breakdown.CustomerTotal)
		totals.Tax = totals.Tax.Add(p.breakdown.Tax)
		totals.Shipping = totals.Shipping.Add(p.breakdown.Shipping)
		totals.TransactionFee = totals.TransactionFee.Add(p.breakdown.ServiceFee)
		if p.draft.Selection.DeliveryWindow != "" {
			windows = append(windows, p.draft.Selection.DeliveryWindow)
		}
	}

	items := make([]*order.Item, 0, len(command.Items()))
	for _, cartItem := range command.Items() {
		l := lines[cartItem.ProductID]
		item, err := order.NewItem(l.ProductID, l.SellerID, l.UnitPrice, l.Quantity, l.TaxRate, l.TaxAmount, l.ShippingShare)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.NewOrder(orderID, order.Checkout{
		BuyerID:           command.BuyerID(),
		StoreID:           storeID,
		ShippingAddress:   command.ShippingAddress(),
		BillingAddress:    command.BillingAddress(),
		Currency:          h.currency,
		PaymentMethod:     command.PaymentMethod(),
		EstimatedDelivery: h.estimator.Estimate(now, windows),
	}, items, totals, now)
}

func (h CreateOrderCommandHandler) enqueueNotifications(
	ctx context.Context,
	box outbox,
	o *order.Order,
	subs []*suborder.SubOrder,
) error {
	if err := box.enqueue(ctx, notification.Buyer, buyerRecipient(o), notification.EventOrderPlaced, notification.Payload{
		"orderId":           o.ID().String(),
		"amount":            o.Totals().Amount.String(),
		"currency":          o.Currency(),
		"estimatedDelivery": o.Checkout().EstimatedDelivery.Format(time.DateOnly),
	}); err != nil {
		return err
	}

	for _, sub := range subs {
		if err := box.enqueue(ctx, notification.Seller, sub.SellerID(), notification.EventSubOrderCreated, notification.Payload{
			"orderId":    o.ID().String(),
			"subOrderId": sub.ID().String(),
			"total":      sub.Totals().Total.String(),
			"sellerNet":  sub.Totals().SellerNet.String(),
			"currency":   o.Currency(),
		}); err != nil {
			return err
		}
	}
	return nil
}

// byProduct orders items by product id, the order in which stock rows are
// locked by every checkout.
func byProduct(items []CartItem) []CartItem {
	slices.SortFunc(items, func(a, b CartItem) int {
		return strings.Compare(a.ProductID.String(), b.ProductID.String())
	})
	return items
}
