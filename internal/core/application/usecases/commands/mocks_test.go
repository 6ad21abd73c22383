package commands_test

import (
	"context"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/core/domain/model/suborder"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockSubOrderRepository struct{ mock.Mock }

func (m *MockSubOrderRepository) Add(ctx context.Context, s *suborder.SubOrder) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubOrderRepository) Update(ctx context.Context, s *suborder.SubOrder) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*suborder.SubOrder)
	return s, args.Error(1)
}

func (m *MockSubOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*suborder.SubOrder, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*suborder.SubOrder)
	return s, args.Error(1)
}

func (m *MockSubOrderRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).([]*suborder.SubOrder)
	return s, args.Error(1)
}

func (m *MockSubOrderRepository) ListByOrderForUpdate(ctx context.Context, orderID kernel.UUID) ([]*suborder.SubOrder, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).([]*suborder.SubOrder)
	return s, args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRefundRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).([]*refund.Refund)
	return r, args.Error(1)
}

type MockRefundJournal struct{ mock.Mock }

func (m *MockRefundJournal) Record(ctx context.Context, c *refund.Credit) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRefundJournal) Available(ctx context.Context, orderID, productID kernel.UUID) ([]*refund.Credit, error) {
	args := m.Called(ctx, orderID, productID)
	c, _ := args.Get(0).([]*refund.Credit)
	return c, args.Error(1)
}

func (m *MockRefundJournal) Claim(ctx context.Context, d refund.Draw) error {
	return m.Called(ctx, d).Error(0)
}

// expectEmpty starts every line with no credits.
func (m *MockRefundJournal) expectEmpty() {
	m.On("Available", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
}

// expectRecords accepts credits and keeps them.
func (m *MockRefundJournal) expectRecords() *[]*refund.Credit {
	var recorded []*refund.Credit
	m.On("Record", mock.Anything, mock.AnythingOfType("*refund.Credit")).
		Run(func(args mock.Arguments) { recorded = append(recorded, args.Get(1).(*refund.Credit)) }).
		Return(nil)
	return &recorded
}

// memoryJournal is a working journal for sequences of cancellations.
type memoryJournal struct {
	credits []*refund.Credit
}

func (j *memoryJournal) Record(_ context.Context, c *refund.Credit) error {
	j.credits = append(j.credits, c)
	return nil
}

func (j *memoryJournal) Available(_ context.Context, orderID, productID kernel.UUID) ([]*refund.Credit, error) {
	var out []*refund.Credit
	for _, c := range j.credits {
		if c.OrderID().IsEqual(orderID) && c.ProductID().IsEqual(productID) && !c.IsSpent() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (j *memoryJournal) Claim(_ context.Context, d refund.Draw) error {
	for i, c := range j.credits {
		if !c.ID().IsEqual(d.CreditID) {
			continue
		}
		if c.Refund().Cmp(d.Refund) < 0 || c.Reversal().Cmp(d.Reversal) < 0 {
			return errs.NewConflictError("refund credit", "overdrawn")
		}
		left, err := refund.NewCredit(c.ID(), c.OrderID(), c.ProductID(), c.GatewayRefundID(),
			c.Refund().Sub(d.Refund), c.Reversal().Sub(d.Reversal), c.CreatedAt())
		if err != nil {
			return err
		}
		j.credits[i] = left
		return nil
	}
	return errs.NewObjectNotFoundError("refund credit", d.CreditID.String())
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) StockForUpdate(ctx context.Context, productID kernel.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) Decrement(ctx context.Context, productID kernel.UUID, quantity int) error {
	return m.Called(ctx, productID, quantity).Error(0)
}

func (m *MockInventoryRepository) Increment(ctx context.Context, productID kernel.UUID, quantity int) error {
	return m.Called(ctx, productID, quantity).Error(0)
}

type MockBuyerRepository struct{ mock.Mock }

func (m *MockBuyerRepository) Get(ctx context.Context, id kernel.UUID) (*account.Buyer, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*account.Buyer)
	return b, args.Error(1)
}

type MockSellerRepository struct{ mock.Mock }

func (m *MockSellerRepository) Get(ctx context.Context, id kernel.UUID) (*account.Seller, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*account.Seller)
	return s, args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockOutboxRepository) Update(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockOutboxRepository) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	n, _ := args.Get(0).([]*notification.Notification)
	return n, args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Refund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(ports.RefundRequest) ports.RefundResult); ok {
		return fn(req), args.Error(1)
	}
	return args.Get(0).(ports.RefundResult), args.Error(1)
}

// refunded confirms the requested amount in full under id.
func refunded(id string) func(ports.RefundRequest) ports.RefundResult {
	return func(req ports.RefundRequest) ports.RefundResult {
		return ports.RefundResult{RefundID: id, RefundedAmount: req.Amount}
	}
}

func (m *MockPaymentGateway) ReverseTransfer(ctx context.Context, req ports.TransferReversalRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) NotifyBuyer(ctx context.Context, buyerID kernel.UUID, event string, payload notification.Payload) error {
	return m.Called(ctx, buyerID, event, payload).Error(0)
}

func (m *MockDispatcher) NotifySeller(ctx context.Context, sellerID kernel.UUID, event string, payload notification.Payload) error {
	return m.Called(ctx, sellerID, event, payload).Error(0)
}

// MockUoW records the transaction lifecycle; repositories are plain fields
// so tests only set expectations on the calls that matter.
type MockUoW struct {
	mock.Mock

	orders    *MockOrderRepository
	subOrders *MockSubOrderRepository
	refunds   *MockRefundRepository
	journal   *MockRefundJournal
	ledger    ports.RefundJournal
	inventory *MockInventoryRepository
	buyers    *MockBuyerRepository
	sellers   *MockSellerRepository
	outbox    *MockOutboxRepository
}

func newMockUoW() *MockUoW {
	m := &MockUoW{
		orders:    new(MockOrderRepository),
		subOrders: new(MockSubOrderRepository),
		refunds:   new(MockRefundRepository),
		journal:   new(MockRefundJournal),
		inventory: new(MockInventoryRepository),
		buyers:    new(MockBuyerRepository),
		sellers:   new(MockSellerRepository),
		outbox:    new(MockOutboxRepository),
	}
	m.ledger = m.journal
	return m
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository         { return m.orders }
func (m *MockUoW) SubOrderRepository() ports.SubOrderRepository   { return m.subOrders }
func (m *MockUoW) RefundRepository() ports.RefundRepository       { return m.refunds }
func (m *MockUoW) RefundJournal() ports.RefundJournal             { return m.ledger }
func (m *MockUoW) InventoryRepository() ports.InventoryRepository { return m.inventory }
func (m *MockUoW) BuyerRepository() ports.BuyerRepository         { return m.buyers }
func (m *MockUoW) SellerRepository() ports.SellerRepository       { return m.sellers }
func (m *MockUoW) OutboxRepository() ports.OutboxRepository       { return m.outbox }

// expectTransaction sets up Begin, the deferred Rollback and, when commit is
// true, Commit.
func (m *MockUoW) expectTransaction(commit bool) {
	m.On("Begin", mock.Anything).Return(nil).Once()
	if commit {
		m.On("Commit", mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

func (m *MockUoW) assertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.subOrders.AssertExpectations(t)
	m.refunds.AssertExpectations(t)
	m.journal.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.buyers.AssertExpectations(t)
	m.sellers.AssertExpectations(t)
	m.outbox.AssertExpectations(t)
}

type checkoutFactory struct{ uow *MockUoW }

func (f checkoutFactory) Create() commands.CheckoutUoW { return f.uow }

type fulfillmentFactory struct{ uow *MockUoW }

func (f fulfillmentFactory) Create() commands.FulfillmentUoW { return f.uow }

type cancellationFactory struct{ uow *MockUoW }

func (f cancellationFactory) Create() commands.CancellationUoW { return f.uow }

type relayFactory struct{ uow *MockUoW }

func (f relayFactory) Create() commands.RelayUoW { return f.uow }

// fixture is an order with one sub-order per seller, built the way checkout
// stores it.
type fixture struct {
	buyerID kernel.UUID
	order   *order.Order
	subs    []*suborder.SubOrder
}

type fixtureLine struct {
	seller   kernel.UUID
	price    string
	quantity int
	tax      string
	shipping string
}

type fixtureOptions struct {
	paid      bool
	subStatus status.Fulfillment
}

func newFixture(opts fixtureOptions, lines ...fixtureLine) fixture {
	now := time.Now().UTC()
	buyerID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	payment := status.PaymentPending
	transactionID := ""
	if opts.paid {
		payment = status.PaymentPaid
		transactionID = "pi_123"
	}
	subStatus := opts.subStatus
	if subStatus == status.FulfillmentUnknown {
		subStatus = status.Pending
	}

	items := make([]*order.Item, 0, len(lines))
	bySeller := make(map[kernel.UUID][]kernel.UUID)
	var sellers []kernel.UUID
	amount := kernel.Zero()
	for _, l := range lines {
		item, err := order.NewItem(kernel.NewUUID(), l.seller, kernel.MustMoney(l.price), l.quantity,
			decimal.Zero, kernel.MustMoney(l.tax), kernel.MustMoney(l.shipping))
		if err != nil {
			panic(err)
		}
		items = append(items, item)
		if _, ok := bySeller[l.seller]; !ok {
			sellers = append(sellers, l.seller)
		}
		bySeller[l.seller] = append(bySeller[l.seller], item.ProductID())
		amount = amount.Add(item.RefundableTotal())
	}

	subs := make([]*suborder.SubOrder, 0, len(sellers))
	subIDs := make([]kernel.UUID, 0, len(sellers))
	for _, seller := range sellers {
		subtotal, tax, shipping := kernel.Zero(), kernel.Zero(), kernel.Zero()
		for _, item := range items {
			if item.SellerID().IsEqual(seller) {
				subtotal = subtotal.Add(item.LineTotal())
				tax = tax.Add(item.TaxAmount())
				shipping = shipping.Add(item.ShippingShare())
			}
		}
		commission := subtotal.Mul(decimal.RequireFromString("0.1"))
		sub, err := suborder.RestoreSubOrder(kernel.NewUUID(), orderID, seller, buyerID, bySeller[seller],
			suborder.Totals{
				Subtotal:   subtotal,
				Tax:        tax,
				Shipping:   shipping,
				Commission: commission,
				ServiceFee: kernel.Zero(),
				SellerNet:  subtotal.Sub(commission),
				Total:      kernel.Sum(subtotal, tax, shipping),
			},
			suborder.Shipment{RateID: "rate", Carrier: "ups"},
			subStatus, payment, "", nil, now, now)
		if err != nil {
			panic(err)
		}
		subs = append(subs, sub)
		subIDs = append(subIDs, sub.ID())
	}

	children := make([]status.Fulfillment, 0, len(subs))
	for _, s := range subs {
		children = append(children, s.FulfillmentStatus())
	}

	o, err := order.RestoreOrder(orderID, order.Checkout{
		BuyerID:         buyerID,
		ShippingAddress: validAddress(),
		BillingAddress:  validAddress(),
		Currency:        "USD",
		PaymentMethod:   "card",
	}, items, order.Totals{
		Amount:         amount,
		Tax:            kernel.Zero(),
		Shipping:       kernel.Zero(),
		TransactionFee: kernel.Zero(),
	}, payment, status.Project(children), transactionID, subIDs, now, now)
	if err != nil {
		panic(err)
	}

	return fixture{buyerID: buyerID, order: o, subs: subs}
}

// fresh returns an independent copy of the fixture's order, as a second read
// from storage would.
func (f fixture) fresh() *order.Order {
	items := make([]*order.Item, 0, len(f.order.Items()))
	for _, i := range f.order.Items() {
		item, err := order.RestoreItem(i.ProductID(), i.SellerID(), i.UnitPrice(), i.Quantity(), i.TaxRate(),
			i.TaxAmount(), i.ShippingShare(), i.CancelledQuantity(), i.Status())
		if err != nil {
			panic(err)
		}
		items = append(items, item)
	}
	o, err := order.RestoreOrder(f.order.ID(), f.order.Checkout(), items, f.order.Totals(),
		f.order.PaymentStatus(), f.order.FulfillmentStatus(), f.order.PaymentTransactionID(),
		f.order.SubOrderIDs(), f.order.CreatedAt(), f.order.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return o
}

func (f fixture) freshSubs() []*suborder.SubOrder {
	out := make([]*suborder.SubOrder, 0, len(f.subs))
	for _, s := range f.subs {
		c, err := suborder.RestoreSubOrder(s.ID(), s.OrderID(), s.SellerID(), s.BuyerID(), s.ProductIDs(),
			s.Totals(), s.Shipment(), s.FulfillmentStatus(), s.PaymentStatus(), s.TransferID(), s.RefundIDs(),
			s.CreatedAt(), s.UpdatedAt())
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
