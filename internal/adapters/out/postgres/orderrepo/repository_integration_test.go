package orderrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db, "order_items", "orders"))

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTripsOrderAndItems() {
	ctx := context.Background()
	storeID := kernel.NewUUID()
	o := newTestOrder(suite.T(), &storeID)

	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.True(got.ID().IsEqual(o.ID()))
	suite.True(got.BuyerID().IsEqual(o.BuyerID()))
	suite.Require().NotNil(got.StoreID())
	suite.True(got.StoreID().IsEqual(storeID))
	suite.Equal(o.Checkout().ShippingAddress, got.Checkout().ShippingAddress)
	suite.Equal("USD", got.Currency())
	suite.Equal("card", got.Checkout().PaymentMethod)
	suite.Equal("2026-10-20", got.Checkout().EstimatedDelivery.Format(time.DateOnly))
	suite.Equal("62.00", got.Totals().Amount.String())
	suite.Equal("2.00", got.Totals().TransactionFee.String())
	suite.Equal(status.PaymentPending, got.PaymentStatus())
	suite.Equal(status.Pending, got.FulfillmentStatus())

	suite.Require().Len(got.Items(), 2)
	for i, item := range got.Items() {
		want := o.Items()[i]
		suite.True(item.ProductID().IsEqual(want.ProductID()), "items keep checkout order")
		suite.Equal(want.UnitPrice().String(), item.UnitPrice().String())
		suite.Equal(want.Quantity(), item.Quantity())
		suite.True(want.TaxRate().Equal(item.TaxRate()))
		suite.Equal(status.ItemActive, item.Status())
	}
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsCancellationAndLinks() {
	ctx := context.Background()
	o := newTestOrder(suite.T(), nil)
	suite.tracker.On("TrackAggregate", o.ID(), o).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	now := time.Now().UTC()
	subIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	suite.Require().NoError(o.AttachSubOrders(subIDs, now))
	suite.Require().NoError(o.ConfirmPayment("pi_42", now))
	_, err := o.CancelItem(o.Items()[0].ProductID(), 1, now)
	suite.Require().NoError(err)
	o.ProjectFulfillment([]status.Fulfillment{status.Cancelled, status.Pending}, now)

	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(status.PaymentPaid, got.PaymentStatus())
	suite.Equal("pi_42", got.PaymentTransactionID())
	suite.Equal(status.PartiallyCancelled, got.FulfillmentStatus())
	suite.Require().Len(got.SubOrderIDs(), 2)
	suite.True(got.SubOrderIDs()[0].IsEqual(subIDs[0]))
	suite.True(got.SubOrderIDs()[1].IsEqual(subIDs[1]))

	first := got.Items()[0]
	suite.Equal(1, first.CancelledQuantity())
	suite.Equal(status.ItemPartiallyCancelled, first.Status())
	suite.Equal(0, got.Items()[1].CancelledQuantity())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	o := newTestOrder(suite.T(), nil)

	err := suite.repository.Update(context.Background(), o)

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFound() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_InsideTransaction() {
	ctx := context.Background()
	o := newTestOrder(suite.T(), nil)
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		locked, err := orderrepo.NewGormOrderRepository(tx, suite.tracker).GetForUpdate(ctx, o.ID())
		if err != nil {
			return err
		}
		suite.True(locked.ID().IsEqual(o.ID()))
		suite.Len(locked.Items(), 2)
		return nil
	})
	suite.Require().NoError(err)
}

func newTestOrder(t *testing.T, storeID *kernel.UUID) *order.Order {
	t.Helper()
	address := kernel.Address{Name: "Ann Buyer", Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}

	first, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney("10.00"), 2,
		decimal.RequireFromString("0.08"), kernel.MustMoney("1.60"), kernel.MustMoney("4.80"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), kernel.MustMoney("15.00"), 2,
		decimal.RequireFromString("0.08"), kernel.MustMoney("2.40"), kernel.MustMoney("7.20"))
	if err != nil {
		t.Fatal(err)
	}

	o, err := order.NewOrder(kernel.NewUUID(), order.Checkout{
		BuyerID:           kernel.NewUUID(),
		StoreID:           storeID,
		ShippingAddress:   address,
		BillingAddress:    address,
		Currency:          "USD",
		PaymentMethod:     "card",
		EstimatedDelivery: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
	}, []*order.Item{first, second}, order.Totals{
		Amount:         kernel.MustMoney("62.00"),
		Tax:            kernel.MustMoney("4.00"),
		Shipping:       kernel.MustMoney("12.00"),
		TransactionFee: kernel.MustMoney("2.00"),
	}, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
