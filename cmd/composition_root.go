package cmd

import (
	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	gateway    ports.PaymentGateway
	dispatcher ports.NotificationDispatcher
	logger     *zap.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	gateway ports.PaymentGateway,
	dispatcher ports.NotificationDispatcher,
	logger *zap.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:    gateway,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	estimator := services.NewDeliveryEstimator(c.config.DefaultDeliveryBusinessDays)
	return commands.NewCreateOrderCommandHandler(f, estimator, c.config.Currency, c.logger)
}

func (c *CompositionRoot) CreateTransitionSubOrderCommandHandler() commands.TransitionSubOrderCommandHandler {
	return commands.NewTransitionSubOrderCommandHandler(c.fulfillmentUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.fulfillmentUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRecordPayoutCommandHandler() commands.RecordPayoutCommandHandler {
	return commands.NewRecordPayoutCommandHandler(c.fulfillmentUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateCancelItemCommandHandler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(c.cancellationUoWFactory(), c.gateway, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.cancellationUoWFactory(), c.gateway, c.logger)
}

func (c *CompositionRoot) CreateRelayNotificationsCommandHandler() commands.RelayNotificationsCommandHandler {
	var f commands.RelayUoWFactory = FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayNotificationsCommandHandler(f, c.dispatcher, c.config.OutboxRelayConcurrency, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderRefundsQueryHandler() queries.GetOrderRefundsQueryHandler {
	return queries.NewGetOrderRefundsQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		TransitionSubOrder: c.CreateTransitionSubOrderCommandHandler(),
		CancelItem:         c.CreateCancelItemCommandHandler(),
		CancelOrder:        c.CreateCancelOrderCommandHandler(),
		ConfirmPayment:     c.CreateConfirmPaymentCommandHandler(),
		RecordPayout:       c.CreateRecordPayoutCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetOrderRefunds:    c.CreateGetOrderRefundsQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayNotificationsCommandHandler(),
		c.config.OutboxRelaySchedule,
		c.config.OutboxRelayBatchSize,
		c.logger,
	)
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) cancellationUoWFactory() commands.CancellationUoWFactory {
	return FuncCancellationUoWFactory(func() commands.CancellationUoW {
		return c.uowFactory.Create()
	})
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncCancellationUoWFactory func() commands.CancellationUoW

func (f FuncCancellationUoWFactory) Create() commands.CancellationUoW {
	return f()
}

type FuncRelayUoWFactory func() commands.RelayUoW

func (f FuncRelayUoWFactory) Create() commands.RelayUoW {
	return f()
}
