package http

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/generated/servers"

	"go.uber.org/zap"
)

type CreateOrderHandler interface {
	Handle(ctx context.Context, command commands.CreateOrderCommand) (kernel.UUID, error)
}

type TransitionSubOrderHandler interface {
	Handle(ctx context.Context, command commands.TransitionSubOrderCommand) error
}

type CancelItemHandler interface {
	Handle(ctx context.Context, command commands.CancelItemCommand) (commands.CancelItemResult, error)
}

type CancelOrderHandler interface {
	Handle(ctx context.Context, command commands.CancelOrderCommand) (commands.CancelOrderResult, error)
}

type ConfirmPaymentHandler interface {
	Handle(ctx context.Context, command commands.ConfirmPaymentCommand) error
}

type RecordPayoutHandler interface {
	Handle(ctx context.Context, command commands.RecordPayoutCommand) error
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

type GetOrderRefundsHandler interface {
	Handle(ctx context.Context, query queries.GetOrderRefundsQuery) ([]queries.GetOrderRefundsQueryResponse, error)
}

// Handlers bundles the use cases the HTTP API exposes.
type Handlers struct {
	// Command handlers
	CreateOrder        CreateOrderHandler
	TransitionSubOrder TransitionSubOrderHandler
	CancelItem         CancelItemHandler
	CancelOrder        CancelOrderHandler
	ConfirmPayment     ConfirmPaymentHandler
	RecordPayout       RecordPayoutHandler

	// Query handlers
	GetOrder        GetOrderHandler
	GetOrderRefunds GetOrderRefundsHandler
}

// Server implements servers.ServerInterface on top of the application use
// cases. The caller's identity arrives in the X-User-ID header.
type Server struct {
	handlers Handlers
	logger   *zap.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: handlers,
		logger:   logger.With(zap.String("component", "http")),
	}
}
