package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders - checks out the caller's cart.
func (s *Server) CreateOrder(ctx echo.Context, params servers.CreateOrderParams) error {
	buyerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CreateOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := toCreateOrderCommand(buyerID, body)
	if err != nil {
		return s.fail(ctx, err)
	}

	orderID, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{Id: toAPIID(orderID)})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderID, params servers.GetOrderParams) error {
	callerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := toKernelID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(callerID, id)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response, err := fromOrderView(view)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderRefunds handles GET /api/v1/orders/{orderId}/refunds.
func (s *Server) GetOrderRefunds(ctx echo.Context, orderId servers.OrderID, params servers.GetOrderRefundsParams) error {
	callerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := toKernelID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderRefundsQuery(callerID, id)
	if err != nil {
		return s.fail(ctx, err)
	}

	refunds, err := s.handlers.GetOrderRefunds.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Refund, len(refunds))
	for i, r := range refunds {
		response[i] = fromRefundView(r)
	}
	return ctx.JSON(http.StatusOK, response)
}

// ConfirmOrderPayment handles POST /api/v1/orders/{orderId}/payment. It is
// called by the payment integration once the charge is captured.
func (s *Server) ConfirmOrderPayment(ctx echo.Context, orderId servers.OrderID) error {
	id, err := toKernelID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.ConfirmOrderPaymentJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewConfirmPaymentCommand(id, body.TransactionId)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.ConfirmPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
