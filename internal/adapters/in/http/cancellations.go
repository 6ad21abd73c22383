package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CancelOrderItem handles POST /api/v1/orders/{orderId}/items/{productId}/cancel.
func (s *Server) CancelOrderItem(
	ctx echo.Context,
	orderId servers.OrderID,
	productId openapi_types.UUID,
	params servers.CancelOrderItemParams,
) error {
	callerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := toKernelID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	product, err := toKernelID(productId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CancelOrderItemJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelItemCommand(callerID, id, product, body.Quantity, deref(body.Reason))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CancelItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.ItemCancellationResult{
		ItemStatus:   result.ItemStatus.String(),
		OrderStatus:  result.OrderStatus.String(),
		RefundStatus: result.RefundStatus,
	}
	if result.Refund != nil {
		r := fromRefund(result.Refund)
		response.Refund = &r
	}
	return ctx.JSON(http.StatusOK, response)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel. The body is
// optional.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderID, params servers.CancelOrderParams) error {
	callerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := toKernelID(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CancelOrderJSONRequestBody
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	cmd, err := commands.NewCancelOrderCommand(callerID, id, deref(body.Reason))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.OrderCancellationResult{
		OrderStatus:  result.OrderStatus.String(),
		RefundStatus: result.RefundStatus,
		Refunds:      make([]servers.Refund, len(result.Refunds)),
	}
	for i, r := range result.Refunds {
		response.Refunds[i] = fromRefund(r)
	}
	return ctx.JSON(http.StatusOK, response)
}
