package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/status"
	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// TransitionSubOrder handles POST /api/v1/sub-orders/{subOrderId}/status.
// Only the sub-order's seller may call it.
func (s *Server) TransitionSubOrder(ctx echo.Context, subOrderId servers.SubOrderID, params servers.TransitionSubOrderParams) error {
	callerID, err := toKernelID(params.XUserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := toKernelID(subOrderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.TransitionSubOrderJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	next, err := status.ParseFulfillment(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionSubOrderCommand(callerID, id, next, deref(body.TrackingNumber))
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.TransitionSubOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RecordSubOrderPayout handles POST /api/v1/sub-orders/{subOrderId}/payout.
func (s *Server) RecordSubOrderPayout(ctx echo.Context, subOrderId servers.SubOrderID) error {
	id, err := toKernelID(subOrderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.RecordSubOrderPayoutJSONRequestBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRecordPayoutCommand(id, body.TransferId)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.RecordPayout.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
