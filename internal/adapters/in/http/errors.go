package http

import (
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var kindStatus = map[errs.Kind]int{
	errs.KindValidation:      http.StatusBadRequest,
	errs.KindNotFound:        http.StatusNotFound,
	errs.KindUnauthorized:    http.StatusForbidden,
	errs.KindConflict:        http.StatusConflict,
	errs.KindExternalService: http.StatusBadGateway,
	errs.KindInternal:        http.StatusInternalServerError,
}

// fail writes err as a servers.Error. Internal failures are logged and their
// details withheld from the client.
func (s *Server) fail(ctx echo.Context, err error) error {
	kind := errs.KindOf(err)
	code := kindStatus[kind]

	message := strings.ReplaceAll(err.Error(), "\n", "; ")
	if kind == errs.KindInternal {
		s.logger.Error("request failed",
			zap.String("method", ctx.Request().Method),
			zap.String("path", ctx.Path()),
			zap.Error(err))
		message = http.StatusText(code)
	}

	return ctx.JSON(code, servers.Error{Code: int32(code), Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: message})
}

// HTTPErrorHandler renders errors escaping the handlers, such as parameter
// binding failures, in the API's error shape.
func HTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	_ = ctx.JSON(code, servers.Error{Code: int32(code), Message: message})
}
