package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// BaseURL prefixes every API route.
const BaseURL = "/api/v1"

// NewRouter builds the echo instance serving the API, the health check and
// the Swagger UI at /swagger/index.html.
func NewRouter(server *Server, logger *zap.Logger) (*echo.Echo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := registerOpenAPIDoc(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	servers.RegisterHandlersWithBaseURL(e, server, BaseURL)

	return e, nil
}

// openAPIDoc serves the embedded OpenAPI document to the Swagger UI.
type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string { return d.json }

var (
	docOnce sync.Once
	docErr  error
)

func registerOpenAPIDoc() error {
	docOnce.Do(func() {
		openapi, err := servers.GetSwagger()
		if err != nil {
			docErr = fmt.Errorf("load openapi document: %w", err)
			return
		}
		doc, err := json.Marshal(openapi)
		if err != nil {
			docErr = fmt.Errorf("marshal openapi document: %w", err)
			return
		}
		swag.Register(swag.Name, openAPIDoc{json: string(doc)})
	})
	return docErr
}
