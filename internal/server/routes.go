package server

import (
	"github.com/labstack/echo/v4"

	"github.com/spsina/bookStore/internal/handler"
)

// Handlers are the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Books     *handler.BookHandler
	Baskets   *handler.BasketHandler
	Payments  *handler.PaymentHandler
	PhoneAuth *handler.PhoneAuthHandler
	Health    *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, jwtSecret string, h Handlers) {
	api := e.Group("/api/v1")

	h.PhoneAuth.RegisterRoutes(api)
	h.Books.RegisterRoutes(api)
	h.Baskets.RegisterRoutes(api, jwtSecret)
	h.Payments.RegisterRoutes(api)
	h.Health.RegisterRoutes(api)
}
