package server

import (
	"storefront/internal/config"

	"github.com/labstack/echo/v4"
)

// products.json / success.html / cancel.html は public/ から静的配信
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Checkout.RegisterRoutes(e)
	if !cfg.IsProd() {
		h.Checkout.RegisterDevRoutes(e)
	}

	e.Static("/", cfg.PublicDir)
}
