package server

import (
	"freshmart/internal/config"
	"freshmart/internal/handler"

	"github.com/labstack/echo/v4"
)

// 全handlerをまとめてDIする
type Handlers struct {
	Auth       *handler.AuthHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Insight    *handler.InsightHandler
	Contact    *handler.ContactHandler
	Meta       *handler.MetaHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Insight.RegisterRoutes(e)
	h.Contact.RegisterRoutes(e)
	h.Meta.RegisterRoutes(e)
}
