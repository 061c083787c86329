package handler

import (
	"net/http"

	"freshmart/internal/config"
	"freshmart/internal/domain/model"
	"freshmart/internal/middleware"
	"freshmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP（ユーザー側）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type CheckoutRequest struct {
	DeliveryAddress *model.DeliveryAddress `json:"deliveryAddress"`
	OrderNotes      string                 `json:"orderNotes"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/checkout", h.checkout)
	g.GET("", h.listMine)
	g.GET("/:id", h.getMine)
	g.POST("/:id/cancel", h.cancel)
	g.POST("/:id/reorder", h.reorder)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), identity, usecase.CheckoutInput{
		DeliveryAddress: req.DeliveryAddress,
		OrderNotes:      req.OrderNotes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	outs, err := h.uc.ListMyOrders(c.Request().Context(), identity.ID, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *OrderHandler) getMine(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), identity.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	out, err := h.uc.CancelMyOrder(c.Request().Context(), identity.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) reorder(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	out, err := h.uc.Reorder(c.Request().Context(), identity.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
