package handler

import (
	"net/http"
	"strconv"

	"freshmart/internal/config"
	"freshmart/internal/middleware"
	"freshmart/internal/repository"
	"freshmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/ordersのHTTP
type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

// DI
func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/orders", h.list)
	g.GET("/orders/recent", h.recent)
	g.GET("/orders/:id", h.get)
	g.PATCH("/orders/:id/status", h.updateStatus)

	g.GET("/dashboard", h.dashboard)
	g.GET("/customers", h.customers)
	g.GET("/analytics", h.analytics)
	g.GET("/audit-logs", h.auditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f := repository.AdminOrderListFilter{
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
		Query:  c.QueryParam("q"),
	}

	outs, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *AdminOrderHandler) recent(c echo.Context) error {
	n := 5
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		n = parsed
	}

	outs, err := h.uc.Recent(c.Request().Context(), n)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	identity, ok := getIdentityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	var req AdminUpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), identity, c.Param("id"), usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) customers(c echo.Context) error {
	outs, err := h.uc.Customers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *AdminOrderHandler) analytics(c echo.Context) error {
	out, err := h.uc.Analytics(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	logs, err := h.uc.AuditLogs(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
