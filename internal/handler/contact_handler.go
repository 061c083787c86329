package handler

import (
	"net/http"

	"freshmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// お問い合わせフォームの中継
type ContactHandler struct {
	uc *usecase.ContactUsecase
}

// DI
func NewContactHandler(uc *usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

func (h *ContactHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/contact", h.submit)
}

func (h *ContactHandler) submit(c echo.Context) error {
	var req usecase.ContactInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusAccepted, out)
}
