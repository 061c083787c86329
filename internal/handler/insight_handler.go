package handler

import (
	"net/http"

	"freshmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品説明の生成プロキシ
type InsightHandler struct {
	uc *usecase.InsightUsecase
}

// DI
func NewInsightHandler(uc *usecase.InsightUsecase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

type InsightRequest struct {
	Prompt string `json:"prompt"`
}

func (h *InsightHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/gemini-insight", h.generate)
}

func (h *InsightHandler) generate(c echo.Context) error {
	var req InsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Generate(c.Request().Context(), req.Prompt)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
