package handler

import (
	"net/http"

	"freshmart/internal/domain/model"
	"freshmart/internal/middleware"
	"freshmart/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が c.Set("identity", model.Identity) した値を取り出す

func getIdentityFromContext(c echo.Context) (model.Identity, bool) {
	v := c.Get(middleware.CtxIdentityKey)
	if v == nil {
		return model.Identity{}, false
	}

	identity, ok := v.(model.Identity)
	if !ok || identity.ID == "" {
		return model.Identity{}, false
	}

	return identity, true
}
