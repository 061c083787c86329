package handler

import (
	"net/http"
	"time"

	"freshmart/internal/config"

	"github.com/labstack/echo/v4"
)

// ヘルスチェックとフロント向け設定の配布
type MetaHandler struct {
	cfg config.Config
}

// DI
func NewMetaHandler(cfg config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *MetaHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.health)
	e.GET("/api/firebase-config", h.firebaseConfig)
}

func (h *MetaHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "Server is running",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// 空の項目は出さない
func (h *MetaHandler) firebaseConfig(c echo.Context) error {
	out := map[string]string{}

	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}

	put("apiKey", h.cfg.FirebaseAPIKey)
	put("authDomain", h.cfg.FirebaseAuthDomain)
	put("projectId", h.cfg.FirebaseProjectID)
	put("storageBucket", h.cfg.FirebaseStorageBucket)
	put("messagingSenderId", h.cfg.FirebaseMessagingSenderID)
	put("appId", h.cfg.FirebaseAppID)
	put("measurementId", h.cfg.FirebaseMeasurementID)

	return c.JSON(http.StatusOK, out)
}
