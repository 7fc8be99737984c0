package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SettingHandler handles HTTP requests for client preferences.
type SettingHandler struct {
	settingService service.SettingService
	logger         *logger.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService service.SettingService, logger *logger.Logger) *SettingHandler {
	return &SettingHandler{settingService: settingService, logger: logger}
}

// RegisterRoutes registers the settings routes to the Echo group.
func (h *SettingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:key", h.GetSetting)
	g.PUT("/:key", h.PutSetting)
}

// GetSetting godoc
// @Summary Get one preference blob by key
// @Tags settings
// @Produce  json
// @Param   key  path  string  true  "Setting key"
// @Success 200 {object} json.RawMessage
// @Failure 404 {object} dto.ErrorResponse
// @Router /settings/{key} [get]
func (h *SettingHandler) GetSetting(c echo.Context) error {
	value, err := h.settingService.GetSetting(c.Request().Context(), c.Param("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSONBlob(http.StatusOK, value)
}

// PutSetting godoc
// @Summary Store one preference blob by key
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   key    path  string  true  "Setting key"
// @Param   value  body  object  true  "Arbitrary JSON value"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Router /settings/{key} [put]
func (h *SettingHandler) PutSetting(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Anfrage"})
	}

	if err := h.settingService.PutSetting(c.Request().Context(), c.Param("key"), json.RawMessage(body)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
