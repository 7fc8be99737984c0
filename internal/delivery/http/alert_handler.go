package http

import (
	"net/http"
	"strconv"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/utils"

	"github.com/labstack/echo/v4"
)

// AlertHandler handles HTTP requests for price alerts.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateAlert)
	g.GET("", h.GetAlerts)
	g.POST("/check", h.CheckAlerts)
	g.PUT("/:id/deactivate", h.DeactivateAlert)
	g.DELETE("/:id", h.DeleteAlert)
}

// CreateAlert godoc
// @Summary Create a price alert
// @Tags alerts
// @Accept  json
// @Produce  json
// @Param   alert  body  dto.CreateAlertRequest  true  "Alert to create"
// @Success 201 {object} map[string]uint
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /alerts [post]
func (h *AlertHandler) CreateAlert(c echo.Context) error {
	var req dto.CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Anfrage"})
	}

	id, err := h.alertService.CreateAlert(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"id": id})
}

// GetAlerts godoc
// @Summary List price alerts
// @Tags alerts
// @Produce  json
// @Param   include_triggered  query  bool  false  "Include triggered alerts"
// @Param   asset_id           query  int   false  "Restrict active alerts to one asset"
// @Success 200 {array} entity.PriceAlert
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /alerts [get]
func (h *AlertHandler) GetAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("include_triggered") == "true" {
		alerts, err := h.alertService.GetAllAlerts(ctx, true)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, alerts)
	}

	var assetID *uint
	if v := c.QueryParam("asset_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Asset-ID", Details: v})
		}
		assetID = utils.ToPointer(uint(id))
	}

	alerts, err := h.alertService.GetActiveAlerts(ctx, assetID)
	if err != nil {
		h.logger.Error("Failed to get alerts", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

// CheckAlerts godoc
// @Summary Evaluate all active alerts now
// @Description Runs one evaluation pass and returns the alerts that fired
// @Tags alerts
// @Produce  json
// @Success 200 {array} dto.TriggeredAlert
// @Failure 500 {object} dto.ErrorResponse
// @Router /alerts/check [post]
func (h *AlertHandler) CheckAlerts(c echo.Context) error {
	triggered, err := h.alertService.CheckAlerts(c.Request().Context())
	if err != nil {
		h.logger.Error("Alert check failed", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, triggered)
}

// DeactivateAlert godoc
// @Summary Deactivate a price alert
// @Tags alerts
// @Produce  json
// @Param   id  path  int  true  "Alert ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /alerts/{id}/deactivate [put]
func (h *AlertHandler) DeactivateAlert(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Alarm-ID"})
	}

	if err := h.alertService.DeactivateAlert(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAlert godoc
// @Summary Delete a price alert
// @Tags alerts
// @Produce  json
// @Param   id  path  int  true  "Alert ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /alerts/{id} [delete]
func (h *AlertHandler) DeleteAlert(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Alarm-ID"})
	}

	if err := h.alertService.DeleteAlert(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
