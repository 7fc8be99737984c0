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

// PriceHandler handles HTTP requests for price observations.
type PriceHandler struct {
	priceService service.PriceService
	logger       *logger.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService service.PriceService, logger *logger.Logger) *PriceHandler {
	return &PriceHandler{priceService: priceService, logger: logger}
}

// RegisterRoutes registers the price routes to the Echo group.
func (h *PriceHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.SavePrice)
	g.GET("", h.GetPrices)
	g.DELETE("", h.ClearAllPrices)
	g.DELETE("/:symbol/:date", h.DeletePrice)
	g.GET("/assets", h.GetActiveAssets)
	g.GET("/assets/:symbol", h.GetAssetBySymbol)
	g.GET("/currencies", h.GetCurrencies)
}

// SavePrice godoc
// @Summary Save a price observation
// @Description Create or overwrite the close price of an asset on a date
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   price  body    dto.SavePriceRequest   true    "Price to save"
// @Success 201 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /prices [post]
func (h *PriceHandler) SavePrice(c echo.Context) error {
	var req dto.SavePriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Anfrage"})
	}

	if err := h.priceService.SavePrice(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

// GetPrices godoc
// @Summary List price observations
// @Description List prices joined with their assets, optionally filtered
// @Tags prices
// @Produce  json
// @Param   date_from  query  string  false  "Earliest date (YYYY-MM-DD)"
// @Param   date_to    query  string  false  "Latest date (YYYY-MM-DD)"
// @Param   asset_id   query  int     false  "Asset ID"
// @Param   symbol     query  string  false  "Asset symbol"
// @Param   currency   query  string  false  "Currency code"
// @Success 200 {array} dto.PriceView
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /prices [get]
func (h *PriceHandler) GetPrices(c echo.Context) error {
	filter, err := parsePriceFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	prices, err := h.priceService.GetPricesFiltered(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Failed to get prices", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, prices)
}

// DeletePrice godoc
// @Summary Delete one price observation
// @Tags prices
// @Produce  json
// @Param   symbol  path  string  true  "Asset symbol"
// @Param   date    path  string  true  "Price date (YYYY-MM-DD)"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /prices/{symbol}/{date} [delete]
func (h *PriceHandler) DeletePrice(c echo.Context) error {
	if err := h.priceService.DeletePrice(c.Request().Context(), c.Param("symbol"), c.Param("date")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearAllPrices godoc
// @Summary Delete all price observations
// @Tags prices
// @Produce  json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} dto.ErrorResponse
// @Router /prices [delete]
func (h *PriceHandler) ClearAllPrices(c echo.Context) error {
	deleted, err := h.priceService.ClearAllPrices(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// GetActiveAssets godoc
// @Summary List active assets
// @Tags prices
// @Produce  json
// @Success 200 {array} entity.Asset
// @Failure 500 {object} dto.ErrorResponse
// @Router /prices/assets [get]
func (h *PriceHandler) GetActiveAssets(c echo.Context) error {
	assets, err := h.priceService.GetActiveAssets(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get active assets", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, assets)
}

// GetAssetBySymbol godoc
// @Summary Get one asset by symbol
// @Tags prices
// @Produce  json
// @Param   symbol  path  string  true  "Asset symbol"
// @Success 200 {object} entity.Asset
// @Failure 404 {object} dto.ErrorResponse
// @Router /prices/assets/{symbol} [get]
func (h *PriceHandler) GetAssetBySymbol(c echo.Context) error {
	asset, err := h.priceService.GetAssetBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, asset)
}

// GetCurrencies godoc
// @Summary List distinct price currencies
// @Tags prices
// @Produce  json
// @Success 200 {array} string
// @Failure 500 {object} dto.ErrorResponse
// @Router /prices/currencies [get]
func (h *PriceHandler) GetCurrencies(c echo.Context) error {
	currencies, err := h.priceService.GetCurrencies(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, currencies)
}

func parsePriceFilter(c echo.Context) (dto.PriceFilter, error) {
	var filter dto.PriceFilter

	if v := c.QueryParam("date_from"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			return filter, service.NewValidationError("Ungültiges Datum", "date_from muss das Format JJJJ-MM-TT haben")
		}
		filter.DateFrom = &d
	}
	if v := c.QueryParam("date_to"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			return filter, service.NewValidationError("Ungültiges Datum", "date_to muss das Format JJJJ-MM-TT haben")
		}
		filter.DateTo = &d
	}
	if v := c.QueryParam("asset_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, service.NewValidationError("Ungültige Asset-ID", v)
		}
		filter.AssetID = utils.ToPointer(uint(id))
	}
	filter.Symbol = c.QueryParam("symbol")
	filter.Currency = c.QueryParam("currency")

	return filter, nil
}
