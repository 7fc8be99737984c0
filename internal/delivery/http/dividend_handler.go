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

// DividendHandler handles HTTP requests for dividend payments.
type DividendHandler struct {
	dividendService service.DividendService
	logger          *logger.Logger
}

// NewDividendHandler creates a new DividendHandler.
func NewDividendHandler(dividendService service.DividendService, logger *logger.Logger) *DividendHandler {
	return &DividendHandler{dividendService: dividendService, logger: logger}
}

// RegisterRoutes registers the dividend routes to the Echo group.
func (h *DividendHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.AddDividend)
	g.GET("/asset/:asset_id", h.GetDividendsForAsset)
	g.DELETE("/:id", h.DeleteDividend)
	g.GET("/summary", h.GetSummary)
	g.GET("/total", h.GetTotal)
}

// AddDividend godoc
// @Summary Record a dividend payment
// @Tags dividends
// @Accept  json
// @Produce  json
// @Param   dividend  body  dto.AddDividendRequest  true  "Dividend to record"
// @Success 201 {object} map[string]uint
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /dividends [post]
func (h *DividendHandler) AddDividend(c echo.Context) error {
	var req dto.AddDividendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Anfrage"})
	}

	id, err := h.dividendService.AddDividend(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"id": id})
}

// GetDividendsForAsset godoc
// @Summary List dividends of one asset
// @Tags dividends
// @Produce  json
// @Param   asset_id  path   int  true   "Asset ID"
// @Param   year      query  int  false  "Restrict to one payment year"
// @Success 200 {array} entity.Dividend
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dividends/asset/{asset_id} [get]
func (h *DividendHandler) GetDividendsForAsset(c echo.Context) error {
	assetID, err := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Asset-ID"})
	}

	year, err := parseYearParam(c)
	if err != nil {
		return writeError(c, err)
	}

	dividends, err := h.dividendService.GetDividendsForAsset(c.Request().Context(), uint(assetID), year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dividends)
}

// DeleteDividend godoc
// @Summary Delete one dividend payment
// @Tags dividends
// @Produce  json
// @Param   id  path  int  true  "Dividend ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /dividends/{id} [delete]
func (h *DividendHandler) DeleteDividend(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Dividenden-ID"})
	}

	if err := h.dividendService.DeleteDividend(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Per-asset dividend summary
// @Tags dividends
// @Produce  json
// @Param   year  query  int  false  "Restrict to one payment year"
// @Success 200 {array} dto.DividendSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dividends/summary [get]
func (h *DividendHandler) GetSummary(c echo.Context) error {
	year, err := parseYearParam(c)
	if err != nil {
		return writeError(c, err)
	}

	summary, err := h.dividendService.GetDividendSummary(c.Request().Context(), year)
	if err != nil {
		h.logger.Error("Failed to get dividend summary", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetTotal godoc
// @Summary Total net dividends
// @Tags dividends
// @Produce  json
// @Param   year      query  int     false  "Restrict to one payment year"
// @Param   currency  query  string  false  "Currency code"
// @Success 200 {object} map[string]float64
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dividends/total [get]
func (h *DividendHandler) GetTotal(c echo.Context) error {
	year, err := parseYearParam(c)
	if err != nil {
		return writeError(c, err)
	}

	total, err := h.dividendService.GetTotalDividends(c.Request().Context(), year, c.QueryParam("currency"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"total_net": total})
}

func parseYearParam(c echo.Context) (*int, error) {
	v := c.QueryParam("year")
	if v == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1970 || year > 9999 {
		return nil, service.NewValidationError("Ungültiges Jahr", v)
	}
	return utils.ToPointer(year), nil
}
