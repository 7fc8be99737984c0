package http

import (
	"net/http"

	"github.com/xKrikZ/MeinPortfolio-App/internal/export"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExportHandler writes CSV exports on request and returns the file path.
type ExportHandler struct {
	portfolioService service.PortfolioService
	priceService     service.PriceService
	dividendService  service.DividendService
	writer           *export.Writer
	logger           *logger.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(
	portfolioService service.PortfolioService,
	priceService service.PriceService,
	dividendService service.DividendService,
	writer *export.Writer,
	logger *logger.Logger,
) *ExportHandler {
	return &ExportHandler{
		portfolioService: portfolioService,
		priceService:     priceService,
		dividendService:  dividendService,
		writer:           writer,
		logger:           logger,
	}
}

// RegisterRoutes registers the export routes to the Echo group.
func (h *ExportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/portfolio", h.ExportPortfolio)
	g.POST("/prices", h.ExportPrices)
	g.POST("/dividends", h.ExportDividends)
}

// ExportPortfolio godoc
// @Summary Export the portfolio summary as CSV
// @Tags export
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /export/portfolio [post]
func (h *ExportHandler) ExportPortfolio(c echo.Context) error {
	summaries, err := h.portfolioService.GetSummaries(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	path, err := h.writer.WritePortfolio(summaries, export.DefaultFilename("portfolio"))
	if err != nil {
		return writeError(c, err)
	}

	h.logger.Info("Portfolio exported", logger.StringField("path", path))
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

// ExportPrices godoc
// @Summary Export price observations as CSV
// @Tags export
// @Produce  json
// @Param   date_from  query  string  false  "Earliest date (YYYY-MM-DD)"
// @Param   date_to    query  string  false  "Latest date (YYYY-MM-DD)"
// @Param   asset_id   query  int     false  "Asset ID"
// @Param   symbol     query  string  false  "Asset symbol"
// @Param   currency   query  string  false  "Currency code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /export/prices [post]
func (h *ExportHandler) ExportPrices(c echo.Context) error {
	filter, err := parsePriceFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	prices, err := h.priceService.GetPricesFiltered(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}

	path, err := h.writer.WritePrices(prices, export.DefaultFilename("kurse"))
	if err != nil {
		return writeError(c, err)
	}

	h.logger.Info("Prices exported", logger.StringField("path", path))
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

// ExportDividends godoc
// @Summary Export dividend payments as CSV
// @Tags export
// @Produce  json
// @Param   year  query  int  false  "Restrict to one payment year"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /export/dividends [post]
func (h *ExportHandler) ExportDividends(c echo.Context) error {
	year, err := parseYearParam(c)
	if err != nil {
		return writeError(c, err)
	}

	rows, err := h.dividendService.GetExportRows(c.Request().Context(), year)
	if err != nil {
		return writeError(c, err)
	}

	path, err := h.writer.WriteDividends(rows, export.DefaultFilename("dividenden"))
	if err != nil {
		return writeError(c, err)
	}

	h.logger.Info("Dividends exported", logger.StringField("path", path))
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}
