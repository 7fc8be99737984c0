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

// PortfolioHandler handles HTTP requests for the transaction ledger and the
// holdings derived from it.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/transactions", h.AddTransaction)
	g.GET("/transactions", h.GetTransactions)
	g.DELETE("/transactions", h.ClearPortfolio)
	g.DELETE("/transactions/:id", h.DeleteTransaction)
	g.GET("/positions", h.GetPositions)
	g.GET("/summary", h.GetSummaries)
	g.GET("/total-value", h.GetTotalValue)
	g.GET("/profit-loss", h.GetTotalProfitLoss)
	g.GET("/value-history", h.GetValueHistory)
}

// AddTransaction godoc
// @Summary Record a buy or sell transaction
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   transaction  body  dto.AddTransactionRequest  true  "Transaction to record"
// @Success 201 {object} map[string]uint
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/transactions [post]
func (h *PortfolioHandler) AddTransaction(c echo.Context) error {
	var req dto.AddTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Anfrage"})
	}

	id, err := h.portfolioService.AddTransaction(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"id": id})
}

// GetTransactions godoc
// @Summary List ledger entries
// @Tags portfolio
// @Produce  json
// @Param   asset_id  query  int  false  "Restrict to one asset"
// @Success 200 {array} entity.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/transactions [get]
func (h *PortfolioHandler) GetTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	if v := c.QueryParam("asset_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Asset-ID", Details: v})
		}
		transactions, err := h.portfolioService.GetTransactionsForAsset(ctx, uint(id))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, transactions)
	}

	transactions, err := h.portfolioService.GetTransactions(ctx)
	if err != nil {
		h.logger.Error("Failed to get transactions", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, transactions)
}

// DeleteTransaction godoc
// @Summary Delete one ledger entry
// @Description Deletes a transaction unless removal would leave an asset oversold
// @Tags portfolio
// @Produce  json
// @Param   id  path  int  true  "Transaction ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolio/transactions/{id} [delete]
func (h *PortfolioHandler) DeleteTransaction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültige Transaktions-ID"})
	}

	if err := h.portfolioService.DeleteTransaction(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearPortfolio godoc
// @Summary Delete all ledger entries
// @Tags portfolio
// @Produce  json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/transactions [delete]
func (h *PortfolioHandler) ClearPortfolio(c echo.Context) error {
	deleted, err := h.portfolioService.ClearPortfolio(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// GetPositions godoc
// @Summary List current holdings
// @Tags portfolio
// @Produce  json
// @Success 200 {array} dto.PortfolioPosition
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/positions [get]
func (h *PortfolioHandler) GetPositions(c echo.Context) error {
	positions, err := h.portfolioService.GetPositions(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get positions", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

// GetSummaries godoc
// @Summary List holdings valued at their latest price
// @Tags portfolio
// @Produce  json
// @Success 200 {array} dto.PortfolioSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/summary [get]
func (h *PortfolioHandler) GetSummaries(c echo.Context) error {
	summaries, err := h.portfolioService.GetSummaries(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get portfolio summary", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetTotalValue godoc
// @Summary Portfolio market value in its primary currency
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.PortfolioTotal
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/total-value [get]
func (h *PortfolioHandler) GetTotalValue(c echo.Context) error {
	total, err := h.portfolioService.GetTotalValue(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

// GetTotalProfitLoss godoc
// @Summary Portfolio profit/loss in its primary currency
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.ProfitLossTotal
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/profit-loss [get]
func (h *PortfolioHandler) GetTotalProfitLoss(c echo.Context) error {
	total, err := h.portfolioService.GetTotalProfitLoss(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

// GetValueHistory godoc
// @Summary Portfolio value over time
// @Tags portfolio
// @Produce  json
// @Param   from  query  string  false  "Earliest date (YYYY-MM-DD), default 365 days ago"
// @Param   to    query  string  false  "Latest date (YYYY-MM-DD), default today"
// @Success 200 {array} dto.ValueHistoryPoint
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/value-history [get]
func (h *PortfolioHandler) GetValueHistory(c echo.Context) error {
	to := utils.Today()
	from := to.AddDate(-1, 0, 0)

	if v := c.QueryParam("from"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültiges Datum", Details: "from muss das Format JJJJ-MM-TT haben"})
		}
		from = d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ungültiges Datum", Details: "to muss das Format JJJJ-MM-TT haben"})
		}
		to = d
	}
	if to.Before(from) {
		from, to = to, from
	}

	history, err := h.portfolioService.GetValueHistory(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to get value history", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}
