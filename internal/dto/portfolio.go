package dto

import "time"

// AddTransactionRequest is the payload for recording a ledger entry.
// Quantity and Price are strings so that comma decimal separators survive
// the transport untouched.
type AddTransactionRequest struct {
	AssetID         uint   `json:"asset_id"`
	Type            string `json:"type"`
	Quantity        string `json:"quantity"`
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	TransactionDate string `json:"transaction_date"`
	Notes           string `json:"notes"`
}

// PortfolioPosition is the derived net holding of one asset in one
// transaction currency. Positions are recomputed from the ledger on every
// read and never persisted.
type PortfolioPosition struct {
	AssetID             uint      `json:"asset_id"`
	Symbol              string    `json:"symbol"`
	Name                string    `json:"name"`
	Quantity            float64   `json:"quantity"`
	AverageBuyPrice     float64   `json:"average_buy_price"`
	Currency            string    `json:"currency"`
	FirstBuyDate        time.Time `json:"first_buy_date"`
	LastTransactionDate time.Time `json:"last_transaction_date"`
}

// CurrentValue returns the market value of the position at the given price.
func (p PortfolioPosition) CurrentValue(currentPrice float64) float64 {
	return p.Quantity * currentPrice
}

// TotalCost returns the cost basis of the position.
func (p PortfolioPosition) TotalCost() float64 {
	return p.Quantity * p.AverageBuyPrice
}

// ProfitLoss returns the unrealized profit or loss at the given price.
func (p PortfolioPosition) ProfitLoss(currentPrice float64) float64 {
	return p.CurrentValue(currentPrice) - p.TotalCost()
}

// ProfitLossPercent returns the unrealized profit or loss in percent of the
// average buy price, or 0 when no cost basis exists.
func (p PortfolioPosition) ProfitLossPercent(currentPrice float64) float64 {
	if p.AverageBuyPrice <= 0 {
		return 0
	}
	return (currentPrice - p.AverageBuyPrice) / p.AverageBuyPrice * 100
}

// PortfolioSummary combines a position with the latest price observation of
// its asset.
type PortfolioSummary struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Quantity          float64   `json:"quantity"`
	AverageBuyPrice   float64   `json:"average_buy_price"`
	CurrentPrice      float64   `json:"current_price"`
	Currency          string    `json:"currency"`
	CurrentValue      float64   `json:"current_value"`
	TotalCost         float64   `json:"total_cost"`
	ProfitLoss        float64   `json:"profit_loss"`
	ProfitLossPercent float64   `json:"profit_loss_percent"`
	LastUpdate        time.Time `json:"last_update"`
}

// PortfolioTotal is the portfolio value rolled up in a single currency.
type PortfolioTotal struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// ProfitLossTotal is the portfolio profit/loss rolled up in a single currency.
type ProfitLossTotal struct {
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	Currency          string  `json:"currency"`
}

// ValueHistoryPoint is the portfolio value on one price date.
type ValueHistoryPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
