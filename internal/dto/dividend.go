package dto

// AddDividendRequest is the payload for recording a dividend payment.
// Amount and TaxWithheld are strings so that comma decimal separators
// survive the transport untouched; an empty tax means none withheld.
type AddDividendRequest struct {
	AssetID      uint   `json:"asset_id"`
	PaymentDate  string `json:"payment_date"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	TaxWithheld  string `json:"tax_withheld"`
	DividendType string `json:"dividend_type"`
	Notes        string `json:"notes"`
}

// DividendSummary aggregates the dividends of one asset in one currency.
// AnnualYield is nil when the asset has no positive holdings or no price.
type DividendSummary struct {
	AssetID         uint     `json:"asset_id"`
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name"`
	NetDividends    float64  `json:"net_dividends"`
	DividendCount   int      `json:"dividend_count"`
	AverageDividend float64  `json:"average_dividend"`
	Currency        string   `json:"currency"`
	CurrentHoldings float64  `json:"current_holdings"`
	AnnualYield     *float64 `json:"annual_yield,omitempty"`
}
