package dto

import "time"

// SavePriceRequest is the payload for creating or overwriting a price
// observation. Close is a string so that comma decimal separators survive
// the transport untouched.
type SavePriceRequest struct {
	AssetID   uint   `json:"asset_id"`
	PriceDate string `json:"price_date"`
	Close     string `json:"close"`
	Currency  string `json:"currency"`
}

// PriceFilter narrows price queries. Zero-valued fields are ignored.
type PriceFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	AssetID  *uint
	Symbol   string
	Currency string
}

// HasFilters reports whether any criterion is set.
func (f PriceFilter) HasFilters() bool {
	return f.DateFrom != nil || f.DateTo != nil || f.AssetID != nil ||
		f.Symbol != "" || f.Currency != ""
}

// PriceView is a price row joined with its asset, enriched with the
// percentage change against the previous observation of the same symbol.
type PriceView struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Close         float64   `json:"close"`
	Currency      string    `json:"currency"`
	Source        string    `json:"source"`
	PriceDate     time.Time `json:"price_date"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
}
