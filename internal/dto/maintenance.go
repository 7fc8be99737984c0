package dto

// OrphanReport lists rows whose asset no longer exists, per table.
type OrphanReport struct {
	Transactions int64 `json:"transactions"`
	Prices       int64 `json:"prices"`
	Dividends    int64 `json:"dividends"`
	PriceAlerts  int64 `json:"price_alerts"`
}

// Total returns the overall number of orphaned rows.
func (r OrphanReport) Total() int64 {
	return r.Transactions + r.Prices + r.Dividends + r.PriceAlerts
}
