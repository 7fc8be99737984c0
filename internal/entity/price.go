package entity

import "time"

// Price is a single end-of-day price observation. At most one row exists per
// asset and date; saving again for the same key overwrites the old values.
type Price struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AssetID   uint      `gorm:"not null;uniqueIndex:idx_prices_asset_date" json:"asset_id"`
	PriceDate time.Time `gorm:"not null;uniqueIndex:idx_prices_asset_date" json:"price_date"`
	Close     float64   `gorm:"not null" json:"close"`
	Currency  string    `gorm:"not null;size:3" json:"currency"`
	Source    string    `json:"source"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Price) TableName() string {
	return "prices"
}
