package entity

import "time"

// DividendType enumerates the payment categories.
type DividendType string

const (
	DividendTypeRegular       DividendType = "regular"
	DividendTypeSpecial       DividendType = "special"
	DividendTypeCapitalReturn DividendType = "capital_return"
)

// Dividend is a dividend payment for an asset. One row per asset and
// payment date; saving again for the same key overwrites.
type Dividend struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	AssetID      uint         `gorm:"not null;uniqueIndex:idx_dividends_asset_date" json:"asset_id"`
	PaymentDate  time.Time    `gorm:"not null;uniqueIndex:idx_dividends_asset_date" json:"payment_date"`
	Amount       float64      `gorm:"not null" json:"amount"`
	Currency     string       `gorm:"not null;size:3;default:EUR" json:"currency"`
	TaxWithheld  float64      `gorm:"not null;default:0" json:"tax_withheld"`
	DividendType DividendType `gorm:"not null;default:regular" json:"dividend_type"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Dividend) TableName() string {
	return "dividends"
}

// NetAmount returns the payment net of withheld tax.
func (d Dividend) NetAmount() float64 {
	return d.Amount - d.TaxWithheld
}
