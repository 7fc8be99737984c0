package entity

import "time"

// TransactionType distinguishes buy and sell ledger entries.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is one entry of the buy/sell ledger. Entries are immutable
// once created; the ledger only grows or loses whole rows.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	AssetID         uint            `gorm:"not null;index:idx_transactions_asset_date" json:"asset_id"`
	Type            TransactionType `gorm:"column:transaction_type;not null" json:"type"`
	Quantity        float64         `gorm:"not null" json:"quantity"`
	Price           float64         `gorm:"not null" json:"price"`
	Currency        string          `gorm:"not null;size:3" json:"currency"`
	TransactionDate time.Time       `gorm:"not null;index:idx_transactions_asset_date" json:"transaction_date"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "portfolio_transactions"
}

// SignedQuantity returns the quantity with a buy counted positive and a
// sell counted negative.
func (t Transaction) SignedQuantity() float64 {
	if t.Type == TransactionTypeSell {
		return -t.Quantity
	}
	return t.Quantity
}
