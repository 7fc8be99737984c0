package dto

import (
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
)

// CreateAlertRequest is the payload for creating a price alert.
type CreateAlertRequest struct {
	AssetID        uint    `json:"asset_id"`
	AlertType      string  `json:"alert_type"`
	ThresholdValue float64 `json:"threshold_value"`
	Currency       string  `json:"currency"`
	Notes          string  `json:"notes"`
}

// TriggeredAlert describes one alert that fired during an evaluation pass,
// together with the price that fired it and a ready-to-display message.
type TriggeredAlert struct {
	Alert        entity.PriceAlert `json:"alert"`
	Symbol       string            `json:"symbol"`
	Name         string            `json:"name"`
	CurrentPrice float64           `json:"current_price"`
	Message      string            `json:"message"`
}
