package entity

import "time"

// AlertType enumerates the supported alert predicates.
type AlertType string

const (
	AlertTypeAbove         AlertType = "above"
	AlertTypeBelow         AlertType = "below"
	AlertTypeChangePercent AlertType = "change_percent"
)

// PriceAlert is a standing rule comparing an asset's latest price (or its
// day-over-day change) against a threshold. An alert fires once: the
// triggered flag latches and is never reset automatically.
type PriceAlert struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AssetID          uint       `gorm:"not null;index" json:"asset_id"`
	AlertType        AlertType  `gorm:"not null" json:"alert_type"`
	ThresholdValue   float64    `gorm:"not null" json:"threshold_value"`
	Currency         string     `gorm:"not null;size:3" json:"currency"`
	Active           bool       `gorm:"not null;default:true;index:idx_price_alerts_active" json:"active"`
	Triggered        bool       `gorm:"not null;default:false;index:idx_price_alerts_active" json:"triggered"`
	TriggeredAt      *time.Time `json:"triggered_at"`
	NotificationSent bool       `gorm:"not null;default:false" json:"notification_sent"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceAlert) TableName() string {
	return "price_alerts"
}
