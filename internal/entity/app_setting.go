package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AppSetting stores an opaque UI preference blob (theme, window layout)
// under a string key. The core never interprets the value.
type AppSetting struct {
	Key       string         `gorm:"primaryKey;size:64" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
