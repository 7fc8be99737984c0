package entity

import "time"

// Asset is a tradable instrument identified by a unique symbol. Assets are
// seed data; the application reads them but never creates or edits them.
type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex" json:"symbol"`
	Name      string    `gorm:"not null" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Asset) TableName() string {
	return "assets"
}
