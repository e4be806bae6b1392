package model

import "time"

// PushSubscription holds a browser push subscription together with the
// stock records it wants low-stock alerts for.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Stocks []*StockRecord `gorm:"many2many:subscription_stock_mapping;"`
}
