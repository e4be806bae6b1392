package model

import "time"

// Equipment is a catalog definition of an equipment type/model.
// The engine only reads it; catalog maintenance happens elsewhere.
type Equipment struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"uniqueIndex;size:256;not null"`
	Category    string    `gorm:"size:128;index"`
	Description string    `gorm:"size:1024"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
