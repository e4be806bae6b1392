package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderValidated OrderStatus = "VALIDATED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCompleted OrderStatus = "COMPLETED"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderValidated, OrderDelivered, OrderCompleted:
		return true
	}
	return false
}

// Order is a purchase order for laboratory equipment. LabID is nil until
// the order is allocated to a lab; completing an order with a lab set
// contributes its quantity to that lab's stock record.
type Order struct {
	ID            int64           `gorm:"primaryKey"`
	LabID         *int64          `gorm:"index"`
	SupplierID    *int64          `gorm:"index"`
	EquipmentID   int64           `gorm:"index;not null"`
	PurchaseDate  time.Time
	PurchasePrice decimal.Decimal `gorm:"type:numeric(12,2)"`
	Quantity      int             `gorm:"not null"`
	Unit          string          `gorm:"size:32"`
	Status        OrderStatus     `gorm:"size:16;not null;index"`
	Notes         string          `gorm:"size:2048"`
	ValidatedBy   *int64
	CompletedBy   *int64
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	// Associations
	Equipment Equipment `gorm:"constraint:OnDelete:RESTRICT"`
}
