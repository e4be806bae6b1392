package model

import "time"

// StockRecord is the aggregate quantity ledger for one (lab, equipment)
// pair. At most one record exists per pair.
type StockRecord struct {
	ID                int64     `gorm:"primaryKey"`
	LabID             int64     `gorm:"not null;uniqueIndex:idx_stock_lab_equipment"`
	EquipmentID       int64     `gorm:"not null;uniqueIndex:idx_stock_lab_equipment"`
	InitialQuantity   int       `gorm:"not null"`
	UsedQuantity      int       `gorm:"not null"`
	RemainingQuantity int       `gorm:"not null"`
	Unit              string    `gorm:"size:32"`
	MinThreshold      int       `gorm:"not null"`
	OrderID           *int64    `gorm:"index"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`

	// Associations
	Equipment Equipment `gorm:"constraint:OnDelete:RESTRICT"`
}

// RecalcRemaining re-derives RemainingQuantity from the initial and used
// quantities, clamped at zero. Call it after any write that touches
// InitialQuantity or UsedQuantity.
func (s *StockRecord) RecalcRemaining() {
	remaining := s.InitialQuantity - s.UsedQuantity
	if remaining < 0 {
		remaining = 0
	}
	s.RemainingQuantity = remaining
}

// BelowThreshold reports whether the record should raise a low-stock
// alert. A zero threshold disables alerting for the record.
func (s *StockRecord) BelowThreshold() bool {
	return s.MinThreshold > 0 && s.RemainingQuantity <= s.MinThreshold
}
