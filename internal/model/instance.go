package model

import "time"

// InstanceStatus is the operational condition of a physical unit.
type InstanceStatus string

const (
	InstanceOperational InstanceStatus = "OPERATIONAL"
	InstanceBroken      InstanceStatus = "BROKEN"
	InstanceMaintenance InstanceStatus = "MAINTENANCE"
	InstanceOutOfOrder  InstanceStatus = "OUT_OF_ORDER"
)

// InventoryStatus tracks a unit through the receiving workflow.
type InventoryStatus string

const (
	InventoryInDelivery InventoryStatus = "IN_DELIVERY"
	InventoryAvailable  InventoryStatus = "AVAILABLE"
	InventoryInUse      InventoryStatus = "IN_USE"
	InventoryRetired    InventoryStatus = "RETIRED"
)

// Instance is an individually serial-numbered physical unit of equipment
// assigned to a lab.
type Instance struct {
	ID              int64           `gorm:"primaryKey"`
	LabID           int64           `gorm:"index;not null"`
	EquipmentID     int64           `gorm:"index;not null"`
	SerialNumber    string          `gorm:"uniqueIndex;size:128;not null"`
	Status          InstanceStatus  `gorm:"size:16;not null"`
	InventoryStatus InventoryStatus `gorm:"size:16;not null;index"`
	AssignedTo      *int64
	AssignedBy      *int64
	ReceivedBy      *int64
	ReceivedDate    *time.Time
	LastMaintenance *time.Time
	NextMaintenance *time.Time
	CreatedBy       *int64
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`

	// Associations
	Equipment Equipment `gorm:"constraint:OnDelete:RESTRICT"`
}
