package store

import (
	"time"

	"github.com/shopspring/decimal"

	"labstock-backend/internal/model"
)

// Page bounds paginated list queries.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalized() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

// EquipmentFilter narrows catalog listings.
type EquipmentFilter struct {
	Category string
	Search   string
}

// CreateStockInput is the explicit creation path for a stock record.
type CreateStockInput struct {
	LabID           int64
	EquipmentID     int64
	InitialQuantity int
	UsedQuantity    int
	Unit            string
	MinThreshold    int
	OrderID         *int64
}

// StockPatch holds the fields of a stock record that may be updated.
// Nil fields are left untouched.
type StockPatch struct {
	InitialQuantity *int
	UsedQuantity    *int
	Unit            *string
	MinThreshold    *int
}

// StockFilter narrows stock listings. Low selects records at or below
// their alert threshold.
type StockFilter struct {
	LabID       *int64
	EquipmentID *int64
	Low         bool
}

// CreateOrderInput carries a new purchase order. Status defaults to
// PENDING when nil.
type CreateOrderInput struct {
	LabID         *int64
	SupplierID    *int64
	EquipmentID   int64
	PurchaseDate  time.Time
	PurchasePrice decimal.Decimal
	Quantity      int
	Unit          string
	Status        *model.OrderStatus
	Notes         string
}

// OrderPatch holds the updatable fields of an order. Nil fields are
// left untouched; a non-nil Status drives reconciliation.
type OrderPatch struct {
	LabID         *int64
	SupplierID    *int64
	EquipmentID   *int64
	PurchaseDate  *time.Time
	PurchasePrice *decimal.Decimal
	Quantity      *int
	Unit          *string
	Status        *model.OrderStatus
	Notes         *string
}

// OrderFilter narrows order listings. Search matches against notes.
type OrderFilter struct {
	LabID       *int64
	EquipmentID *int64
	SupplierID  *int64
	Status      *model.OrderStatus
	Search      string
}

// CreateInstanceInput carries a new serialized equipment unit. The
// inventory status is always IN_DELIVERY on creation.
type CreateInstanceInput struct {
	LabID           int64
	EquipmentID     int64
	SerialNumber    string
	Status          model.InstanceStatus
	AssignedTo      *int64
	LastMaintenance *time.Time
	NextMaintenance *time.Time
}

// InstancePatch holds the updatable fields of an instance. AssignedTo
// is doubly indirect so the patch can distinguish "leave the assignee
// alone" (outer nil) from "clear the assignee" (inner nil); changing
// the assignee either way triggers the reassignment authorization
// check.
type InstancePatch struct {
	LabID           *int64
	EquipmentID     *int64
	SerialNumber    *string
	Status          *model.InstanceStatus
	InventoryStatus *model.InventoryStatus
	AssignedTo      **int64
	LastMaintenance *time.Time
	NextMaintenance *time.Time
}

// InstanceFilter narrows instance listings. Search matches against the
// serial number.
type InstanceFilter struct {
	LabID           *int64
	EquipmentID     *int64
	Status          *model.InstanceStatus
	InventoryStatus *model.InventoryStatus
	Search          string
}
