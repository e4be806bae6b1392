package store

import (
	"context"

	"gorm.io/gorm"

	"labstock-backend/internal/auth"
	"labstock-backend/internal/metrics"
	"labstock-backend/internal/model"
)

// LowStockDispatcher receives the IDs of stock records whose remaining
// quantity has fallen to or below their alert threshold.
type LowStockDispatcher interface {
	Dispatch(stockID int64)
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Equipment catalog (read-only).
	GetEquipment(ctx context.Context, id int64) (*model.Equipment, error)
	ListEquipment(ctx context.Context, f EquipmentFilter, page Page) ([]model.Equipment, int64, error)

	// Stock ledger.
	ApplyStockDelta(ctx context.Context, labID, equipmentID int64, delta int, unit string) (*model.StockRecord, error)
	CreateStock(ctx context.Context, in CreateStockInput) (*model.StockRecord, error)
	UpdateStock(ctx context.Context, id int64, patch StockPatch) (*model.StockRecord, error)
	DeleteStock(ctx context.Context, id int64) error
	GetStock(ctx context.Context, id int64) (*model.StockRecord, error)
	ListStocks(ctx context.Context, f StockFilter, page Page) ([]model.StockRecord, int64, error)

	// Order ledger.
	CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch OrderPatch, actor auth.Actor) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, f OrderFilter, page Page) ([]model.Order, int64, error)

	// Instance registry.
	CreateInstance(ctx context.Context, in CreateInstanceInput, creator auth.Actor) (*model.Instance, error)
	UpdateInstance(ctx context.Context, id int64, patch InstancePatch, actor auth.Actor) (*model.Instance, error)
	ReceiveInstance(ctx context.Context, id int64, actor auth.Actor) (*model.Instance, error)
	DeleteInstance(ctx context.Context, id int64) error
	GetInstance(ctx context.Context, id int64) (*model.Instance, error)
	ListInstances(ctx context.Context, f InstanceFilter, page Page) ([]model.Instance, int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db     *gorm.DB
	alerts LowStockDispatcher
}

// NewGormStore creates a new GORM-backed store. The dispatcher may be
// nil, in which case low-stock alerting is disabled.
func NewGormStore(db *gorm.DB, alerts LowStockDispatcher) Store {
	return &gormStore{db: db, alerts: alerts}
}

// DB exposes the underlying handle for read paths that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// maybeAlert dispatches a low-stock alert for rec when it sits at or
// below its threshold. Safe to call with nil.
func (s *gormStore) maybeAlert(rec *model.StockRecord) {
	if rec == nil || s.alerts == nil || !rec.BelowThreshold() {
		return
	}
	metrics.LowStockAlerts.Inc()
	s.alerts.Dispatch(rec.ID)
}
