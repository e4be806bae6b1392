package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"labstock-backend/internal/model"
)

// applyDelta adjusts the initial quantity of the stock record keyed by
// (lab, equipment), creating the record if a positive delta finds none.
// A negative delta against a missing record is rejected rather than
// seeding a negative baseline. Runs on the caller's handle so order
// reconciliation can share a transaction.
func applyDelta(tx *gorm.DB, labID, equipmentID int64, delta int, unit string) (*model.StockRecord, error) {
	var rec model.StockRecord
	err := tx.Where("lab_id = ? AND equipment_id = ?", labID, equipmentID).First(&rec).Error
	switch {
	case err == nil:
		rec.InitialQuantity += delta
		rec.RecalcRemaining()
		if err := tx.Save(&rec).Error; err != nil {
			return nil, fmt.Errorf("failed to save stock record %d: %w", rec.ID, err)
		}
		return &rec, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if delta < 0 {
			return nil, fmt.Errorf("no stock record for lab %d, equipment %d to decrement: %w", labID, equipmentID, ErrNotFound)
		}
		rec = model.StockRecord{
			LabID:           labID,
			EquipmentID:     equipmentID,
			InitialQuantity: delta,
			Unit:            unit,
		}
		rec.RecalcRemaining()
		if err := tx.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("failed to create stock record for lab %d, equipment %d: %w", labID, equipmentID, err)
		}
		return &rec, nil
	default:
		return nil, fmt.Errorf("failed to look up stock record for lab %d, equipment %d: %w", labID, equipmentID, err)
	}
}

// ApplyStockDelta is the upsert-on-delta primitive of the stock ledger.
// It is not idempotent across retries; callers invoke it exactly once
// per logical event.
func (s *gormStore) ApplyStockDelta(ctx context.Context, labID, equipmentID int64, delta int, unit string) (*model.StockRecord, error) {
	rec, err := applyDelta(s.db.WithContext(ctx), labID, equipmentID, delta, unit)
	if err != nil {
		return nil, err
	}
	s.maybeAlert(rec)
	return rec, nil
}

// CreateStock is the explicit creation path, distinct from the implicit
// upsert applied by deltas.
func (s *gormStore) CreateStock(ctx context.Context, in CreateStockInput) (*model.StockRecord, error) {
	if in.LabID == 0 || in.EquipmentID == 0 {
		return nil, fmt.Errorf("lab and equipment are required: %w", ErrInvalidInput)
	}
	if in.InitialQuantity < 0 || in.UsedQuantity < 0 || in.MinThreshold < 0 {
		return nil, fmt.Errorf("quantities must not be negative: %w", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.StockRecord{}).
		Where("lab_id = ? AND equipment_id = ?", in.LabID, in.EquipmentID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check for existing stock record: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("stock record for lab %d, equipment %d already exists: %w", in.LabID, in.EquipmentID, ErrConflict)
	}

	rec := model.StockRecord{
		LabID:           in.LabID,
		EquipmentID:     in.EquipmentID,
		InitialQuantity: in.InitialQuantity,
		UsedQuantity:    in.UsedQuantity,
		Unit:            in.Unit,
		MinThreshold:    in.MinThreshold,
		OrderID:         in.OrderID,
	}
	rec.RecalcRemaining()
	if err := db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create stock record: %w", err)
	}
	s.maybeAlert(&rec)
	return &rec, nil
}

// UpdateStock merges the patch into the record, re-deriving the
// remaining quantity whenever the initial or used quantity changes.
func (s *gormStore) UpdateStock(ctx context.Context, id int64, patch StockPatch) (*model.StockRecord, error) {
	db := s.db.WithContext(ctx)

	var rec model.StockRecord
	if err := db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stock record %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load stock record %d: %w", id, err)
	}

	touched := false
	if patch.InitialQuantity != nil {
		if *patch.InitialQuantity < 0 {
			return nil, fmt.Errorf("initial quantity must not be negative: %w", ErrInvalidInput)
		}
		rec.InitialQuantity = *patch.InitialQuantity
		touched = true
	}
	if patch.UsedQuantity != nil {
		if *patch.UsedQuantity < 0 {
			return nil, fmt.Errorf("used quantity must not be negative: %w", ErrInvalidInput)
		}
		rec.UsedQuantity = *patch.UsedQuantity
		touched = true
	}
	if patch.Unit != nil {
		rec.Unit = *patch.Unit
	}
	if patch.MinThreshold != nil {
		if *patch.MinThreshold < 0 {
			return nil, fmt.Errorf("threshold must not be negative: %w", ErrInvalidInput)
		}
		rec.MinThreshold = *patch.MinThreshold
	}
	if touched {
		rec.RecalcRemaining()
	}

	if err := db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to save stock record %d: %w", id, err)
	}
	s.maybeAlert(&rec)
	return &rec, nil
}

// DeleteStock removes the record. Instances tracked against the same
// (lab, equipment) pair are left untouched.
func (s *gormStore) DeleteStock(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.StockRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete stock record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock record %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) GetStock(ctx context.Context, id int64) (*model.StockRecord, error) {
	var rec model.StockRecord
	if err := s.db.WithContext(ctx).Preload("Equipment").First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stock record %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load stock record %d: %w", id, err)
	}
	return &rec, nil
}

func (s *gormStore) ListStocks(ctx context.Context, f StockFilter, page Page) ([]model.StockRecord, int64, error) {
	page = page.normalized()
	q := s.db.WithContext(ctx).Model(&model.StockRecord{})
	if f.LabID != nil {
		q = q.Where("lab_id = ?", *f.LabID)
	}
	if f.EquipmentID != nil {
		q = q.Where("equipment_id = ?", *f.EquipmentID)
	}
	if f.Low {
		q = q.Where("min_threshold > 0 AND remaining_quantity <= min_threshold")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock records: %w", err)
	}

	var recs []model.StockRecord
	if err := q.Preload("Equipment").
		Order("id").
		Offset(page.offset()).Limit(page.Limit).
		Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list stock records: %w", err)
	}
	return recs, total, nil
}
