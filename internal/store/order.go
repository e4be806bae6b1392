package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"labstock-backend/internal/auth"
	"labstock-backend/internal/metrics"
	"labstock-backend/internal/model"
)

func validateOrderBasics(equipmentID int64, quantity int, priceNegative bool) error {
	if equipmentID == 0 {
		return fmt.Errorf("equipment is required: %w", ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	if priceNegative {
		return fmt.Errorf("purchase price must not be negative: %w", ErrInvalidInput)
	}
	return nil
}

// CreateOrder persists a new purchase order. An order created directly
// in COMPLETED with a lab set contributes its quantity to the lab's
// stock record in the same transaction.
func (s *gormStore) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrderBasics(in.EquipmentID, in.Quantity, in.PurchasePrice.IsNegative()); err != nil {
		return nil, err
	}
	status := model.OrderPending
	if in.Status != nil {
		if !model.ValidOrderStatus(*in.Status) {
			return nil, fmt.Errorf("unknown order status %q: %w", *in.Status, ErrInvalidInput)
		}
		status = *in.Status
	}

	order := model.Order{
		LabID:         in.LabID,
		SupplierID:    in.SupplierID,
		EquipmentID:   in.EquipmentID,
		PurchaseDate:  in.PurchaseDate,
		PurchasePrice: in.PurchasePrice,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		Status:        status,
		Notes:         in.Notes,
	}

	var stock *model.StockRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if order.Status == model.OrderCompleted && order.LabID != nil {
			rec, err := applyDelta(tx, *order.LabID, order.EquipmentID, order.Quantity, order.Unit)
			if err != nil {
				return err
			}
			stock = rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.maybeAlert(stock)
	return &order, nil
}

// UpdateOrder merges the patch and reconciles the stock ledger around
// the COMPLETED boundary. Entering COMPLETED applies the (possibly
// just-updated) quantity to the patched lab; leaving COMPLETED reverses
// the quantity that was applied, against the pre-patch lab and
// equipment. A patch that keeps the order COMPLETED never re-applies a
// delta, even when lab, equipment or quantity changed. Orders without a
// lab skip reconciliation entirely. The order write and the stock write
// share one transaction.
func (s *gormStore) UpdateOrder(ctx context.Context, id int64, patch OrderPatch, actor auth.Actor) (*model.Order, error) {
	var updated model.Order
	var stock *model.StockRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load order %d: %w", id, err)
		}
		prev := order
		oldStatus := order.Status

		if patch.LabID != nil {
			order.LabID = patch.LabID
		}
		if patch.SupplierID != nil {
			order.SupplierID = patch.SupplierID
		}
		if patch.EquipmentID != nil {
			order.EquipmentID = *patch.EquipmentID
		}
		if patch.PurchaseDate != nil {
			order.PurchaseDate = *patch.PurchaseDate
		}
		if patch.PurchasePrice != nil {
			order.PurchasePrice = *patch.PurchasePrice
		}
		if patch.Quantity != nil {
			order.Quantity = *patch.Quantity
		}
		if patch.Unit != nil {
			order.Unit = *patch.Unit
		}
		if patch.Notes != nil {
			order.Notes = *patch.Notes
		}
		if err := validateOrderBasics(order.EquipmentID, order.Quantity, order.PurchasePrice.IsNegative()); err != nil {
			return err
		}

		newStatus := oldStatus
		if patch.Status != nil {
			if !model.ValidOrderStatus(*patch.Status) {
				return fmt.Errorf("unknown order status %q: %w", *patch.Status, ErrInvalidInput)
			}
			newStatus = *patch.Status
			order.Status = newStatus
		}

		// Identity bookkeeping on status boundaries.
		if newStatus == model.OrderValidated && oldStatus != model.OrderValidated && order.ValidatedBy == nil {
			order.ValidatedBy = &actor.ID
		}
		if newStatus == model.OrderCompleted && oldStatus != model.OrderCompleted && order.CompletedBy == nil {
			order.CompletedBy = &actor.ID
		}

		switch {
		case newStatus == model.OrderCompleted && oldStatus != model.OrderCompleted:
			if order.LabID != nil {
				rec, err := applyDelta(tx, *order.LabID, order.EquipmentID, order.Quantity, order.Unit)
				if err != nil {
					return err
				}
				stock = rec
			}
		case oldStatus == model.OrderCompleted && newStatus != model.OrderCompleted && patch.Status != nil:
			if prev.LabID != nil {
				rec, err := applyDelta(tx, *prev.LabID, prev.EquipmentID, -prev.Quantity, prev.Unit)
				if err != nil {
					return err
				}
				stock = rec
			}
		}

		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order %d: %w", id, err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.maybeAlert(stock)
	return &updated, nil
}

// DeleteOrder removes the order. A COMPLETED order with a lab set first
// reverses its contribution to the stock ledger; the reversal is
// best-effort and its failure never blocks the delete.
func (s *gormStore) DeleteOrder(ctx context.Context, id int64) error {
	db := s.db.WithContext(ctx)

	var order model.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load order %d: %w", id, err)
	}

	if order.Status == model.OrderCompleted && order.LabID != nil {
		rec, err := applyDelta(db, *order.LabID, order.EquipmentID, -order.Quantity, order.Unit)
		if err != nil {
			log.Printf("Warning: stock reversal for deleted order %d failed: %v", id, err)
			metrics.ReconciliationFailures.WithLabelValues("order_delete").Inc()
		} else {
			s.maybeAlert(rec)
		}
	}

	if err := db.Delete(&model.Order{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	return nil
}

func (s *gormStore) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("Equipment").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

func (s *gormStore) ListOrders(ctx context.Context, f OrderFilter, page Page) ([]model.Order, int64, error) {
	page = page.normalized()
	q := s.db.WithContext(ctx).Model(&model.Order{})
	if f.LabID != nil {
		q = q.Where("lab_id = ?", *f.LabID)
	}
	if f.EquipmentID != nil {
		q = q.Where("equipment_id = ?", *f.EquipmentID)
	}
	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Search != "" {
		q = q.Where("notes LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []model.Order
	if err := q.Preload("Equipment").
		Order("id DESC").
		Offset(page.offset()).Limit(page.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}
