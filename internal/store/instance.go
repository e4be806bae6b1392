package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"labstock-backend/internal/auth"
	"labstock-backend/internal/metrics"
	"labstock-backend/internal/model"
)

func validInstanceStatus(s model.InstanceStatus) bool {
	switch s {
	case model.InstanceOperational, model.InstanceBroken, model.InstanceMaintenance, model.InstanceOutOfOrder:
		return true
	}
	return false
}

func validInventoryStatus(s model.InventoryStatus) bool {
	switch s {
	case model.InventoryInDelivery, model.InventoryAvailable, model.InventoryInUse, model.InventoryRetired:
		return true
	}
	return false
}

// CreateInstance registers a new serialized unit. Units always start in
// IN_DELIVERY; the receive operation is the only way to AVAILABLE. When
// an initial assignee is supplied the creator is recorded as assigner.
func (s *gormStore) CreateInstance(ctx context.Context, in CreateInstanceInput, creator auth.Actor) (*model.Instance, error) {
	if in.LabID == 0 || in.EquipmentID == 0 {
		return nil, fmt.Errorf("lab and equipment are required: %w", ErrInvalidInput)
	}
	if in.SerialNumber == "" {
		return nil, fmt.Errorf("serial number is required: %w", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = model.InstanceOperational
	}
	if !validInstanceStatus(status) {
		return nil, fmt.Errorf("unknown instance status %q: %w", in.Status, ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.Instance{}).
		Where("serial_number = ?", in.SerialNumber).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check serial number: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("serial number %q already registered: %w", in.SerialNumber, ErrConflict)
	}

	inst := model.Instance{
		LabID:           in.LabID,
		EquipmentID:     in.EquipmentID,
		SerialNumber:    in.SerialNumber,
		Status:          status,
		InventoryStatus: model.InventoryInDelivery,
		AssignedTo:      in.AssignedTo,
		LastMaintenance: in.LastMaintenance,
		NextMaintenance: in.NextMaintenance,
		CreatedBy:       &creator.ID,
	}
	if in.AssignedTo != nil {
		inst.AssignedBy = &creator.ID
	}

	if err := db.Create(&inst).Error; err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}
	return &inst, nil
}

// UpdateInstance merges the patch. Changing the assignee is gated by
// the reassignment policy; every other field merges without
// restriction.
func (s *gormStore) UpdateInstance(ctx context.Context, id int64, patch InstancePatch, actor auth.Actor) (*model.Instance, error) {
	db := s.db.WithContext(ctx)

	var inst model.Instance
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("instance %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load instance %d: %w", id, err)
	}

	if patch.AssignedTo != nil && !sameAssignee(*patch.AssignedTo, inst.AssignedTo) {
		if !auth.CanReassign(actor, inst) {
			return nil, fmt.Errorf("actor %d may not reassign instance %d: %w", actor.ID, id, ErrForbidden)
		}
		inst.AssignedTo = *patch.AssignedTo
		inst.AssignedBy = &actor.ID
	}

	if patch.LabID != nil {
		inst.LabID = *patch.LabID
	}
	if patch.EquipmentID != nil {
		inst.EquipmentID = *patch.EquipmentID
	}
	if patch.SerialNumber != nil && *patch.SerialNumber != inst.SerialNumber {
		var count int64
		if err := db.Model(&model.Instance{}).
			Where("serial_number = ? AND id <> ?", *patch.SerialNumber, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check serial number: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("serial number %q already registered: %w", *patch.SerialNumber, ErrConflict)
		}
		inst.SerialNumber = *patch.SerialNumber
	}
	if patch.Status != nil {
		if !validInstanceStatus(*patch.Status) {
			return nil, fmt.Errorf("unknown instance status %q: %w", *patch.Status, ErrInvalidInput)
		}
		inst.Status = *patch.Status
	}
	if patch.InventoryStatus != nil {
		if !validInventoryStatus(*patch.InventoryStatus) {
			return nil, fmt.Errorf("unknown inventory status %q: %w", *patch.InventoryStatus, ErrInvalidInput)
		}
		inst.InventoryStatus = *patch.InventoryStatus
	}
	if patch.LastMaintenance != nil {
		inst.LastMaintenance = patch.LastMaintenance
	}
	if patch.NextMaintenance != nil {
		inst.NextMaintenance = patch.NextMaintenance
	}

	if err := db.Save(&inst).Error; err != nil {
		return nil, fmt.Errorf("failed to save instance %d: %w", id, err)
	}
	return &inst, nil
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ReceiveInstance completes the receiving workflow for a delivered
// unit. Only IN_DELIVERY units can be received.
func (s *gormStore) ReceiveInstance(ctx context.Context, id int64, actor auth.Actor) (*model.Instance, error) {
	db := s.db.WithContext(ctx)

	var inst model.Instance
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("instance %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load instance %d: %w", id, err)
	}

	if inst.InventoryStatus != model.InventoryInDelivery {
		return nil, fmt.Errorf("instance %d is %s, not %s: %w", id, inst.InventoryStatus, model.InventoryInDelivery, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	inst.InventoryStatus = model.InventoryAvailable
	inst.ReceivedBy = &actor.ID
	inst.ReceivedDate = &now

	if err := db.Save(&inst).Error; err != nil {
		return nil, fmt.Errorf("failed to save instance %d: %w", id, err)
	}
	return &inst, nil
}

// DeleteInstance removes the unit and, best-effort, releases one unit
// of usage on the matching stock record. A missing stock record is
// skipped silently; a failed decrement is logged and counted but never
// blocks the delete.
func (s *gormStore) DeleteInstance(ctx context.Context, id int64) error {
	db := s.db.WithContext(ctx)

	var inst model.Instance
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("instance %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load instance %d: %w", id, err)
	}

	if err := db.Delete(&model.Instance{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete instance %d: %w", id, err)
	}

	s.releaseUsage(ctx, inst)
	return nil
}

// releaseUsage decrements the used quantity on the (lab, equipment)
// stock record by one, floored at zero.
func (s *gormStore) releaseUsage(ctx context.Context, inst model.Instance) {
	db := s.db.WithContext(ctx)

	var rec model.StockRecord
	err := db.Where("lab_id = ? AND equipment_id = ?", inst.LabID, inst.EquipmentID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	if err != nil {
		log.Printf("Warning: usage decrement lookup for instance %d failed: %v", inst.ID, err)
		metrics.ReconciliationFailures.WithLabelValues("instance_delete").Inc()
		return
	}
	if rec.UsedQuantity == 0 {
		return
	}

	rec.UsedQuantity--
	rec.RecalcRemaining()
	if err := db.Save(&rec).Error; err != nil {
		log.Printf("Warning: usage decrement for instance %d failed: %v", inst.ID, err)
		metrics.ReconciliationFailures.WithLabelValues("instance_delete").Inc()
	}
}

func (s *gormStore) GetInstance(ctx context.Context, id int64) (*model.Instance, error) {
	var inst model.Instance
	if err := s.db.WithContext(ctx).Preload("Equipment").First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("instance %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load instance %d: %w", id, err)
	}
	return &inst, nil
}

func (s *gormStore) ListInstances(ctx context.Context, f InstanceFilter, page Page) ([]model.Instance, int64, error) {
	page = page.normalized()
	q := s.db.WithContext(ctx).Model(&model.Instance{})
	if f.LabID != nil {
		q = q.Where("lab_id = ?", *f.LabID)
	}
	if f.EquipmentID != nil {
		q = q.Where("equipment_id = ?", *f.EquipmentID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.InventoryStatus != nil {
		q = q.Where("inventory_status = ?", *f.InventoryStatus)
	}
	if f.Search != "" {
		q = q.Where("serial_number LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count instances: %w", err)
	}

	var insts []model.Instance
	if err := q.Preload("Equipment").
		Order("id").
		Offset(page.offset()).Limit(page.Limit).
		Find(&insts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list instances: %w", err)
	}
	return insts, total, nil
}
