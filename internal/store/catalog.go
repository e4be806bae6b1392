package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"labstock-backend/internal/model"
)

// Catalog reads. Equipment definitions are maintained outside this
// engine; only lookups live here.

func (s *gormStore) GetEquipment(ctx context.Context, id int64) (*model.Equipment, error) {
	var eq model.Equipment
	if err := s.db.WithContext(ctx).First(&eq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("equipment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load equipment %d: %w", id, err)
	}
	return &eq, nil
}

func (s *gormStore) ListEquipment(ctx context.Context, f EquipmentFilter, page Page) ([]model.Equipment, int64, error) {
	page = page.normalized()
	q := s.db.WithContext(ctx).Model(&model.Equipment{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	var items []model.Equipment
	if err := q.Order("name").
		Offset(page.offset()).Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, total, nil
}
