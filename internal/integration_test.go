package internal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"labstock-backend/internal/auth"
	"labstock-backend/internal/model"
	"labstock-backend/internal/store"
)

// TestProcurementLifecycle walks one equipment purchase from order
// placement through stock reconciliation to serialized units being
// received and eventually retired from tracking, verifying the ledger
// at each step.
func TestProcurementLifecycle(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file:procurement?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(
		&model.Equipment{},
		&model.Order{},
		&model.StockRecord{},
		&model.Instance{},
		&model.PushSubscription{},
	))
	require.NoError(t, testDB.Create(&model.Equipment{ID: 1, Name: "Orbital Shaker", Category: "mixing"}).Error)

	ctx := context.Background()
	s := store.NewGormStore(testDB, nil)
	actor := auth.Actor{ID: 1, Role: auth.RoleAdmin}
	lab := int64(1)

	var orderID int64
	t.Run("Order placed and completed", func(t *testing.T) {
		order, err := s.CreateOrder(ctx, store.CreateOrderInput{
			LabID:         &lab,
			EquipmentID:   1,
			PurchasePrice: decimal.RequireFromString("349.50"),
			Quantity:      3,
			Unit:          "unit",
			Notes:         "for the fermentation bench",
		})
		require.NoError(t, err)
		orderID = order.ID

		// Walk the usual progression; only COMPLETED touches the ledger.
		for _, status := range []model.OrderStatus{model.OrderValidated, model.OrderDelivered} {
			st := status
			_, err := s.UpdateOrder(ctx, orderID, store.OrderPatch{Status: &st}, actor)
			require.NoError(t, err)

			var count int64
			require.NoError(t, testDB.Model(&model.StockRecord{}).Count(&count).Error)
			assert.Equal(t, int64(0), count)
		}

		completed := model.OrderCompleted
		order, err = s.UpdateOrder(ctx, orderID, store.OrderPatch{Status: &completed}, actor)
		require.NoError(t, err)
		require.NotNil(t, order.ValidatedBy)
		require.NotNil(t, order.CompletedBy)

		var rec model.StockRecord
		require.NoError(t, testDB.Where("lab_id = ? AND equipment_id = ?", lab, 1).First(&rec).Error)
		assert.Equal(t, 3, rec.InitialQuantity)
		assert.Equal(t, 3, rec.RemainingQuantity)
	})

	t.Run("Units registered and received", func(t *testing.T) {
		// Track each delivered unit and mark it in use against the
		// stock record.
		used := 0
		for _, serial := range []string{"OS-001", "OS-002"} {
			inst, err := s.CreateInstance(ctx, store.CreateInstanceInput{
				LabID:        lab,
				EquipmentID:  1,
				SerialNumber: serial,
			}, actor)
			require.NoError(t, err)

			_, err = s.ReceiveInstance(ctx, inst.ID, actor)
			require.NoError(t, err)
			used++
		}

		var rec model.StockRecord
		require.NoError(t, testDB.Where("lab_id = ?", lab).First(&rec).Error)
		_, err := s.UpdateStock(ctx, rec.ID, store.StockPatch{UsedQuantity: &used})
		require.NoError(t, err)

		require.NoError(t, testDB.First(&rec, rec.ID).Error)
		assert.Equal(t, 2, rec.UsedQuantity)
		assert.Equal(t, 1, rec.RemainingQuantity)
	})

	t.Run("Retiring a unit releases usage", func(t *testing.T) {
		var inst model.Instance
		require.NoError(t, testDB.Where("serial_number = ?", "OS-002").First(&inst).Error)
		require.NoError(t, s.DeleteInstance(ctx, inst.ID))

		var rec model.StockRecord
		require.NoError(t, testDB.Where("lab_id = ?", lab).First(&rec).Error)
		assert.Equal(t, 1, rec.UsedQuantity)
		assert.Equal(t, 2, rec.RemainingQuantity)
	})

	t.Run("Deleting the order reverses its contribution", func(t *testing.T) {
		require.NoError(t, s.DeleteOrder(ctx, orderID))

		var rec model.StockRecord
		require.NoError(t, testDB.Where("lab_id = ?", lab).First(&rec).Error)
		assert.Equal(t, 0, rec.InitialQuantity)
		assert.Equal(t, 1, rec.UsedQuantity)
		assert.Equal(t, 0, rec.RemainingQuantity, "remaining clamps at zero after reversal")
	})
}
