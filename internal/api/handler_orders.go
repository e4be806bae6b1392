package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"labstock-backend/internal/model"
	"labstock-backend/internal/store"
)

type createOrderRequest struct {
	LabID         int64              `json:"labId"`
	SupplierID    *int64             `json:"supplierId"`
	EquipmentID   int64              `json:"equipmentId" binding:"required"`
	PurchaseDate  *time.Time         `json:"purchaseDate"`
	PurchasePrice decimal.Decimal    `json:"purchasePrice"`
	Quantity      int                `json:"quantity" binding:"required,min=1"`
	Unit          string             `json:"unit"`
	Status        *model.OrderStatus `json:"status"`
	Notes         string             `json:"notes"`
}

type updateOrderRequest struct {
	LabID         *int64             `json:"labId"`
	SupplierID    *int64             `json:"supplierId"`
	EquipmentID   *int64             `json:"equipmentId"`
	PurchaseDate  *time.Time         `json:"purchaseDate"`
	PurchasePrice *decimal.Decimal   `json:"purchasePrice"`
	Quantity      *int               `json:"quantity"`
	Unit          *string            `json:"unit"`
	Status        *model.OrderStatus `json:"status"`
	Notes         *string            `json:"notes"`
}

// CreateOrder handles the POST /api/orders request.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.CreateOrderInput{
		SupplierID:    req.SupplierID,
		EquipmentID:   req.EquipmentID,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Status:        req.Status,
		Notes:         req.Notes,
	}
	if req.LabID != 0 {
		in.LabID = &req.LabID
	}
	if req.PurchaseDate != nil {
		in.PurchaseDate = *req.PurchaseDate
	}

	order, err := h.store.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles the GET /api/orders request.
func (h *Handler) ListOrders(c *gin.Context) {
	page := pageFromQuery(c)
	filter := store.OrderFilter{Search: c.Query("q")}
	var ok bool
	if filter.LabID, ok = queryInt64(c, "lab"); !ok {
		return
	}
	if filter.EquipmentID, ok = queryInt64(c, "equipment"); !ok {
		return
	}
	if filter.SupplierID, ok = queryInt64(c, "supplier"); !ok {
		return
	}
	if v := c.Query("status"); v != "" {
		status := model.OrderStatus(v)
		filter.Status = &status
	}

	orders, total, err := h.store.ListOrders(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(orders, total, page))
}

// GetOrder handles the GET /api/orders/{id} request.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles the PUT /api/orders/{id} request. Status changes
// across the COMPLETED boundary reconcile the stock ledger.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.store.UpdateOrder(c.Request.Context(), id, store.OrderPatch{
		LabID:         req.LabID,
		SupplierID:    req.SupplierID,
		EquipmentID:   req.EquipmentID,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Status:        req.Status,
		Notes:         req.Notes,
	}, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles the DELETE /api/orders/{id} request.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
