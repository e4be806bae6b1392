package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labstock-backend/internal/store"
)

type createStockRequest struct {
	LabID           int64  `json:"labId" binding:"required"`
	EquipmentID     int64  `json:"equipmentId" binding:"required"`
	InitialQuantity int    `json:"initialQuantity"`
	UsedQuantity    int    `json:"usedQuantity"`
	Unit            string `json:"unit"`
	MinThreshold    int    `json:"minThreshold"`
	OrderID         *int64 `json:"orderId"`
}

type updateStockRequest struct {
	InitialQuantity *int    `json:"initialQuantity"`
	UsedQuantity    *int    `json:"usedQuantity"`
	Unit            *string `json:"unit"`
	MinThreshold    *int    `json:"minThreshold"`
}

// CreateStock handles the POST /api/stocks request.
func (h *Handler) CreateStock(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.store.CreateStock(c.Request.Context(), store.CreateStockInput{
		LabID:           req.LabID,
		EquipmentID:     req.EquipmentID,
		InitialQuantity: req.InitialQuantity,
		UsedQuantity:    req.UsedQuantity,
		Unit:            req.Unit,
		MinThreshold:    req.MinThreshold,
		OrderID:         req.OrderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListStocks handles the GET /api/stocks request.
func (h *Handler) ListStocks(c *gin.Context) {
	page := pageFromQuery(c)
	filter := store.StockFilter{Low: c.Query("low") == "true"}
	var ok bool
	if filter.LabID, ok = queryInt64(c, "lab"); !ok {
		return
	}
	if filter.EquipmentID, ok = queryInt64(c, "equipment"); !ok {
		return
	}

	recs, total, err := h.store.ListStocks(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(recs, total, page))
}

// GetStock handles the GET /api/stocks/{id} request.
func (h *Handler) GetStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.store.GetStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateStock handles the PUT /api/stocks/{id} request.
func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.store.UpdateStock(c.Request.Context(), id, store.StockPatch{
		InitialQuantity: req.InitialQuantity,
		UsedQuantity:    req.UsedQuantity,
		Unit:            req.Unit,
		MinThreshold:    req.MinThreshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteStock handles the DELETE /api/stocks/{id} request.
func (h *Handler) DeleteStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteStock(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id path parameter, answering 400 itself on bad
// input.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional integer query parameter, answering 400
// itself when the value is present but malformed.
func queryInt64(c *gin.Context, key string) (*int64, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return nil, false
	}
	return &id, true
}
