package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labstock-backend/internal/model"
	"labstock-backend/internal/store"
)

// optionalID is a patch field that tells an absent key apart from an
// explicit null, so an assignee can be cleared over the API.
type optionalID struct {
	set   bool
	value *int64
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, []byte("null")) {
		o.value = nil
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

type createInstanceRequest struct {
	LabID           int64                `json:"labId" binding:"required"`
	EquipmentID     int64                `json:"equipmentId" binding:"required"`
	SerialNumber    string               `json:"serialNumber" binding:"required"`
	Status          model.InstanceStatus `json:"status"`
	AssignedTo      *int64               `json:"assignedTo"`
	LastMaintenance *time.Time           `json:"lastMaintenance"`
	NextMaintenance *time.Time           `json:"nextMaintenance"`
}

type updateInstanceRequest struct {
	LabID           *int64                 `json:"labId"`
	EquipmentID     *int64                 `json:"equipmentId"`
	SerialNumber    *string                `json:"serialNumber"`
	Status          *model.InstanceStatus  `json:"status"`
	InventoryStatus *model.InventoryStatus `json:"inventoryStatus"`
	AssignedTo      optionalID             `json:"assignedTo"`
	LastMaintenance *time.Time             `json:"lastMaintenance"`
	NextMaintenance *time.Time             `json:"nextMaintenance"`
}

// CreateInstance handles the POST /api/instances request.
func (h *Handler) CreateInstance(c *gin.Context) {
	var req createInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.store.CreateInstance(c.Request.Context(), store.CreateInstanceInput{
		LabID:           req.LabID,
		EquipmentID:     req.EquipmentID,
		SerialNumber:    req.SerialNumber,
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		LastMaintenance: req.LastMaintenance,
		NextMaintenance: req.NextMaintenance,
	}, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

// ListInstances handles the GET /api/instances request.
func (h *Handler) ListInstances(c *gin.Context) {
	page := pageFromQuery(c)
	filter := store.InstanceFilter{Search: c.Query("q")}
	var ok bool
	if filter.LabID, ok = queryInt64(c, "lab"); !ok {
		return
	}
	if filter.EquipmentID, ok = queryInt64(c, "equipment"); !ok {
		return
	}
	if v := c.Query("status"); v != "" {
		status := model.InstanceStatus(v)
		filter.Status = &status
	}
	if v := c.Query("inventoryStatus"); v != "" {
		status := model.InventoryStatus(v)
		filter.InventoryStatus = &status
	}

	insts, total, err := h.store.ListInstances(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(insts, total, page))
}

// GetInstance handles the GET /api/instances/{id} request.
func (h *Handler) GetInstance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	inst, err := h.store.GetInstance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// UpdateInstance handles the PUT /api/instances/{id} request.
// Reassignment is authorization-gated; everything else merges freely.
func (h *Handler) UpdateInstance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.InstancePatch{
		LabID:           req.LabID,
		EquipmentID:     req.EquipmentID,
		SerialNumber:    req.SerialNumber,
		Status:          req.Status,
		InventoryStatus: req.InventoryStatus,
		LastMaintenance: req.LastMaintenance,
		NextMaintenance: req.NextMaintenance,
	}
	if req.AssignedTo.set {
		patch.AssignedTo = &req.AssignedTo.value
	}

	inst, err := h.store.UpdateInstance(c.Request.Context(), id, patch, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// ReceiveInstance handles the POST /api/instances/{id}/receive request,
// moving a delivered unit from IN_DELIVERY to AVAILABLE.
func (h *Handler) ReceiveInstance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	inst, err := h.store.ReceiveInstance(c.Request.Context(), id, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// DeleteInstance handles the DELETE /api/instances/{id} request.
func (h *Handler) DeleteInstance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteInstance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
