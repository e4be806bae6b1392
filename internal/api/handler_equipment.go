package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labstock-backend/internal/store"
)

// Equipment definitions are reference data: the engine reads the
// catalog for identity and display, never mutates it.

// ListEquipment handles the GET /api/equipment request.
func (h *Handler) ListEquipment(c *gin.Context) {
	page := pageFromQuery(c)
	filter := store.EquipmentFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}

	items, total, err := h.store.ListEquipment(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(items, total, page))
}

// GetEquipment handles the GET /api/equipment/{id} request.
func (h *Handler) GetEquipment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	eq, err := h.store.GetEquipment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}
