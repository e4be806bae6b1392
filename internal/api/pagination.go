package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"labstock-backend/internal/store"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type listResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// pageFromQuery reads the page and limit query parameters, applying the
// same bounds the store enforces.
func pageFromQuery(c *gin.Context) store.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return store.Page{Page: page, Limit: limit}
}

func paginated(data any, total int64, p store.Page) listResponse {
	totalPages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		totalPages++
	}
	return listResponse{
		Data: data,
		Pagination: pagination{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: totalPages,
		},
	}
}
