package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedData wraps a page of rows with the numbers a table view needs.
type PagedData struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

func RespondPage(c *gin.Context, message string, items interface{}, p Page, total int64) {
	RespondJSON(c, http.StatusOK, message, PagedData{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	})
}
