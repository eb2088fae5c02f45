package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Page int
	Size int
}

// ParsePage reads ?page and ?page_size, clamping to sane bounds.
func ParsePage(c *gin.Context) Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Page: page, Size: size}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Page) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
