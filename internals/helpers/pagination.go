package helper

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 200
)

type PageParams struct {
	Page    int
	PerPage int
}

// ParsePagination membaca ?page= & ?limit= dari query (clamp ke batas aman).
func ParsePagination(c *fiber.Ctx) PageParams {
	page, _ := strconv.Atoi(c.Query("page", strconv.Itoa(DefaultPage)))
	if page < 1 {
		page = DefaultPage
	}
	perPage, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultPerPage)))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.PerPage }

// Apply menerapkan limit+offset ke query GORM.
func (p PageParams) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Limit(p.PerPage).Offset(p.Offset())
}

// PaginationMeta untuk dikirim di response list.
func (p PageParams) Meta(total int64) fiber.Map {
	return fiber.Map{
		"page":     p.Page,
		"per_page": p.PerPage,
		"total":    total,
	}
}
