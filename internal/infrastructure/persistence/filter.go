package persistence

import (
	"strings"

	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies page/size and ordering from the filter. The
// order column is checked against an allow list so caller input can never
// reach the ORDER BY clause unvalidated.
func applyPagination(query *gorm.DB, filter shared.Filter, sortable map[string]bool, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && sortable[filter.OrderBy] {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}
