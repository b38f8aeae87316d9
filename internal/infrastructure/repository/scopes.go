package repository

import (
	"time"

	"github.com/sangkips/register-api/pkg/pagination"
	"gorm.io/gorm"
)

// DateRange returns a GORM scope bounding column to [from, to]. Either end
// may be nil. Bounds are compared in UTC because every timestamp is
// stored in UTC.
func DateRange(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where(column+" <= ?", to.UTC())
		}
		return db
	}
}

// Paginate returns a GORM scope applying offset and limit. A nil params
// means the first page at the default size.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}
