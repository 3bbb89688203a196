package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCategoryID struct {
	CategoryID uuid.UUID
}

func (s ByCategoryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

// TemporaryOnly selects auto-expiring projects for the retention sweep.
type TemporaryOnly struct{}

func (s TemporaryOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_temporary = ?", true)
}

// UpdatedSince bounds the recent-project grouping windows. Projects that
// were never updated fall back to their creation time.
type UpdatedSince struct {
	Since time.Time
}

func (s UpdatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("COALESCE(updated_at, created_at) >= ?", s.Since)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
