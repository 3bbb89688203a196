package entity

import (
	"time"

	"github.com/google/uuid"
)

// Retention periods for temporary projects.
const (
	RetentionOneDay    = "1d"
	RetentionFiveDays  = "5d"
	RetentionThirtyDay = "30d"
	RetentionPermanent = "permanent"
)

type Project struct {
	Id              uuid.UUID
	Name            string
	Description     *string
	IsTemporary     bool
	RetentionPeriod string
	CategoryId      *uuid.UUID
	UserId          uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}

// RetentionDeadline returns when a temporary project expires, or false
// for permanent projects.
func (p *Project) RetentionDeadline() (time.Time, bool) {
	if !p.IsTemporary {
		return time.Time{}, false
	}
	base := p.CreatedAt
	if p.UpdatedAt != nil {
		base = *p.UpdatedAt
	}
	switch p.RetentionPeriod {
	case RetentionOneDay:
		return base.Add(24 * time.Hour), true
	case RetentionFiveDays:
		return base.Add(5 * 24 * time.Hour), true
	case RetentionThirtyDay:
		return base.Add(30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

type Category struct {
	Id        uuid.UUID
	Name      string
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
