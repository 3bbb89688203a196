package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkspaceSnapshot holds the autosaved workspace state as JSONB. One row
// per project; autosave is a full-state overwrite.
type WorkspaceSnapshot struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	SavedAt   time.Time      `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (WorkspaceSnapshot) TableName() string {
	return "workspace_snapshots"
}
