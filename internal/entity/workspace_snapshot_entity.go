package entity

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceSnapshot is the autosaved view-state of a project workspace.
// Saves are full-state overwrites, so re-applying the same snapshot is
// idempotent and one row per project suffices.
type WorkspaceSnapshot struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	UserId    uuid.UUID
	State     []byte // JSON-encoded workspace.State
	SavedAt   time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}
