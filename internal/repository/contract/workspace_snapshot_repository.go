package contract

import (
	"context"

	"doceasy-be/internal/entity"

	"github.com/google/uuid"
)

type WorkspaceSnapshotRepository interface {
	// Upsert overwrites the snapshot for the project, creating the row on
	// first save. Full-state overwrite keeps the operation idempotent.
	Upsert(ctx context.Context, snapshot *entity.WorkspaceSnapshot) error
	FindByProjectId(ctx context.Context, projectId uuid.UUID) (*entity.WorkspaceSnapshot, error)
	DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error
}
