package unitofwork

import (
	"context"

	"doceasy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProjectRepository() contract.ProjectRepository
	CategoryRepository() contract.CategoryRepository
	DocumentRepository() contract.DocumentRepository
	ChatMessageRepository() contract.ChatMessageRepository
	WorkspaceSnapshotRepository() contract.WorkspaceSnapshotRepository
}
