package implementation

import (
	"context"
	"errors"

	"doceasy-be/internal/entity"
	"doceasy-be/internal/mapper"
	"doceasy-be/internal/model"
	"doceasy-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceSnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SnapshotMapper
}

func NewWorkspaceSnapshotRepository(db *gorm.DB) contract.WorkspaceSnapshotRepository {
	return &WorkspaceSnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewSnapshotMapper(),
	}
}

func (r *WorkspaceSnapshotRepositoryImpl) Upsert(ctx context.Context, snapshot *entity.WorkspaceSnapshot) error {
	m := r.mapper.ToModel(snapshot)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "saved_at", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*snapshot = *r.mapper.ToEntity(m)
	return nil
}

func (r *WorkspaceSnapshotRepositoryImpl) FindByProjectId(ctx context.Context, projectId uuid.UUID) (*entity.WorkspaceSnapshot, error) {
	var m model.WorkspaceSnapshot
	err := r.db.WithContext(ctx).Where("project_id = ?", projectId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WorkspaceSnapshotRepositoryImpl) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Delete(&model.WorkspaceSnapshot{}).Error
}
