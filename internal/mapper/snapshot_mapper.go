package mapper

import (
	"time"

	"doceasy-be/internal/entity"
	"doceasy-be/internal/model"

	"gorm.io/datatypes"
)

type SnapshotMapper struct{}

func NewSnapshotMapper() *SnapshotMapper {
	return &SnapshotMapper{}
}

func (m *SnapshotMapper) ToEntity(s *model.WorkspaceSnapshot) *entity.WorkspaceSnapshot {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.WorkspaceSnapshot{
		Id:        s.Id,
		ProjectId: s.ProjectId,
		UserId:    s.UserId,
		State:     []byte(s.State),
		SavedAt:   s.SavedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SnapshotMapper) ToModel(s *entity.WorkspaceSnapshot) *model.WorkspaceSnapshot {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.WorkspaceSnapshot{
		Id:        s.Id,
		ProjectId: s.ProjectId,
		UserId:    s.UserId,
		State:     datatypes.JSON(s.State),
		SavedAt:   s.SavedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
