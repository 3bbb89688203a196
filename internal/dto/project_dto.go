package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     *string `json:"description"`
	IsTemporary     bool    `json:"is_temporary"`
	RetentionPeriod string  `json:"retention_period" validate:"required,oneof=1d 5d 30d permanent"`
}

type CreateProjectResponse struct {
	Id              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	IsTemporary     bool      `json:"is_temporary"`
	RetentionPeriod string    `json:"retention_period"`
	CreatedAt       time.Time `json:"created_at"`
}

type UpdateProjectRequest struct {
	Id         uuid.UUID
	Name       *string    `json:"name"`
	CategoryId *uuid.UUID `json:"category_id"`
}

type UpdateProjectResponse struct {
	Id uuid.UUID `json:"id"`
}

type ProjectSummary struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	IsTemporary bool       `json:"is_temporary"`
	CategoryId  *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// RecentProjectsResponse groups projects by recency window relative to
// the request time.
type RecentProjectsResponse struct {
	Today      []ProjectSummary `json:"today"`
	Last7Days  []ProjectSummary `json:"last_7_days"`
	Last30Days []ProjectSummary `json:"last_30_days"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateCategoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type CategoryResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
