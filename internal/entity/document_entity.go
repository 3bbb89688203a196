package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

// Status lifecycle is server-driven: UPLOADING on record creation,
// PROCESSING once the pipeline picks the file up, then COMPLETED or
// FAILED. Clients only reflect pushed transitions.
const (
	DocumentStatusUploading  DocumentStatus = "UPLOADING"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusCompleted  DocumentStatus = "COMPLETED"
	DocumentStatusFailed     DocumentStatus = "FAILED"
)

type Document struct {
	Id              uuid.UUID
	Filename        string
	ProjectId       uuid.UUID
	UserId          uuid.UUID
	Status          DocumentStatus
	ContentType     *string
	AddedColContext *string
	StorageKey      string
	SizeBytes       int64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
