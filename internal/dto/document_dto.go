package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id              uuid.UUID  `json:"id"`
	Filename        string     `json:"filename"`
	ProjectId       uuid.UUID  `json:"project_id"`
	Status          string     `json:"status"`
	ContentType     *string    `json:"content_type,omitempty"`
	AddedColContext *string    `json:"added_col_context,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// UploadProgress is streamed back per processed file while a batch
// upload runs.
type UploadProgress struct {
	Filename       string            `json:"filename"`
	TotalFiles     int               `json:"total_files"`
	ProcessedFiles int               `json:"processed_files"`
	Percent        float64           `json:"percent"`
	Document       *DocumentResponse `json:"document,omitempty"`
}

// UploadResult summarises a finished batch. Per-file failures are
// collected here; they never abort the batch.
type UploadResult struct {
	ProjectId      uuid.UUID          `json:"project_id"`
	ProjectCreated bool               `json:"project_created"`
	Documents      []DocumentResponse `json:"documents"`
	Failed         []UploadFailure    `json:"failed,omitempty"`
}

type UploadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// DocumentDownloadResponse carries a short-lived link to the stored file.
type DocumentDownloadResponse struct {
	Filename  string    `json:"filename"`
	Url       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublishProcessDocumentMessage is the payload handed to the document
// processing pipeline.
type PublishProcessDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
