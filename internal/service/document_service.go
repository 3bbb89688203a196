package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/events"
	pktNats "doceasy-be/pkg/nats"

	"github.com/google/uuid"
)

// MaxUploadBatch caps a single multi-file upload.
const MaxUploadBatch = 100

// ObjectStorage is the slice of the object store the document flows need.
// Satisfied by *storage.ObjectStore.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ProgressFunc receives one update per processed file.
type ProgressFunc func(progress dto.UploadProgress)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, projectId *uuid.UUID, files []*multipart.FileHeader, onProgress ProgressFunc) (*dto.UploadResult, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Download(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDownloadResponse, error)
	GetByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	projectService   IProjectService
	publisherService IPublisherService
	objectStore      ObjectStorage
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	projectService IProjectService,
	publisherService IPublisherService,
	objectStore ObjectStorage,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		projectService:   projectService,
		publisherService: publisherService,
		objectStore:      objectStore,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// deriveProjectName builds an auto-created project's name from the first
// uploaded filename. Multi-file batches get a pluralized name.
func deriveProjectName(filenames []string) string {
	if len(filenames) == 0 {
		return "Untitled"
	}

	base := strings.TrimSuffix(filenames[0], filepath.Ext(filenames[0]))
	base = strings.TrimSpace(base)
	if base == "" {
		base = "Untitled"
	}

	if len(filenames) > 1 && !strings.HasSuffix(strings.ToLower(base), "s") {
		base += "s"
	}
	return base
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, projectId *uuid.UUID, files []*multipart.FileHeader, onProgress ProgressFunc) (*dto.UploadResult, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to upload")
	}
	if len(files) > MaxUploadBatch {
		return nil, fmt.Errorf("cannot upload more than %d files at once", MaxUploadBatch)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	result := &dto.UploadResult{
		Documents: []dto.DocumentResponse{},
		Failed:    []dto.UploadFailure{},
	}

	// Resolve or auto-create the target project before any upload
	if projectId != nil {
		project, err := uow.ProjectRepository().FindOne(ctx,
			specification.ByID{ID: *projectId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, errors.New("project not found")
		}
		result.ProjectId = project.Id
	} else {
		filenames := make([]string, len(files))
		for i, f := range files {
			filenames[i] = f.Filename
		}

		created, err := s.projectService.Create(ctx, userId, &dto.CreateProjectRequest{
			Name:            deriveProjectName(filenames),
			IsTemporary:     true,
			RetentionPeriod: entity.RetentionThirtyDay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create project: %w", err)
		}
		result.ProjectId = created.Id
		result.ProjectCreated = true
	}

	total := len(files)
	for i, fileHeader := range files {
		doc, err := s.uploadOne(ctx, uow, userId, result.ProjectId, fileHeader)
		if err != nil {
			// Per-file soft fail: record and keep going
			s.logger.Warn("DocumentService", "File upload failed", map[string]interface{}{
				"filename": fileHeader.Filename,
				"error":    err.Error(),
			})
			result.Failed = append(result.Failed, dto.UploadFailure{
				Filename: fileHeader.Filename,
				Reason:   err.Error(),
			})
			if onProgress != nil {
				onProgress(dto.UploadProgress{
					Filename:       fileHeader.Filename,
					TotalFiles:     total,
					ProcessedFiles: i + 1,
					Percent:        float64(i+1) / float64(total) * 100,
				})
			}
			continue
		}

		res := toDocumentResponse(doc)
		result.Documents = append(result.Documents, res)

		if onProgress != nil {
			onProgress(dto.UploadProgress{
				Filename:       fileHeader.Filename,
				TotalFiles:     total,
				ProcessedFiles: i + 1,
				Percent:        float64(i+1) / float64(total) * 100,
				Document:       &res,
			})
		}
	}

	if s.eventPublisher != nil && len(result.Documents) > 0 {
		evt := events.New(events.TypeDocumentUploaded, map[string]interface{}{
			"project_id": result.ProjectId,
			"user_id":    userId,
			"count":      len(result.Documents),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
		}
	}

	return result, nil
}

func (s *documentService) uploadOne(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID, fileHeader *multipart.FileHeader) (*entity.Document, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	docId := uuid.New()
	contentType := fileHeader.Header.Get("Content-Type")
	storageKey := fmt.Sprintf("projects/%s/%s/%s", projectId, docId, fileHeader.Filename)

	if _, err := s.objectStore.Put(ctx, storageKey, file, fileHeader.Size, contentType); err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Id:         docId,
		Filename:   fileHeader.Filename,
		ProjectId:  projectId,
		UserId:     userId,
		Status:     entity.DocumentStatusUploading,
		StorageKey: storageKey,
		SizeBytes:  fileHeader.Size,
		CreatedAt:  time.Now(),
	}
	if contentType != "" {
		doc.ContentType = &contentType
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		// Storage object without a record is unreachable, clean it up
		_ = s.objectStore.Remove(ctx, storageKey)
		return nil, err
	}

	msg := dto.PublishProcessDocumentMessage{DocumentId: doc.Id}
	msgJson, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, fmt.Errorf("failed to queue document processing: %w", err)
	}

	return doc, nil
}

func (s *documentService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document not found")
	}

	res := toDocumentResponse(doc)
	return &res, nil
}

// downloadLinkTTL bounds how long a presigned object link stays valid.
const downloadLinkTTL = 15 * time.Minute

func (s *documentService) Download(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentDownloadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document not found")
	}
	if doc.StorageKey == "" {
		return nil, errors.New("document has no stored file")
	}

	link, err := s.objectStore.PresignedURL(ctx, doc.StorageKey, downloadLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download link: %w", err)
	}

	return &dto.DocumentDownloadResponse{
		Filename:  doc.Filename,
		Url:       link,
		ExpiresAt: time.Now().Add(downloadLinkTTL),
	}, nil
}

func (s *documentService) GetByProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("project not found")
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		res := toDocumentResponse(doc)
		result = append(result, &res)
	}
	return result, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if err := s.objectStore.Remove(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("DocumentService", "Failed to remove stored object", map[string]interface{}{
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	return nil
}

func toDocumentResponse(doc *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:              doc.Id,
		Filename:        doc.Filename,
		ProjectId:       doc.ProjectId,
		Status:          string(doc.Status),
		ContentType:     doc.ContentType,
		AddedColContext: doc.AddedColContext,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}
