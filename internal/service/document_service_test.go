package service

import (
	"context"
	"io"
	"testing"
	"time"

	"doceasy-be/internal/entity"
	"doceasy-be/internal/repository/contract"
	"doceasy-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocumentRepo struct {
	contract.DocumentRepository
	existing *entity.Document
}

func (r *stubDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return r.existing, nil
}

// stubObjectStore records what PresignedURL was asked to sign.
type stubObjectStore struct {
	signedKey    string
	signedExpiry time.Duration
}

func (s *stubObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return key, nil
}

func (s *stubObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (s *stubObjectStore) Remove(ctx context.Context, key string) error { return nil }

func (s *stubObjectStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	s.signedKey = key
	s.signedExpiry = expiry
	return "https://store.local/" + key + "?sig=abc", nil
}

func TestDeriveProjectName(t *testing.T) {
	assert.Equal(t, "report", deriveProjectName([]string{"report.pdf"}))
	assert.Equal(t, "reports", deriveProjectName([]string{"report.pdf", "summary.docx"}))
	assert.Equal(t, "notes", deriveProjectName([]string{"notes.txt", "extra.txt"}))
	assert.Equal(t, "Untitled", deriveProjectName(nil))
	assert.Equal(t, "Untitled", deriveProjectName([]string{".pdf"}))
}

func TestDownloadSignsStoredObject(t *testing.T) {
	userId := uuid.New()
	doc := &entity.Document{
		Id:         uuid.New(),
		Filename:   "report.pdf",
		UserId:     userId,
		StorageKey: "projects/p1/d1/report.pdf",
	}

	store := &stubObjectStore{}
	uow := &stubUnitOfWork{documents: &stubDocumentRepo{existing: doc}}
	svc := NewDocumentService(&stubFactory{uow: uow}, nil, nil, store, nil, nopLogger{})

	before := time.Now()
	res, err := svc.Download(context.Background(), userId, doc.Id)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "report.pdf", res.Filename)
	assert.Contains(t, res.Url, doc.StorageKey)
	assert.Equal(t, doc.StorageKey, store.signedKey)
	assert.Equal(t, downloadLinkTTL, store.signedExpiry)
	assert.True(t, res.ExpiresAt.After(before))
}

func TestDownloadRejectsUnknownDocument(t *testing.T) {
	uow := &stubUnitOfWork{documents: &stubDocumentRepo{}}
	svc := NewDocumentService(&stubFactory{uow: uow}, nil, nil, &stubObjectStore{}, nil, nopLogger{})

	res, err := svc.Download(context.Background(), uuid.New(), uuid.New())

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestDownloadRejectsDocumentWithoutFile(t *testing.T) {
	userId := uuid.New()
	doc := &entity.Document{Id: uuid.New(), Filename: "empty.csv", UserId: userId}

	store := &stubObjectStore{}
	uow := &stubUnitOfWork{documents: &stubDocumentRepo{existing: doc}}
	svc := NewDocumentService(&stubFactory{uow: uow}, nil, nil, store, nil, nopLogger{})

	res, err := svc.Download(context.Background(), userId, doc.Id)

	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Empty(t, store.signedKey)
}
