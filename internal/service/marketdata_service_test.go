package service

import (
	"context"
	"testing"
	"time"

	"doceasy-be/pkg/csvcache"
	"doceasy-be/pkg/drive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDrive struct {
	files     []drive.File
	downloads map[string]int
	content   map[string][]byte
}

func (f *fakeDrive) ListCSVFiles(ctx context.Context, folderID string) ([]drive.File, error) {
	return f.files, nil
}

func (f *fakeDrive) Download(ctx context.Context, file drive.File) ([]byte, error) {
	if f.downloads == nil {
		f.downloads = map[string]int{}
	}
	f.downloads[file.ID]++
	return f.content[file.ID], nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestSyncAllCachesFolder(t *testing.T) {
	cache, err := csvcache.NewCache(t.TempDir(), csvcache.DefaultSchedule(time.UTC))
	require.NoError(t, err)

	fake := &fakeDrive{
		files: []drive.File{
			{ID: "f1", Name: "prices.csv", MimeType: drive.MimeTypeCSV},
			{ID: "f2", Name: "index", MimeType: drive.MimeTypeGoogleSheet},
		},
		content: map[string][]byte{
			"f1": []byte("a,b\n1,2\n"),
			"f2": []byte("x,y\n3,4\n"),
		},
	}

	svc := NewMarketDataService(fake, cache, "folder", nopLogger{})

	require.NoError(t, svc.SyncAll(context.Background()))
	assert.Equal(t, 1, fake.downloads["f1"])
	assert.Equal(t, 1, fake.downloads["f2"])

	// A second sync right after must hit the cache, not Drive
	require.NoError(t, svc.SyncAll(context.Background()))
	assert.Equal(t, 1, fake.downloads["f1"])
}

func TestGetCSVFetchesOnMiss(t *testing.T) {
	cache, err := csvcache.NewCache(t.TempDir(), csvcache.DefaultSchedule(time.UTC))
	require.NoError(t, err)

	fake := &fakeDrive{
		files:   []drive.File{{ID: "f1", Name: "prices.csv", MimeType: drive.MimeTypeCSV}},
		content: map[string][]byte{"f1": []byte("a,b\n")},
	}

	svc := NewMarketDataService(fake, cache, "folder", nopLogger{})

	data, err := svc.GetCSV(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b\n"), data)

	_, err = svc.GetCSV(context.Background(), "missing")
	assert.Error(t, err)
}
