package service

import (
	"context"
	"errors"
	"time"

	"doceasy-be/internal/pkg/logger"
	"doceasy-be/pkg/csvcache"
	"doceasy-be/pkg/drive"
)

// syncCheckInterval is how often the sync loop re-evaluates staleness.
// Actual refreshes are gated by the cache schedule, not this ticker.
const syncCheckInterval = 1 * time.Minute

type IMarketDataService interface {
	Start(ctx context.Context)
	GetCSV(ctx context.Context, fileID string) ([]byte, error)
	SyncAll(ctx context.Context) error
}

type driveLister interface {
	ListCSVFiles(ctx context.Context, folderID string) ([]drive.File, error)
	Download(ctx context.Context, file drive.File) ([]byte, error)
}

type marketDataService struct {
	drive    driveLister
	cache    *csvcache.Cache
	folderID string
	logger   logger.ILogger
}

func NewMarketDataService(driveClient driveLister, cache *csvcache.Cache, folderID string, log logger.ILogger) IMarketDataService {
	return &marketDataService{
		drive:    driveClient,
		cache:    cache,
		folderID: folderID,
		logger:   log,
	}
}

func (s *marketDataService) Start(ctx context.Context) {
	if s.drive == nil {
		s.logger.Warn("MarketDataService", "No credentials configured, sync disabled", nil)
		return
	}
	go func() {
		ticker := time.NewTicker(syncCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SyncAll(ctx); err != nil {
					s.logger.Error("MarketDataService", "Cache sync failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
	s.logger.Info("MarketDataService", "CSV cache sync started", map[string]interface{}{
		"folder_id": s.folderID,
	})
}

// SyncAll refreshes every stale file in the source folder.
func (s *marketDataService) SyncAll(ctx context.Context) error {
	if s.drive == nil {
		return errors.New("market data source not configured")
	}

	files, err := s.drive.ListCSVFiles(ctx, s.folderID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, f := range files {
		if _, fresh := s.cache.Get(f.ID, now); fresh {
			continue
		}
		if err := s.refresh(ctx, f); err != nil {
			// One bad file must not block the rest of the folder
			s.logger.Warn("MarketDataService", "Failed to refresh file", map[string]interface{}{
				"file_id": f.ID,
				"name":    f.Name,
				"error":   err.Error(),
			})
		}
	}

	return nil
}

// GetCSV serves a file from cache, fetching it on a miss or when stale.
func (s *marketDataService) GetCSV(ctx context.Context, fileID string) ([]byte, error) {
	if data, ok := s.cache.Get(fileID, time.Now()); ok {
		return data, nil
	}

	if s.drive == nil {
		return nil, errors.New("market data source not configured")
	}

	files, err := s.drive.ListCSVFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID == fileID || csvcache.NormalizeKey(f.ID) == csvcache.NormalizeKey(fileID) {
			if err := s.refresh(ctx, f); err != nil {
				return nil, err
			}
			if data, ok := s.cache.Get(f.ID, time.Now()); ok {
				return data, nil
			}
			break
		}
	}

	return nil, errors.New("file not found")
}

func (s *marketDataService) refresh(ctx context.Context, f drive.File) error {
	data, err := s.drive.Download(ctx, f)
	if err != nil {
		return err
	}
	return s.cache.Put(f.ID, data, time.Now())
}
