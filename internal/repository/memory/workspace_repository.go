package memory

import (
	"time"

	"doceasy-be/pkg/workspace"
	wstore "doceasy-be/pkg/workspace/store"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps one live workspace store per user session.
// Stores idle for an hour are purged; the next request recreates them
// (and can rehydrate from the persisted snapshot).
type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository() *WorkspaceRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
	}
}

func (r *WorkspaceRepository) Get(userID string) (*wstore.Store, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*wstore.Store), true
	}
	return nil, false
}

// GetOrCreate returns the user's store, creating an empty one on first
// access. Every hit refreshes the TTL so active sessions stay resident.
func (r *WorkspaceRepository) GetOrCreate(userID string) *wstore.Store {
	if s, found := r.Get(userID); found {
		r.cache.Set(userID, s, cache.DefaultExpiration)
		return s
	}
	s := wstore.New()
	r.cache.Set(userID, s, cache.DefaultExpiration)
	return s
}

// Restore replaces the user's store with one rebuilt from a snapshot.
func (r *WorkspaceRepository) Restore(userID string, state workspace.State) *wstore.Store {
	s := wstore.NewWithState(state)
	r.cache.Set(userID, s, cache.DefaultExpiration)
	return s
}

func (r *WorkspaceRepository) Delete(userID string) {
	r.cache.Delete(userID)
}
