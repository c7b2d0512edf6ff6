package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/scheme-assistant/server/internal/agent/model"
)

// MemorySessionRepository keeps session state in process. Stored values are
// copies, so callers never share a state with the store.
type MemorySessionRepository struct {
	cache *cache.Cache
}

// NewMemorySessionRepository expires sessions after ttl and purges expired
// ones every cleanupInterval; a zero interval disables the purge goroutine.
func NewMemorySessionRepository(ttl, cleanupInterval time.Duration) *MemorySessionRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemorySessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*model.ConversationState, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*model.ConversationState).Clone(), nil
	}
	return nil, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, sessionID string, state *model.ConversationState) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	r.cache.Set(sessionID, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// Len reports the number of stored sessions, expired ones included until purged.
func (r *MemorySessionRepository) Len() int {
	return r.cache.ItemCount()
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
