package memory

import (
	"time"

	"discharge-care-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation sessions in process memory.
// Idle sessions expire after ttl; expired entries are purged every 10 minutes.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count returns the number of live sessions, including ones not yet purged.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
