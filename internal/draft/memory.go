package draft

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pestpro/pestpro-api/internal/form"
)

// DefaultTTL is how long an abandoned draft survives in a MemoryStore
const DefaultTTL = 24 * time.Hour

const slotKey = "draft"

// MemoryStore keeps the draft in process memory and expires it after a TTL
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose draft expires after ttl
// (DefaultTTL if ttl <= 0)
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: cache.New(ttl, ttl/2)}
}

func (m *MemoryStore) Save(_ context.Context, d form.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.SetDefault(slotKey, d.Clone())
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (form.Data, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.cache.Get(slotKey)
	if !ok {
		return form.Data{}, false, nil
	}
	m.cache.Delete(slotKey)
	return v.(form.Data), true, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Delete(slotKey)
	return nil
}
