package repository

import (
	"context"
	"sync"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

type sessionEntry struct {
	session   *models.Session
	expiresAt time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// MemorySessionRepository is the in-process fallback store. A ttl of zero
// keeps sessions forever.
type MemorySessionRepository struct {
	mu         sync.Mutex
	sessions   map[string]*sessionEntry
	rateLimits map[string]*rateLimitEntry
	ttl        time.Duration

	snapshotMu sync.RWMutex
	snapshot   string
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:   make(map[string]*sessionEntry),
		rateLimits: make(map[string]*rateLimitEntry),
		ttl:        ttl,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(r.sessions, id)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	entry := &sessionEntry{session: session}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = entry
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, id string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rateLimits[id]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[id] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}

func (r *MemorySessionRepository) GetSnapshot(ctx context.Context) (string, error) {
	r.snapshotMu.RLock()
	defer r.snapshotMu.RUnlock()
	return r.snapshot, nil
}

func (r *MemorySessionRepository) SetSnapshot(ctx context.Context, snapshot string) error {
	r.snapshotMu.Lock()
	defer r.snapshotMu.Unlock()
	r.snapshot = snapshot
	return nil
}
