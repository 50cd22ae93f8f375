package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/netcart/internal/session"
)

const (
	// DefaultSessionTTL is how long an untouched session is kept
	DefaultSessionTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often the background cleanup runs
	DefaultCleanupInterval = time.Minute
)

type memoryEntry struct {
	state     session.State
	expiresAt time.Time
}

// MemoryRepository implements SessionRepository with in-memory storage
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry // sessionID -> state
	ttl      time.Duration
	now      func() time.Time

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewMemoryRepository creates a repository that forgets sessions idle for ttl
func NewMemoryRepository(ttl, cleanupInterval time.Duration) *MemoryRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	r := &MemoryRepository{
		sessions:    make(map[string]*memoryEntry),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	// Start background cleanup goroutine
	r.wg.Add(1)
	go r.cleanupLoop(cleanupInterval)

	return r
}

func (r *MemoryRepository) cleanupLoop(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expireSessions()
		case <-r.stopCleanup:
			return
		}
	}
}

// expireSessions drops every session past its expiry
func (r *MemoryRepository) expireSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	expired := 0
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
			expired++
		}
	}
	return expired
}

func (r *MemoryRepository) Get(_ context.Context, sessionID string) (session.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[sessionID]
	if !ok || r.now().After(e.expiresAt) {
		return session.State{}, ErrSessionNotFound
	}
	return cloneState(e.state), nil
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, st session.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = &memoryEntry{
		state:     cloneState(st),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions, expired ones included until cleanup
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the background cleanup and waits for it to finish
func (r *MemoryRepository) Close() error {
	close(r.stopCleanup)
	r.wg.Wait()
	return nil
}

var _ SessionRepository = (*MemoryRepository)(nil)
