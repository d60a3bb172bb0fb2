package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/observability"
	"github.com/aretw0/flowboard/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Factory builds the editor session for a session id.
type Factory func(sessionID string) *editor.Session

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store   ports.GraphStore
	factory Factory

	mu    sync.Mutex            // Guards locks and live
	locks map[string]*lockEntry // Active per-session locks
	live  map[string]*editor.Session

	locker  ports.DistributedLocker
	lockTTL time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithMetrics tracks live sessions.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager persisting through store and building sessions with factory.
func NewManager(store ports.GraphStore, factory Factory, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: factory,
		locks:   make(map[string]*lockEntry),
		live:    make(map[string]*editor.Session),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Open returns the live session for sessionID, loading its snapshot or creating
// an empty one (persisted immediately to reserve the id) on first use.
func (m *Manager) Open(ctx context.Context, sessionID string) (*editor.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}
	if s, ok := m.Get(sessionID); ok {
		return s, nil
	}

	var sess *editor.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if s, ok := m.Get(sessionID); ok {
			sess = s
			return nil
		}

		s := m.factory(sessionID)
		g, err := m.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			if err := s.Load(g); err != nil {
				return fmt.Errorf("failed to restore session %q: %w", sessionID, err)
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			if err := m.store.Save(ctx, sessionID, s.Graph()); err != nil {
				return fmt.Errorf("failed to initialize session: %w", err)
			}
		default:
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		m.mu.Lock()
		m.live[sessionID] = s
		m.mu.Unlock()
		m.metrics.SessionOpened()
		m.logger.Info("session opened", "session_id", sessionID, "nodes", len(g.Nodes))
		sess = s
		return nil
	})
	return sess, err
}

// Get returns a live session without touching the store.
func (m *Manager) Get(sessionID string) (*editor.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.live[sessionID]
	return s, ok
}

// Save persists a snapshot of the live session.
func (m *Manager) Save(ctx context.Context, sessionID string) error {
	s, ok := m.Get(sessionID)
	if !ok {
		return fmt.Errorf("save %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, s.Graph())
	})
}

// Close saves the live session and drops it from memory.
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	if err := m.Save(ctx, sessionID); err != nil {
		return err
	}
	if m.evict(sessionID) {
		m.logger.Info("session closed", "session_id", sessionID)
	}
	return nil
}

// CloseAll saves and drops every live session. Errors are joined.
func (m *Manager) CloseAll(ctx context.Context) error {
	var errs []error
	for _, id := range m.Live() {
		if err := m.Close(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete drops the live session and removes its snapshot.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.evict(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

func (m *Manager) evict(sessionID string) bool {
	m.mu.Lock()
	_, ok := m.live[sessionID]
	delete(m.live, sessionID)
	m.mu.Unlock()
	if ok {
		m.metrics.SessionClosed()
	}
	return ok
}

// Live returns the ids of sessions held in memory, sorted.
func (m *Manager) Live() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns every known session id: persisted ones plus live ones, sorted and unique.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		seen[id] = struct{}{}
	}
	for _, id := range m.Live() {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Store returns the underlying graph store.
func (m *Manager) Store() ports.GraphStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
