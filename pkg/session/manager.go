package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
)

// ErrTooManySessions is returned when starting a session would exceed the configured limit.
var ErrTooManySessions = errors.New("too many sessions")

// Factory builds the orchestrator of a new visitor session.
type Factory func(sessionID string) (ports.Navigator, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the visitor sessions.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	factory  Factory
	sessions cmap.ConcurrentMap[string, ports.Navigator]

	mu    sync.Mutex
	locks map[string]*lockEntry

	maxSessions int
	workers     int
	logger      *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxSessions caps the number of live sessions. Zero means unlimited.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// WithCloseWorkers bounds how many sessions CloseAll tears down at once.
func WithCloseWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

// NewManager creates a session manager building orchestrators with factory.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory:  factory,
		sessions: cmap.New[ports.Navigator](),
		locks:    make(map[string]*lockEntry),
		workers:  8,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(sessionID) after unlocking.
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

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Get returns the orchestrator of an existing session.
func (m *Manager) Get(sessionID string) (ports.Navigator, error) {
	nav, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return nav, nil
}

// LoadOrStart returns the orchestrator of a session, creating it on first use.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (ports.Navigator, error) {
	if nav, ok := m.sessions.Get(sessionID); ok {
		return nav, nil
	}

	var nav ports.Navigator
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if existing, ok := m.sessions.Get(sessionID); ok {
			nav = existing
			return nil
		}
		if m.maxSessions > 0 && m.sessions.Count() >= m.maxSessions {
			return fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.maxSessions)
		}
		created, err := m.factory(sessionID)
		if err != nil {
			return fmt.Errorf("failed to start session %s: %w", sessionID, err)
		}
		m.sessions.Set(sessionID, created)
		m.logger.DebugContext(ctx, "session started", "session_id", sessionID)
		nav = created
		return nil
	})
	return nav, err
}

// Navigate runs a navigation cycle on the session, starting it if needed.
func (m *Manager) Navigate(ctx context.Context, sessionID string, event domain.NavigationEvent) (*domain.CycleReport, error) {
	nav, err := m.LoadOrStart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return nav.Navigate(ctx, event)
}

// Snapshot returns the orchestrator state of a session.
func (m *Manager) Snapshot(sessionID string) (domain.Snapshot, error) {
	nav, err := m.Get(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return nav.Snapshot(), nil
}

// Delete closes the session orchestrator, draining its cleanups, and forgets it.
// A session whose cycle is still running is kept and the close error is returned.
func (m *Manager) Delete(ctx context.Context, sessionID string) (*domain.CycleReport, error) {
	var report *domain.CycleReport
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		nav, ok := m.sessions.Get(sessionID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		r, err := nav.Close(ctx)
		if err != nil && !errors.Is(err, domain.ErrClosed) {
			return fmt.Errorf("failed to close session %s: %w", sessionID, err)
		}
		m.sessions.Remove(sessionID)
		m.logger.DebugContext(ctx, "session closed", "session_id", sessionID)
		report = r
		return nil
	})
	return report, err
}

// List returns the live session IDs in sorted order.
func (m *Manager) List() []string {
	ids := m.sessions.Keys()
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Count()
}

// CloseAll closes every live session using a bounded worker pool.
func (m *Manager) CloseAll(ctx context.Context) error {
	ids := m.sessions.Keys()
	if len(ids) == 0 {
		return nil
	}

	pool, err := ants.NewPool(m.workers)
	if err != nil {
		return fmt.Errorf("failed to create close pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	for _, id := range ids {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if _, err := m.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				record(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			record(fmt.Errorf("session %s: %w", id, submitErr))
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		m.logger.WarnContext(ctx, "some sessions failed to close", "failed", len(errs), "total", len(ids))
	}
	return errors.Join(errs...)
}
