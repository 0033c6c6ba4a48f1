package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prwkhar/aura-gift/internal/domain"
	"github.com/prwkhar/aura-gift/internal/repository"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

// Manager materializes one Store per session, restoring the persisted
// snapshot on first access. A missing or undecodable snapshot yields an
// empty cart; startup never fails on cart state.
type Manager struct {
	strategy domain.MergeStrategy
	repo     repository.CartRepository
	catalog  Catalog
	logger   *slog.Logger

	mu        sync.Mutex
	stores    map[string]*Store
	listeners []Listener
}

// NewManager creates a cart manager for the given merge strategy.
func NewManager(strategy domain.MergeStrategy, repo repository.CartRepository, catalog Catalog, logger *slog.Logger) *Manager {
	return &Manager{
		strategy: strategy,
		repo:     repo,
		catalog:  catalog,
		logger:   logger,
		stores:   make(map[string]*Store),
	}
}

// Subscribe registers a listener on every store the manager has created or
// will create.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, l)
	for _, s := range m.stores {
		s.Subscribe(l)
	}
}

// ForSession returns the store for a session, creating it from the
// persisted snapshot on first access.
//
// TODO: evict stores for sessions idle past the snapshot TTL.
func (m *Manager) ForSession(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s, nil
	}

	lines, err := m.restore(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s := newStore(sessionID, m.strategy, lines, m.repo, m.catalog, m.listeners, m.logger)
	m.stores[sessionID] = s
	return s, nil
}

// restore loads the persisted snapshot for a session. Missing and corrupt
// snapshots both start an empty cart; only infrastructure failures
// propagate.
func (m *Manager) restore(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	lines, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, nil
		case errors.Is(err, apperrors.ErrSnapshotCorrupt):
			m.logger.WarnContext(ctx, "discarding corrupt cart snapshot",
				slog.String("session_id", sessionID),
			)
			return nil, nil
		default:
			return nil, fmt.Errorf("restore cart snapshot: %w", err)
		}
	}
	return lines, nil
}
