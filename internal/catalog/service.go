package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prwkhar/aura-gift/internal/domain"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

// maxDocumentBytes bounds how much of the catalog response body is read.
const maxDocumentBytes = 8 << 20

// Getter fetches the catalog document. Satisfied by both the plain retry
// client and its circuit breaker wrapper.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Service fetches the published catalog CSV and holds the latest parsed
// snapshot. Concurrent Refresh calls coalesce onto a single outstanding
// fetch so the source is never hit twice in parallel.
type Service struct {
	sourceURL string
	client    Getter
	logger    *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	byID     map[int]domain.Product
	loaded   bool

	fetchMu  sync.Mutex
	inflight *fetch
}

type fetch struct {
	done chan struct{}
	err  error
}

// NewService creates a catalog service reading from the given source URL.
func NewService(sourceURL string, client Getter, logger *slog.Logger) *Service {
	return &Service{
		sourceURL: sourceURL,
		client:    client,
		logger:    logger,
	}
}

// Refresh fetches and parses the catalog, replacing the current snapshot.
// If a fetch is already in flight the call waits for its outcome instead of
// issuing a duplicate request.
func (s *Service) Refresh(ctx context.Context) error {
	s.fetchMu.Lock()
	if f := s.inflight; f != nil {
		s.fetchMu.Unlock()
		select {
		case <-f.done:
			return f.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f := &fetch{done: make(chan struct{})}
	s.inflight = f
	s.fetchMu.Unlock()

	f.err = s.fetchAndStore(ctx)

	s.fetchMu.Lock()
	s.inflight = nil
	s.fetchMu.Unlock()
	close(f.done)

	return f.err
}

func (s *Service) fetchAndStore(ctx context.Context) error {
	resp, err := s.client.Get(ctx, s.sourceURL)
	if err != nil {
		return apperrors.Network(fmt.Sprintf("fetch catalog: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.Network(fmt.Sprintf("catalog source returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return apperrors.Network(fmt.Sprintf("read catalog body: %v", err))
	}

	products, stats, err := Parse(string(body))
	if err != nil {
		return err
	}

	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.loaded = true
	s.mu.Unlock()

	if stats.Dropped > 0 || stats.Defaulted > 0 {
		s.logger.WarnContext(ctx, "catalog ingested with malformed rows",
			slog.Int("rows", stats.Rows),
			slog.Int("dropped", stats.Dropped),
			slog.Int("defaulted_price", stats.Defaulted),
		)
	}

	s.logger.InfoContext(ctx, "catalog refreshed",
		slog.Int("products", len(products)),
	)

	return nil
}

// Products returns a copy of the current catalog snapshot.
func (s *Service) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Lookup finds a product by id in the latest snapshot. A refresh may have
// renumbered products, so lookups on ids held by old cart lines can fail.
func (s *Service) Lookup(id int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Ping reports catalog readiness for health checks.
func (s *Service) Ping(_ context.Context) error {
	if !s.Loaded() {
		return fmt.Errorf("catalog not loaded: %w", apperrors.ErrUnavailable)
	}
	return nil
}
