package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prwkhar/aura-gift/internal/domain"
	"github.com/prwkhar/aura-gift/internal/repository"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

// MaxLinesPerCart is the maximum number of lines allowed in a cart.
const MaxLinesPerCart = 50

// Catalog is the product lookup the store depends on. Lookups may fail for
// ids held by old cart lines after a catalog refresh.
type Catalog interface {
	Lookup(id int) (domain.Product, bool)
}

// Listener receives the new snapshot synchronously after every mutation has
// been applied and persisted. Dependent views re-render from the snapshot;
// the store itself has no knowledge of any rendering or transport layer.
type Listener func(ctx context.Context, sessionID string, lines []domain.CartLine)

// Store owns the authoritative line list for one session's cart. Every
// mutation is applied in memory, mirrored in full to the repository, and
// then announced to subscribers. A mutex keeps each operation's
// read-modify-write-persist sequence atomic.
type Store struct {
	sessionID string
	strategy  domain.MergeStrategy
	repo      repository.CartRepository
	catalog   Catalog
	logger    *slog.Logger

	mu        sync.Mutex
	lines     []domain.CartLine
	listeners []Listener
}

// newStore creates a store seeded with the given restored snapshot.
func newStore(
	sessionID string,
	strategy domain.MergeStrategy,
	lines []domain.CartLine,
	repo repository.CartRepository,
	catalog Catalog,
	listeners []Listener,
	logger *slog.Logger,
) *Store {
	return &Store{
		sessionID: sessionID,
		strategy:  strategy,
		lines:     lines,
		repo:      repo,
		catalog:   catalog,
		listeners: listeners,
		logger:    logger,
	}
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Strategy returns the merge strategy the store was configured with.
func (s *Store) Strategy() domain.MergeStrategy {
	return s.strategy
}

// Subscribe registers a listener invoked after every mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Add puts the product with the given id into the cart. In by-product-id
// mode a line for the same product has its quantity bumped; in by-instance
// mode every add appends an independent line carrying the optional gift
// note. Fails with PRODUCT_NOT_FOUND when the id is absent from the latest
// catalog snapshot, leaving the cart unchanged.
func (s *Store) Add(ctx context.Context, productID int, note string) (domain.CartLine, error) {
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return domain.CartLine{}, apperrors.ProductNotFound(strconv.Itoa(productID))
	}

	s.mu.Lock()
	working := s.cloneLocked()

	var line domain.CartLine
	switch s.strategy {
	case domain.MergeByProductID:
		if i := findByProduct(working, productID); i >= 0 {
			working[i].Quantity++
			line = working[i]
		} else {
			line = newLine(product, "")
			working = append(working, line)
		}
	default:
		line = newLine(product, note)
		working = append(working, line)
	}

	if len(working) > MaxLinesPerCart {
		s.mu.Unlock()
		return domain.CartLine{}, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
	}

	snap, err := s.commitLocked(ctx, working)
	s.mu.Unlock()
	if err != nil {
		return domain.CartLine{}, err
	}

	s.notify(ctx, snap)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", s.sessionID),
		slog.Int("product_id", productID),
		slog.String("line_id", line.LineID),
	)

	return line, nil
}

// SetQuantity sets the quantity of the line holding the given product.
// Quantities of zero or less remove the line. Only meaningful in
// by-product-id mode. Fails with LINE_NOT_FOUND when the product has no
// line.
func (s *Store) SetQuantity(ctx context.Context, productID, quantity int) error {
	if s.strategy != domain.MergeByProductID {
		return apperrors.InvalidInput("quantity updates require the by-product-id cart mode")
	}

	s.mu.Lock()
	working := s.cloneLocked()

	i := findByProduct(working, productID)
	if i < 0 {
		s.mu.Unlock()
		return apperrors.LineNotFound(strconv.Itoa(productID))
	}

	if quantity <= 0 {
		working = append(working[:i], working[i+1:]...)
	} else {
		working[i].Quantity = quantity
	}

	snap, err := s.commitLocked(ctx, working)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, snap)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", s.sessionID),
		slog.Int("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return nil
}

// Remove deletes a line. In by-product-id mode the reference is the product
// id; in by-instance mode it is the line's unique id. Removing a reference
// with no matching line is a no-op.
func (s *Store) Remove(ctx context.Context, lineRef string) error {
	s.mu.Lock()
	working := s.cloneLocked()

	i := s.findByRef(working, lineRef)
	if i < 0 {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "remove of unknown cart line ignored",
			slog.String("session_id", s.sessionID),
			slog.String("line_ref", lineRef),
		)
		return nil
	}

	working = append(working[:i], working[i+1:]...)

	snap, err := s.commitLocked(ctx, working)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, snap)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", s.sessionID),
		slog.String("line_ref", lineRef),
	)

	return nil
}

// UpdateNote replaces the gift note on the line with the given unique id.
// Only meaningful in by-instance mode. Updating an unknown line is a no-op.
func (s *Store) UpdateNote(ctx context.Context, lineID, note string) error {
	if s.strategy != domain.MergeByInstance {
		return apperrors.InvalidInput("gift notes require the by-instance cart mode")
	}

	s.mu.Lock()
	working := s.cloneLocked()

	i := findByLineID(working, lineID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "note update for unknown cart line ignored",
			slog.String("session_id", s.sessionID),
			slog.String("line_id", lineID),
		)
		return nil
	}

	working[i].Note = note

	snap, err := s.commitLocked(ctx, working)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, snap)

	s.logger.InfoContext(ctx, "cart line note updated",
		slog.String("session_id", s.sessionID),
		slog.String("line_id", lineID),
	)

	return nil
}

// Clear empties the cart and removes its persisted snapshot. Called after a
// successful checkout submission.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Delete(ctx, s.sessionID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	s.lines = nil
	s.mu.Unlock()

	s.notify(ctx, []domain.CartLine{})

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", s.sessionID),
	)

	return nil
}

// Snapshot returns a copy of the current line list.
func (s *Store) Snapshot() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

// Total recomputes the cart total from the current lines. Never cached.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.TotalPrice(s.lines)
}

// --- internals ---

// commitLocked persists the working copy and, on success, makes it the
// authoritative state. Returns a snapshot for listener delivery. Must be
// called with the mutex held.
func (s *Store) commitLocked(ctx context.Context, working []domain.CartLine) ([]domain.CartLine, error) {
	if err := s.repo.Save(ctx, s.sessionID, working); err != nil {
		return nil, fmt.Errorf("persist cart snapshot: %w", err)
	}
	s.lines = working

	snap := make([]domain.CartLine, len(working))
	copy(snap, working)
	return snap, nil
}

func (s *Store) cloneLocked() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) notify(ctx context.Context, snap []domain.CartLine) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, s.sessionID, snap)
	}
}

func (s *Store) findByRef(lines []domain.CartLine, ref string) int {
	if s.strategy == domain.MergeByProductID {
		id, err := strconv.Atoi(ref)
		if err != nil {
			return -1
		}
		return findByProduct(lines, id)
	}
	return findByLineID(lines, ref)
}

func findByProduct(lines []domain.CartLine, productID int) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func findByLineID(lines []domain.CartLine, lineID string) int {
	for i := range lines {
		if lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

func newLine(p domain.Product, note string) domain.CartLine {
	return domain.CartLine{
		LineID:    uuid.New().String(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Thumbnail(),
		Quantity:  1,
		Note:      note,
	}
}
