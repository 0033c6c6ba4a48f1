package repository

import (
	"context"

	"github.com/prwkhar/aura-gift/internal/domain"
)

// CartRepository persists cart snapshots: the full ordered line list,
// JSON-encoded under a single per-session key, rewritten after every
// mutation.
type CartRepository interface {
	// Get retrieves the snapshot for a session. Returns ErrNotFound when no
	// snapshot exists and ErrSnapshotCorrupt when one exists but cannot be
	// decoded.
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)

	// Save overwrites the snapshot for a session with the given line list.
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error

	// Delete removes the snapshot for a session.
	Delete(ctx context.Context, sessionID string) error
}

// HandoffRepository stores the rendered order summary and total under the
// well-known keys consumed by the confirmation view. Both values are written
// immediately before a checkout submission.
type HandoffRepository interface {
	SaveOrder(ctx context.Context, sessionID, summary, total string) error

	// GetOrder retrieves the summary and total for a session. Returns
	// ErrNotFound when no order has been handed off.
	GetOrder(ctx context.Context, sessionID string) (summary, total string, err error)
}
