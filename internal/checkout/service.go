package checkout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/repository"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
	"github.com/prwkhar/aura-gift/pkg/httpclient"
)

// Order holds the customer fields submitted alongside the order summary.
type Order struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=6,max=20"`
	Address string `json:"address" validate:"required,min=1,max=1000"`
}

// Publisher announces completed checkout submissions.
type Publisher interface {
	OrderSubmitted(ctx context.Context, sessionID, total string, lineCount int) error
}

// Service submits checkout orders to the external form relay. Submission is
// one-shot: a failure leaves the cart intact and surfaces to the user, who
// must resubmit.
type Service struct {
	relayURL  string
	accessKey string
	client    *httpclient.Client
	handoff   repository.HandoffRepository
	events    Publisher
	logger    *slog.Logger
}

// NewService creates a checkout service posting to the given relay URL.
func NewService(
	relayURL, accessKey string,
	client *httpclient.Client,
	handoff repository.HandoffRepository,
	events Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		relayURL:  relayURL,
		accessKey: accessKey,
		client:    client,
		handoff:   handoff,
		events:    events,
		logger:    logger,
	}
}

// Submit renders the order summary from the current cart snapshot, writes
// the confirmation hand-off keys, and posts the form to the relay. A 2xx
// response clears the cart; anything else fails with SUBMISSION_FAILED and
// preserves the cart.
func (s *Service) Submit(ctx context.Context, store *cart.Store, order Order) error {
	lines := store.Snapshot()
	if len(lines) == 0 {
		return apperrors.InvalidInput("cart is empty")
	}

	summary, total := BuildSummary(lines, store.Strategy())
	totalStr := total.StringFixed(2)

	// Hand-off keys are written before the relay call so the confirmation
	// view can read them as soon as the submission succeeds.
	if err := s.handoff.SaveOrder(ctx, store.SessionID(), summary, totalStr); err != nil {
		return fmt.Errorf("save order handoff: %w", err)
	}

	form := url.Values{}
	form.Set("access_key", s.accessKey)
	form.Set("name", order.Name)
	form.Set("email", order.Email)
	form.Set("phone", order.Phone)
	form.Set("address", order.Address)
	form.Set("order_details", summary)

	resp, err := s.client.Post(ctx, s.relayURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.SubmissionFailed(fmt.Sprintf("order submission failed: %v", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.SubmissionFailed(fmt.Sprintf("order relay returned status %d", resp.StatusCode))
	}

	// The order is placed; a failure clearing the cart must not make the
	// user resubmit and double the order.
	if err := store.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", store.SessionID()),
			slog.String("error", err.Error()),
		)
	}

	if s.events != nil {
		if err := s.events.OrderSubmitted(ctx, store.SessionID(), totalStr, len(lines)); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
				slog.String("session_id", store.SessionID()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", store.SessionID()),
		slog.String("total", totalStr),
		slog.Int("lines", len(lines)),
	)

	return nil
}

// Confirmation returns the order summary and total previously handed off
// for the session.
func (s *Service) Confirmation(ctx context.Context, sessionID string) (summary, total string, err error) {
	if sessionID == "" {
		return "", "", apperrors.InvalidInput("session id is required")
	}
	return s.handoff.GetOrder(ctx, sessionID)
}
