package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/domain"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
	"github.com/prwkhar/aura-gift/pkg/httpclient"
)

// --- Mocks ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	args := m.Called(ctx, sessionID, lines)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockHandoffRepository struct {
	mock.Mock
}

func (m *mockHandoffRepository) SaveOrder(ctx context.Context, sessionID, summary, total string) error {
	args := m.Called(ctx, sessionID, summary, total)
	return args.Error(0)
}

func (m *mockHandoffRepository) GetOrder(ctx context.Context, sessionID string) (string, string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.String(1), args.Error(2)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) OrderSubmitted(ctx context.Context, sessionID, total string, lineCount int) error {
	args := m.Called(ctx, sessionID, total, lineCount)
	return args.Error(0)
}

type fakeCatalog struct{}

func (fakeCatalog) Lookup(id int) (domain.Product, bool) {
	if id == 1 {
		return domain.Product{ID: 1, Name: "Ceramic Mug", Price: price("299.00")}, true
	}
	return domain.Product{}, false
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// storeWithItem builds a session store holding one line with quantity 2.
func storeWithItem(t *testing.T, repo *mockCartRepository) *cart.Store {
	t.Helper()
	ctx := context.Background()

	repo.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1")).Once()
	repo.On("Save", mock.Anything, "sess-1", mock.Anything).Return(nil)

	m := cart.NewManager(domain.MergeByProductID, repo, fakeCatalog{}, testLogger())
	store, err := m.ForSession(ctx, "sess-1")
	require.NoError(t, err)

	_, err = store.Add(ctx, 1, "")
	require.NoError(t, err)
	_, err = store.Add(ctx, 1, "")
	require.NoError(t, err)

	return store
}

func newTestService(relayURL string, handoff *mockHandoffRepository, events Publisher) *Service {
	client := httpclient.New(httpclient.OneShotConfig(5 * time.Second))
	return NewService(relayURL, "test-access-key", client, handoff, events, testLogger())
}

// --- Tests ---

func TestSubmit_Success(t *testing.T) {
	var gotForm map[string]string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"access_key":    r.PostFormValue("access_key"),
			"name":          r.PostFormValue("name"),
			"email":         r.PostFormValue("email"),
			"phone":         r.PostFormValue("phone"),
			"address":       r.PostFormValue("address"),
			"order_details": r.PostFormValue("order_details"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	cartRepo := new(mockCartRepository)
	cartRepo.On("Delete", mock.Anything, "sess-1").Return(nil)
	store := storeWithItem(t, cartRepo)

	handoff := new(mockHandoffRepository)
	handoff.On("SaveOrder", mock.Anything, "sess-1", mock.Anything, "598.00").Return(nil)

	events := new(mockPublisher)
	events.On("OrderSubmitted", mock.Anything, "sess-1", "598.00", 1).Return(nil)

	svc := newTestService(relay.URL, handoff, events)

	order := Order{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Address: "12 MG Road"}
	err := svc.Submit(context.Background(), store, order)

	require.NoError(t, err)
	assert.Equal(t, "test-access-key", gotForm["access_key"])
	assert.Equal(t, "Asha", gotForm["name"])
	assert.Contains(t, gotForm["order_details"], "Ceramic Mug (₹299.00)")
	assert.Contains(t, gotForm["order_details"], "Qty: 2")
	assert.Contains(t, gotForm["order_details"], "TOTAL: ₹598.00")

	// A successful submission empties the cart.
	assert.Empty(t, store.Snapshot())
	handoff.AssertExpectations(t)
	events.AssertExpectations(t)
	cartRepo.AssertCalled(t, "Delete", mock.Anything, "sess-1")
}

func TestSubmit_EmptyCart(t *testing.T) {
	cartRepo := new(mockCartRepository)
	cartRepo.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

	m := cart.NewManager(domain.MergeByProductID, cartRepo, fakeCatalog{}, testLogger())
	store, err := m.ForSession(context.Background(), "sess-1")
	require.NoError(t, err)

	handoff := new(mockHandoffRepository)
	svc := newTestService("http://unused", handoff, nil)

	err = svc.Submit(context.Background(), store, Order{Name: "A", Email: "a@b.c", Phone: "1234567", Address: "X"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	handoff.AssertNotCalled(t, "SaveOrder")
}

func TestSubmit_RelayRejectsSubmission(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer relay.Close()

	cartRepo := new(mockCartRepository)
	store := storeWithItem(t, cartRepo)

	handoff := new(mockHandoffRepository)
	handoff.On("SaveOrder", mock.Anything, "sess-1", mock.Anything, "598.00").Return(nil)

	svc := newTestService(relay.URL, handoff, nil)

	err := svc.Submit(context.Background(), store, Order{Name: "A", Email: "a@b.c", Phone: "1234567", Address: "X"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSubmission)
	// The cart survives so the user can resubmit.
	assert.Len(t, store.Snapshot(), 1)
	cartRepo.AssertNotCalled(t, "Delete")
}

func TestSubmit_RelayUnreachable(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	relay.Close()

	cartRepo := new(mockCartRepository)
	store := storeWithItem(t, cartRepo)

	handoff := new(mockHandoffRepository)
	handoff.On("SaveOrder", mock.Anything, "sess-1", mock.Anything, "598.00").Return(nil)

	svc := newTestService(relay.URL, handoff, nil)

	err := svc.Submit(context.Background(), store, Order{Name: "A", Email: "a@b.c", Phone: "1234567", Address: "X"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSubmission)
	assert.Len(t, store.Snapshot(), 1)
}

func TestSubmit_HandoffFailureStopsSubmission(t *testing.T) {
	var relayHit bool
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayHit = true
	}))
	defer relay.Close()

	cartRepo := new(mockCartRepository)
	store := storeWithItem(t, cartRepo)

	handoff := new(mockHandoffRepository)
	handoff.On("SaveOrder", mock.Anything, "sess-1", mock.Anything, "598.00").Return(assert.AnError)

	svc := newTestService(relay.URL, handoff, nil)

	err := svc.Submit(context.Background(), store, Order{Name: "A", Email: "a@b.c", Phone: "1234567", Address: "X"})

	require.Error(t, err)
	assert.False(t, relayHit)
	assert.Len(t, store.Snapshot(), 1)
}

func TestConfirmation(t *testing.T) {
	handoff := new(mockHandoffRepository)
	handoff.On("GetOrder", mock.Anything, "sess-1").Return("summary text", "598.00", nil)

	svc := newTestService("http://unused", handoff, nil)

	summary, total, err := svc.Confirmation(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "summary text", summary)
	assert.Equal(t, "598.00", total)
}

func TestConfirmation_EmptySessionID(t *testing.T) {
	svc := newTestService("http://unused", new(mockHandoffRepository), nil)

	_, _, err := svc.Confirmation(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
