package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	apperrors "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/errors"
)

type entry struct {
	cart      *domain.Cart
	expiresAt time.Time
}

// CartRepository implements repository.CartRepository with an in-process map.
// Intended for local development and tests where Redis is not available.
type CartRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewCartRepository creates a new in-memory cart repository.
func NewCartRepository(ttl time.Duration) *CartRepository {
	return &CartRepository{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get retrieves a cart by session ID.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, apperrors.NotFound("cart", sessionID)
	}

	// Return a copy so callers cannot mutate stored state in place.
	cart := *e.cart
	cart.Lines = make([]domain.CartLine, len(e.cart.Lines))
	copy(cart.Lines, e.cart.Lines)

	return &cart, nil
}

// Save persists a cart, resetting its TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	stored := *cart
	stored.Lines = make([]domain.CartLine, len(cart.Lines))
	copy(stored.Lines, cart.Lines)

	r.mu.Lock()
	r.entries[cart.SessionID] = entry{cart: &stored, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	return nil
}

// Delete removes a cart by session ID.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()

	return nil
}
