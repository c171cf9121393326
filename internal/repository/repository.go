package repository

import (
	"context"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
)

// CartRepository defines the persistence contract for session carts. Carts are
// transient, session-scoped state; implementations expire them after a TTL.
type CartRepository interface {
	// Get retrieves the cart for a session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session ID. Deleting a missing cart is not an error.
	Delete(ctx context.Context, sessionID string) error
}
