package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/catalog"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/event"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/repository"
	apperrors "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/errors"
)

// MaxQuantityPerItem is the maximum quantity allowed on a single cart line.
const MaxQuantityPerItem = 100

// CartService implements the business logic for cart operations. Every
// mutation reads the current cart, transforms it, and saves it back whole.
type CartService struct {
	repo     repository.CartRepository
	catalog  *catalog.Catalog
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, cat *catalog.Catalog, producer *event.Producer, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  cat,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds one unit of a menu item to the session's cart. If a line for
// the item already exists, its quantity is incremented; otherwise a new line
// is appended with quantity 1.
func (s *CartService) AddItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(itemID); i >= 0 {
		if cart.Lines[i].Quantity >= MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
		}
		cart.Lines[i].Quantity++
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    1,
			ImageURL:    item.ImageURL,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// RemoveItem removes one unit of a menu item from the session's cart. When the
// line quantity reaches zero the line is dropped. Removing an item that is not
// in the cart leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindLine(itemID)
	if i < 0 {
		return cart, nil
	}

	if cart.Lines[i].Quantity > 1 {
		cart.Lines[i].Quantity--
	} else {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("item_id", itemID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// ClearCart removes all lines from the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// publishCartUpdated publishes a cart.updated event. Publishing is
// best-effort: failures are logged and do not fail the cart operation.
func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

// newEmptyCart creates a new empty cart for the given session.
func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: sessionID,
		Lines:     []domain.CartLine{},
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
