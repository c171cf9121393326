package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/event"
	apperrors "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/errors"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/validator"
)

// ETA texts shown on the confirmation, per fulfillment type.
const (
	ETADelivery = "30-45 minutes"
	ETAPickup   = "15-20 minutes"
)

// CheckoutService implements order submission: draft validation, total
// computation, the editing -> submitting -> confirmed lifecycle, and the
// simulated settlement step. Orders are not persisted; the returned
// confirmation is the only artifact.
type CheckoutService struct {
	cart            *CartService
	producer        *event.Producer
	logger          *slog.Logger
	settlementDelay time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cart *CartService, producer *event.Producer, logger *slog.Logger, settlementDelay time.Duration) *CheckoutService {
	return &CheckoutService{
		cart:            cart,
		producer:        producer,
		logger:          logger,
		settlementDelay: settlementDelay,
		inFlight:        make(map[string]struct{}),
	}
}

// Quote prices the session's current cart under the given fulfillment type.
func (s *CheckoutService) Quote(ctx context.Context, sessionID, fulfillmentType string) (*domain.TotalBreakdown, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if fulfillmentType != domain.FulfillmentDelivery && fulfillmentType != domain.FulfillmentPickup {
		return nil, apperrors.InvalidInput("fulfillment type must be delivery or pickup")
	}

	cart, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	breakdown := domain.NewTotalBreakdown(cart.Subtotal(), fulfillmentType)
	return &breakdown, nil
}

// SubmitOrder validates the draft against the session's cart, runs the
// settlement step, and returns the confirmed order. On success the cart is
// cleared. Validation failures report every failing field at once and leave
// the cart untouched. A second submit for the same session while one is in
// flight is rejected with a conflict.
func (s *CheckoutService) SubmitOrder(ctx context.Context, sessionID string, draft domain.OrderDraft) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		checkoutRejections.WithLabelValues("empty_cart").Inc()
		return nil, apperrors.InvalidInput("cart is empty")
	}

	draft.Normalize()
	if err := validator.Validate(draft); err != nil {
		checkoutRejections.WithLabelValues("validation").Inc()
		return nil, err
	}

	if !s.beginSubmit(sessionID) {
		checkoutRejections.WithLabelValues("in_flight").Inc()
		return nil, apperrors.Conflict("an order submission is already in progress for this session")
	}
	defer s.endSubmit(sessionID)

	status := domain.StatusEditing
	if !domain.CanTransition(status, domain.StatusSubmitting) {
		return nil, apperrors.Internal(fmt.Errorf("invalid transition %s -> %s", status, domain.StatusSubmitting))
	}
	status = domain.StatusSubmitting

	s.logger.InfoContext(ctx, "order submitted for settlement",
		slog.String("session_id", sessionID),
		slog.String("fulfillment_type", draft.FulfillmentType),
		slog.String("payment_method", draft.PaymentMethod),
		slog.Int("item_count", cart.ItemCount()),
	)

	// Simulated settlement. The timer always runs to completion; there is no
	// failure or cancellation path.
	s.settle()

	if !domain.CanTransition(status, domain.StatusConfirmed) {
		return nil, apperrors.Internal(fmt.Errorf("invalid transition %s -> %s", status, domain.StatusConfirmed))
	}

	order := s.buildOrder(sessionID, cart, draft)

	if err := s.cart.ClearCart(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after confirmation",
			slog.String("session_id", sessionID),
			slog.String("order_number", order.Number),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderConfirmed(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.confirmed event",
			slog.String("order_number", order.Number),
			slog.String("error", err.Error()),
		)
	}

	ordersConfirmed.WithLabelValues(order.FulfillmentType, order.PaymentMethod).Inc()
	orderValueCents.Observe(float64(order.Totals.Total))

	s.logger.InfoContext(ctx, "order confirmed",
		slog.String("session_id", sessionID),
		slog.String("order_number", order.Number),
		slog.Int64("total", order.Totals.Total),
	)

	return order, nil
}

// beginSubmit marks a session's submission as in flight. Returns false when
// one is already running for the session.
func (s *CheckoutService) beginSubmit(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[sessionID]; ok {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) endSubmit(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func (s *CheckoutService) settle() {
	if s.settlementDelay > 0 {
		time.Sleep(s.settlementDelay)
	}
}

// buildOrder assembles the confirmed order snapshot from the cart and draft.
func (s *CheckoutService) buildOrder(sessionID string, cart *domain.Cart, draft domain.OrderDraft) *domain.Order {
	now := time.Now().UTC()

	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)

	order := &domain.Order{
		Number:          newOrderNumber(now),
		SessionID:       sessionID,
		Status:          domain.StatusConfirmed,
		Lines:           lines,
		Totals:          domain.NewTotalBreakdown(cart.Subtotal(), draft.FulfillmentType),
		Currency:        cart.Currency,
		FulfillmentType: draft.FulfillmentType,
		PaymentMethod:   draft.PaymentMethod,
		Customer: domain.Customer{
			FirstName: draft.FirstName,
			LastName:  draft.LastName,
			Email:     draft.Email,
			Phone:     draft.Phone,
		},
		SpecialInstructions: draft.SpecialInstructions,
		ETA:                 ETAPickup,
		ConfirmedAt:         now,
	}

	if draft.FulfillmentType == domain.FulfillmentDelivery {
		order.ETA = ETADelivery
		order.DeliveryAddress = &domain.DeliveryAddress{
			Address: draft.Address,
			City:    draft.City,
			ZipCode: draft.ZipCode,
		}
	}

	return order
}

// newOrderNumber produces a display-only receipt number from the last six
// digits of the current unix millisecond clock.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ONI-%06d", now.UnixMilli()%1_000_000)
}
