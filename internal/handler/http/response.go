package http

import (
	"net/http"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/httputil"
)

// cartResponse is the cart snapshot returned by cart endpoints. Subtotal and
// item count are derived server-side so clients never recompute totals.
type cartResponse struct {
	SessionID string            `json:"session_id"`
	Lines     []domain.CartLine `json:"lines"`
	Subtotal  int64             `json:"subtotal"`
	ItemCount int               `json:"item_count"`
	IsEmpty   bool              `json:"is_empty"`
	Currency  string            `json:"currency"`
}

func newCartResponse(cart *domain.Cart) cartResponse {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartResponse{
		SessionID: cart.SessionID,
		Lines:     lines,
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
		IsEmpty:   cart.IsEmpty(),
		Currency:  cart.Currency,
	}
}

func writeMissingSession(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
	})
}
