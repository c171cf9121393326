package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/catalog"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/httputil"
)

// MenuHandler handles HTTP requests for the menu catalog.
type MenuHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu HTTP handler.
func NewMenuHandler(cat *catalog.Catalog, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		catalog: cat,
		logger:  logger,
	}
}

// ListItems handles GET /api/v1/menu
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Items()})
}

// GetItem handles GET /api/v1/menu/{itemId}
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	item, err := h.catalog.Item(itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}
