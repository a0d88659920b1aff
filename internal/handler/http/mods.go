// Package http exposes the catalog over a chi-routed JSON API.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Zinedinarnaut/torqueindex/internal/search"
	"github.com/Zinedinarnaut/torqueindex/internal/service"
	"github.com/Zinedinarnaut/torqueindex/pkg/httputil"
)

// ModHandler serves the mod search, lookup, scrape, and store endpoints.
type ModHandler struct {
	service *service.ModService
	logger  *slog.Logger
}

// NewModHandler creates the catalog HTTP handler.
func NewModHandler(service *service.ModService, logger *slog.Logger) *ModHandler {
	return &ModHandler{service: service, logger: logger}
}

// SearchMods handles GET /api/v1/mods?make=&model=&engine=.
func (h *ModHandler) SearchMods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := search.Filters{
		Make:   strings.TrimSpace(query.Get("make")),
		Model:  strings.TrimSpace(query.Get("model")),
		Engine: strings.TrimSpace(query.Get("engine")),
	}

	mods, err := h.service.SearchMods(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.ListResponse{
		Data: mods,
		Meta: httputil.ListMeta{Count: len(mods)},
	})
}

// GetMod handles GET /api/v1/mods/{id}.
func (h *ModHandler) GetMod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	mod, err := h.service.GetMod(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: mod})
}

// TriggerScrape handles POST /api/v1/scrape.
func (h *ModHandler) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.TriggerScrape(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// ListStores handles GET /api/v1/stores.
func (h *ModHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores := h.service.Stores(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.ListResponse{
		Data: stores,
		Meta: httputil.ListMeta{Count: len(stores)},
	})
}
