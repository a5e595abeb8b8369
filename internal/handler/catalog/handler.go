package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	catalogService "github.com/vgrajeda/muela-guide/backend/internal/service/catalog"
	"github.com/vgrajeda/muela-guide/backend/pkg/utils"
)

// Handler serves health and catalog data.
type Handler struct {
	catalog *catalogService.Service
}

// New creates the catalog handler.
func New(catalog *catalogService.Service) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes registers the read-only catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/catalog", h.handleCatalog)
	r.Get("/place/{name}", h.handlePlace)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"dataLoaded":   h.catalog.Available(),
		"recordsCount": h.catalog.Count(),
	})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	doc, err := h.catalog.Document()
	if err != nil {
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{
			"error": "catalog unavailable",
			"path":  h.catalog.Path(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Available() {
		utils.RespondError(w, http.StatusNotFound, "catalog unavailable")
		return
	}

	name := chi.URLParam(r, "name")
	feature, ok := h.catalog.FindFeature(name)
	if !ok {
		utils.RespondJSON(w, http.StatusNotFound, map[string]any{
			"error":     "place not found",
			"available": h.catalog.Names(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, feature)
}
