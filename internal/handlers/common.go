package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/modeldocs/portal/internal/analysis"
	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/config"
	"github.com/modeldocs/portal/internal/controller"
	"github.com/modeldocs/portal/internal/identity"
	"github.com/modeldocs/portal/internal/models"
	"github.com/modeldocs/portal/internal/storage"
	"github.com/modeldocs/portal/internal/uploader"
)

type Handler struct {
	articles  *controller.Controller
	notebooks *controller.Controller
	client    *catalog.Client
	drafts    *storage.DraftStore
	analyzer  *analysis.Service
	workflow  *uploader.Workflow
	ident     identity.Provider
	cfg       *config.Config
}

// New wires the portal handler. The upload workflow refreshes both item
// controllers after a successful submission.
func New(cfg *config.Config, client *catalog.Client, ident identity.Provider) *Handler {
	h := &Handler{
		articles:  controller.New(client, models.KindArticle, cfg.PageSize),
		notebooks: controller.New(client, models.KindNotebook, cfg.PageSize),
		client:    client,
		drafts:    storage.New(),
		analyzer:  analysis.NewService(),
		ident:     ident,
		cfg:       cfg,
	}
	h.workflow = uploader.New(client, ident, refreshBoth{h.articles, h.notebooks})
	return h
}

// Articles exposes the article controller for initial load wiring.
func (h *Handler) Articles() *controller.Controller { return h.articles }

// Notebooks exposes the notebook controller for initial load wiring.
func (h *Handler) Notebooks() *controller.Controller { return h.notebooks }

type refreshBoth struct {
	a, b *controller.Controller
}

func (r refreshBoth) Refresh(ctx context.Context) error {
	if err := r.a.Refresh(ctx); err != nil {
		return err
	}
	return r.b.Refresh(ctx)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getDraftOrError(w http.ResponseWriter, id string) (*storage.DraftSession, bool) {
	session, exists := h.drafts.Get(id)
	if !exists {
		h.writeError(w, "Draft not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
