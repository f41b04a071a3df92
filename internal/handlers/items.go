package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/modeldocs/portal/internal/controller"
	"github.com/modeldocs/portal/internal/models"
	"github.com/modeldocs/portal/internal/pagination"
	"github.com/modeldocs/portal/internal/tagfilter"
)

// itemPage is the list response: one page of items plus the page-number
// window to render.
type itemPage struct {
	Items      []models.CatalogItem `json:"items"`
	Page       pagination.State     `json:"page"`
	PageWindow []int                `json:"page_window"`
}

func (h *Handler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	h.handleItemList(w, r, h.articles)
}

func (h *Handler) HandleNotebooks(w http.ResponseWriter, r *http.Request) {
	h.handleItemList(w, r, h.notebooks)
}

func (h *Handler) handleItemList(w http.ResponseWriter, r *http.Request, c *controller.Controller) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := models.FilterState{
		CategoryID:    q.Get("category_id"),
		SubcategoryID: q.Get("subcategory_id"),
	}
	if tag := q.Get("tag"); tag != "" {
		filter.Tags = []models.Tag{{ID: tag, Name: tag}}
	}

	if err := c.Refetch(r.Context(), filter); err != nil {
		h.writeError(w, "Failed to load items: "+err.Error(), http.StatusBadGateway)
		return
	}

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		page = p
	}
	items, state := c.PageItems(page)
	if items == nil {
		items = []models.CatalogItem{}
	}

	h.writeJSON(w, itemPage{
		Items:      items,
		Page:       state,
		PageWindow: pagination.PageWindow(state.CurrentPage, state.TotalPages, pagination.DefaultWindowSize),
	})
}

// HandleTagSuggest serves typeahead suggestions for the tag filter and the
// upload tag selector. Already-selected tag ids are passed comma-separated
// and excluded from the results.
func (h *Handler) HandleTagSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	set := tagfilter.NewSet()
	for _, id := range strings.Split(q.Get("selected"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			_ = set.Add(models.Tag{ID: id})
		}
	}

	suggestions := set.Suggest(q.Get("q"), h.articles.Tags())
	if suggestions == nil {
		suggestions = []models.Tag{}
	}
	h.writeJSON(w, suggestions)
}

// HandleDownload proxies the binary download of a catalog item.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if id == "" {
		h.writeError(w, "Item id is required", http.StatusBadRequest)
		return
	}

	data, err := h.client.Download(r.Context(), id)
	if err != nil {
		h.writeError(w, "Failed to download item: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(data); err != nil {
		h.writeError(w, "Failed to write download", http.StatusInternalServerError)
	}
}
