package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/models"
	"github.com/modeldocs/portal/internal/pagination"
)

// API is the slice of the catalog client the controller needs.
type API interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetArticles(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error)
	GetNotebooks(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error)
}

// Controller orchestrates catalog fetches for one item kind. Lookup
// failures (categories, subcategories, tags) degrade to empty lists;
// an item-list failure is fatal to the view and recorded as the error
// state.
type Controller struct {
	client   API
	kind     models.ItemKind
	pageSize int

	mu            sync.RWMutex
	categories    []models.Category
	subcategories []models.Subcategory
	tags          []models.Tag
	items         []models.CatalogItem
	filter        models.FilterState
	page          pagination.State
	loadErr       error

	// generation guards overlapping refetches: only the response matching
	// the most recently issued generation is applied.
	generation atomic.Uint64
}

// New creates a controller for the given item kind.
func New(client API, kind models.ItemKind, pageSize int) *Controller {
	return &Controller{
		client:   client,
		kind:     kind,
		pageSize: pageSize,
	}
}

// LoadInitial fetches categories, subcategories, tags, and items
// concurrently. Only an item-list failure is returned; lookup failures are
// logged and degrade to empty lists.
func (c *Controller) LoadInitial(ctx context.Context) error {
	var wg sync.WaitGroup
	var itemErr error

	wg.Add(4)
	go func() {
		defer wg.Done()
		cats, err := c.client.GetCategories(ctx)
		if err != nil {
			slog.Warn("Failed to fetch categories, continuing with none", "error", err)
			cats = nil
		}
		c.mu.Lock()
		c.categories = cats
		c.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		subs, err := c.client.GetSubcategories(ctx, "")
		if err != nil {
			slog.Warn("Failed to fetch subcategories, continuing with none", "error", err)
			subs = nil
		}
		c.mu.Lock()
		c.subcategories = subs
		c.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		tags, err := c.client.GetTags(ctx)
		if err != nil {
			slog.Warn("Failed to fetch tags, continuing with none", "error", err)
			tags = nil
		}
		c.mu.Lock()
		c.tags = tags
		c.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		itemErr = c.Refetch(ctx, models.FilterState{})
	}()
	wg.Wait()

	return itemErr
}

// Refetch re-issues the item query for the given filter state and resets
// pagination to page 1. Overlapping refetches are not serialized; a stale
// response (one issued before a newer refetch) is dropped instead of
// overwriting newer results.
func (c *Controller) Refetch(ctx context.Context, filter models.FilterState) error {
	gen := c.generation.Add(1)

	params := catalog.ItemParams{
		CategoryID:    filter.CategoryID,
		SubcategoryID: filter.SubcategoryID,
		Tag:           filter.FirstTagName(),
	}

	var items []models.CatalogItem
	var err error
	switch c.kind {
	case models.KindNotebook:
		items, err = c.client.GetNotebooks(ctx, params)
	default:
		items, err = c.client.GetArticles(ctx, params)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation.Load() {
		slog.Debug("Dropping stale item response", "generation", gen)
		return nil
	}
	if err != nil {
		c.loadErr = fmt.Errorf("failed to load %ss: %w", c.kind, err)
		return c.loadErr
	}
	c.items = items
	c.filter = filter
	c.page = pagination.NewState(len(items), c.pageSize)
	c.loadErr = nil
	return nil
}

// Refresh re-runs the item query with the current filter, keeping page 1.
// Used after a successful upload.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.RLock()
	filter := c.filter
	c.mu.RUnlock()
	return c.Refetch(ctx, filter)
}

// Items returns a snapshot of the full cached item list.
func (c *Controller) Items() []models.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// PageItems returns the items for the requested page together with the
// resulting page state. Out-of-range pages fall back to the current page.
func (c *Controller) PageItems(page int) ([]models.CatalogItem, pagination.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.SetPage(page)
	return pagination.Paginate(c.items, c.page.CurrentPage, c.page.PageSize), c.page
}

// Categories returns the cached category list.
func (c *Controller) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// SubcategoriesFor returns subcategories whose parent matches categoryID;
// an empty categoryID returns all of them.
func (c *Controller) SubcategoriesFor(categoryID string) []models.Subcategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Subcategory
	for _, s := range c.subcategories {
		if categoryID == "" || s.ParentCategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

// Tags returns the cached tag vocabulary.
func (c *Controller) Tags() []models.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Err returns the current error state of the item list, nil when healthy.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}
