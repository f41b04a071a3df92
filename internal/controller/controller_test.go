package controller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/models"
)

type fakeAPI struct {
	mu          sync.Mutex
	categories  []models.Category
	subs        []models.Subcategory
	tags        []models.Tag
	items       []models.CatalogItem
	lookupErr   error
	itemsErr    error
	lastParams  catalog.ItemParams
	getArticles func(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error)
}

func (f *fakeAPI) GetCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.lookupErr
}

func (f *fakeAPI) GetSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	return f.subs, f.lookupErr
}

func (f *fakeAPI) GetTags(ctx context.Context) ([]models.Tag, error) {
	return f.tags, f.lookupErr
}

func (f *fakeAPI) GetArticles(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error) {
	f.mu.Lock()
	f.lastParams = p
	f.mu.Unlock()
	if f.getArticles != nil {
		return f.getArticles(ctx, p)
	}
	return f.items, f.itemsErr
}

func (f *fakeAPI) GetNotebooks(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error) {
	return f.GetArticles(ctx, p)
}

func someItems(n int) []models.CatalogItem {
	items := make([]models.CatalogItem, n)
	for i := range items {
		items[i] = models.CatalogItem{ID: fmt.Sprintf("%d", i+1), Title: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

func TestLoadInitialDegradesOnLookupFailure(t *testing.T) {
	api := &fakeAPI{
		lookupErr: fmt.Errorf("connection refused"),
		items:     someItems(3),
	}
	c := New(api, models.KindArticle, 10)

	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("Lookup failures should not be fatal, got %v", err)
	}
	if len(c.Categories()) != 0 || len(c.Tags()) != 0 {
		t.Error("Failed lookups should degrade to empty lists")
	}
	if len(c.Items()) != 3 {
		t.Errorf("Expected 3 items, got %d", len(c.Items()))
	}
}

func TestLoadInitialFailsOnItemError(t *testing.T) {
	api := &fakeAPI{itemsErr: fmt.Errorf("connection refused")}
	c := New(api, models.KindArticle, 10)

	if err := c.LoadInitial(context.Background()); err == nil {
		t.Fatal("An item-list failure must surface as an error")
	}
	if c.Err() == nil {
		t.Error("Error state should be recorded")
	}
}

func TestRefetchResetsPaginationAndClearsError(t *testing.T) {
	api := &fakeAPI{itemsErr: fmt.Errorf("boom")}
	c := New(api, models.KindArticle, 2)

	if err := c.Refetch(context.Background(), models.FilterState{}); err == nil {
		t.Fatal("Expected initial refetch to fail")
	}

	api.itemsErr = nil
	api.items = someItems(5)
	if err := c.Refetch(context.Background(), models.FilterState{}); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	if c.Err() != nil {
		t.Errorf("Error state should be cleared, got %v", c.Err())
	}

	_, state := c.PageItems(3)
	if state.CurrentPage != 3 {
		t.Fatalf("Expected page 3, got %d", state.CurrentPage)
	}

	if err := c.Refetch(context.Background(), models.FilterState{CategoryID: "1"}); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	_, state = c.PageItems(0) // out of range keeps the current page
	if state.CurrentPage != 1 {
		t.Errorf("Filter change should reset to page 1, got %d", state.CurrentPage)
	}
}

func TestRefetchSendsOnlyFirstTag(t *testing.T) {
	api := &fakeAPI{items: someItems(1)}
	c := New(api, models.KindArticle, 10)

	filter := models.FilterState{
		Tags: []models.Tag{{ID: "1", Name: "nlp"}, {ID: "2", Name: "vision"}},
	}
	if err := c.Refetch(context.Background(), filter); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	if api.lastParams.Tag != "nlp" {
		t.Errorf("Only the first tag should be sent, got %q", api.lastParams.Tag)
	}
}

func TestStaleRefetchResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	slowItems := someItems(1)
	fastItems := someItems(4)

	api := &fakeAPI{}
	api.getArticles = func(ctx context.Context, p catalog.ItemParams) ([]models.CatalogItem, error) {
		if p.CategoryID == "" {
			<-release
			return slowItems, nil
		}
		return fastItems, nil
	}
	c := New(api, models.KindArticle, 10)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Refetch(context.Background(), models.FilterState{})
	}()

	// Wait until the slow refetch is in flight, then run a newer one.
	for c.generation.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := c.Refetch(context.Background(), models.FilterState{CategoryID: "1"}); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	close(release)
	<-done

	if len(c.Items()) != len(fastItems) {
		t.Errorf("Stale response overwrote newer results: got %d items, expected %d", len(c.Items()), len(fastItems))
	}
}

func TestSubcategoriesFor(t *testing.T) {
	api := &fakeAPI{
		subs: []models.Subcategory{
			{ID: "10", Name: "Transformers", ParentCategoryID: "1"},
			{ID: "11", Name: "CNNs", ParentCategoryID: "2"},
			{ID: "12", Name: "RNNs", ParentCategoryID: "1"},
		},
		items: someItems(1),
	}
	c := New(api, models.KindArticle, 10)
	if err := c.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	got := c.SubcategoriesFor("1")
	if len(got) != 2 {
		t.Fatalf("Expected 2 subcategories for category 1, got %d", len(got))
	}
	for _, s := range got {
		if s.ParentCategoryID != "1" {
			t.Errorf("Subcategory %s has wrong parent %s", s.ID, s.ParentCategoryID)
		}
	}

	if len(c.SubcategoriesFor("")) != 3 {
		t.Error("Empty category id should return all subcategories")
	}
}

func TestPageItems(t *testing.T) {
	api := &fakeAPI{items: someItems(25)}
	c := New(api, models.KindArticle, 10)
	if err := c.Refetch(context.Background(), models.FilterState{}); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}

	items, state := c.PageItems(3)
	if len(items) != 5 {
		t.Errorf("Expected 5 items on the last page, got %d", len(items))
	}
	if state.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", state.TotalPages)
	}
}
