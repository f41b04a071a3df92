package models

import (
	"strings"
	"time"
)

// ItemKind distinguishes the two catalog item types.
type ItemKind string

const (
	KindArticle  ItemKind = "article"
	KindNotebook ItemKind = "notebook"
)

// CatalogItem is an article or notebook record from the catalog API.
// Items are read-only once listed; the cached copy is replaced wholesale
// on refetch after a create.
type CatalogItem struct {
	ID            string    `json:"id"`
	Kind          ItemKind  `json:"kind,omitempty"`
	Title         string    `json:"title"`
	Authors       string    `json:"authors,omitempty"`
	Year          int       `json:"year,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	AbstractFull  string    `json:"abstract_full,omitempty"`
	AbstractShort string    `json:"abstract_short,omitempty"`
	URL           string    `json:"url,omitempty"`
	FilePath      string    `json:"file_path,omitempty"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID string    `json:"subcategory_id"`
	Tags          []Tag     `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
}

// Tag is a catalog tag. A tag is either persisted (server-assigned ID) or
// pending (client-synthesized ID of the form "temp-<n>-<name>", resolved
// server-side by name on submission).
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pending reports whether the tag has a client-synthesized ID.
func (t Tag) Pending() bool {
	return strings.HasPrefix(t.ID, "temp-")
}

// Category is a top-level model category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subcategory belongs to exactly one parent category. Subcategories are
// filtered client-side by parent category ID.
type Subcategory struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParentCategoryID string `json:"parent_category_id"`
}

// FilterState holds the active item filters. The catalog API honors only
// the first selected tag; that limitation is reflected here on purpose.
type FilterState struct {
	CategoryID    string
	SubcategoryID string
	Tags          []Tag
}

// FirstTagName returns the name of the first selected tag, or "" when no
// tag is selected. Only this tag is sent to the catalog API.
func (f FilterState) FirstTagName() string {
	if len(f.Tags) == 0 {
		return ""
	}
	return f.Tags[0].Name
}

// UploadDraft is the mutable form state for a new catalog item.
type UploadDraft struct {
	Kind          ItemKind `json:"kind"`
	Title         string   `json:"title"`
	Authors       string   `json:"authors"`
	Year          int      `json:"year"`
	Publisher     string   `json:"publisher"`
	AbstractFull  string   `json:"abstract_full"`
	AbstractShort string   `json:"abstract_short"`
	URL           string   `json:"url"`
	FilePath      string   `json:"file_path"`
	CategoryID    string   `json:"category_id"`
	SubcategoryID string   `json:"subcategory_id"`
	SelectedTags  []Tag    `json:"selected_tags"`
	FileName      string   `json:"file_name,omitempty"`
	FileData      []byte   `json:"-"`
}

// TagNames returns the names of the draft's selected tags, in order.
func (d *UploadDraft) TagNames() []string {
	names := make([]string, 0, len(d.SelectedTags))
	for _, t := range d.SelectedTags {
		names = append(names, t.Name)
	}
	return names
}

// PageState tracks pagination for the item list.
type PageState struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
}
