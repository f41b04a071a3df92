package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/modeldocs/portal/internal/models"
)

// mtrcHeader carries the employee identifier that authorizes mutating
// catalog operations.
const mtrcHeader = "X-MTRC-ID"

// ErrAuthRequired is returned when a mutating operation is attempted
// without an employee identifier. No request is sent in that case.
var ErrAuthRequired = errors.New("employee identifier required for this operation")

// Client talks to the external catalog API.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// ItemParams are the supported item-list query parameters. The API honors
// a single tag name; multi-tag filtering is not part of its contract.
type ItemParams struct {
	CategoryID    string
	SubcategoryID string
	Tag           string
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetCategories fetches all model categories.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.getJSON(ctx, "/api/categories", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return out, nil
}

// GetSubcategories fetches subcategories, optionally scoped to a parent
// category.
func (c *Client) GetSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	params := url.Values{}
	if categoryID != "" {
		params.Set("category_id", categoryID)
	}
	var out []models.Subcategory
	if err := c.getJSON(ctx, "/api/subcategories", params, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch subcategories: %w", err)
	}
	return out, nil
}

// GetTags fetches the full tag vocabulary.
func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := c.getJSON(ctx, "/api/tags", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	return out, nil
}

// GetArticles fetches articles matching the given filters.
func (c *Client) GetArticles(ctx context.Context, p ItemParams) ([]models.CatalogItem, error) {
	return c.getItems(ctx, "/api/articles", p)
}

// GetNotebooks fetches notebooks matching the given filters.
func (c *Client) GetNotebooks(ctx context.Context, p ItemParams) ([]models.CatalogItem, error) {
	return c.getItems(ctx, "/api/notebooks", p)
}

func (c *Client) getItems(ctx context.Context, path string, p ItemParams) ([]models.CatalogItem, error) {
	params := url.Values{}
	if p.CategoryID != "" {
		params.Set("category_id", p.CategoryID)
	}
	if p.SubcategoryID != "" {
		params.Set("subcategory_id", p.SubcategoryID)
	}
	if p.Tag != "" {
		params.Set("tag", p.Tag)
	}

	var out []models.CatalogItem
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch items from %s: %w", path, err)
	}
	return out, nil
}

// CreateArticle submits a new article as a multipart form. Scalar fields
// are appended only when non-empty, tags are serialized as a JSON array of
// tag names so the server can resolve or create them, and the file is
// attached when present. The employee identifier travels as a request
// header, never as form data.
func (c *Client) CreateArticle(ctx context.Context, draft *models.UploadDraft, employeeID string) error {
	if employeeID == "" {
		return ErrAuthRequired
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":          draft.Title,
		"authors":        draft.Authors,
		"publisher":      draft.Publisher,
		"abstract_full":  draft.AbstractFull,
		"abstract_short": draft.AbstractShort,
		"url":            draft.URL,
		"category_id":    draft.CategoryID,
		"subcategory_id": draft.SubcategoryID,
	}
	if draft.Year > 0 {
		fields["year"] = strconv.Itoa(draft.Year)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	tagNames, err := json.Marshal(draft.TagNames())
	if err != nil {
		return fmt.Errorf("failed to serialize tags: %w", err)
	}
	if err := w.WriteField("tags", string(tagNames)); err != nil {
		return fmt.Errorf("failed to write tags field: %w", err)
	}

	if len(draft.FileData) > 0 {
		part, err := w.CreateFormFile("file", draft.FileName)
		if err != nil {
			return fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(draft.FileData); err != nil {
			return fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/articles", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(mtrcHeader, employeeID)

	return c.doCreate(req)
}

// CreateNotebook submits a new notebook as JSON referencing a pre-uploaded
// file path.
func (c *Client) CreateNotebook(ctx context.Context, draft *models.UploadDraft, employeeID string) error {
	if employeeID == "" {
		return ErrAuthRequired
	}

	body, err := json.Marshal(map[string]any{
		"name":           draft.Title,
		"file_path":      draft.FilePath,
		"abstract_short": draft.AbstractShort,
		"category_id":    draft.CategoryID,
		"subcategory_id": draft.SubcategoryID,
		"tags":           draft.TagNames(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notebook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/notebooks", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(mtrcHeader, employeeID)

	return c.doCreate(req)
}

func (c *Client) doCreate(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Download fetches the binary content of a catalog item.
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/download/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
