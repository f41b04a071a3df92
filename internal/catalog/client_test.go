package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modeldocs/portal/internal/models"
)

func TestGetArticlesSendsFilterParams(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode([]models.CatalogItem{{ID: "1", Title: "Foo"}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.GetArticles(context.Background(), ItemParams{
		CategoryID:    "3",
		SubcategoryID: "7",
		Tag:           "nlp",
	})
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Foo" {
		t.Fatalf("Unexpected items: %v", items)
	}

	expected := map[string]string{"category_id": "3", "subcategory_id": "7", "tag": "nlp"}
	for k, v := range expected {
		if gotQuery[k] != v {
			t.Errorf("Expected query %s=%s, got %s", k, v, gotQuery[k])
		}
	}
}

func TestGetArticlesOmitsEmptyParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Query()) != 0 {
			t.Errorf("Expected no query parameters, got %v", r.URL.Query())
		}
		_ = json.NewEncoder(w).Encode([]models.CatalogItem{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.GetArticles(context.Background(), ItemParams{}); err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
}

func TestCreateArticleMultipart(t *testing.T) {
	var gotHeader string
	var gotFields map[string]string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-MTRC-ID")
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			return
		}
		gotFields = map[string]string{}
		for k := range r.MultipartForm.Value {
			gotFields[k] = r.FormValue(k)
		}
		if file, _, err := r.FormFile("file"); err == nil {
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotFile = buf[:n]
			file.Close()
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	draft := &models.UploadDraft{
		Kind:          models.KindArticle,
		Title:         "Foo",
		Year:          2023,
		CategoryID:    "1",
		SubcategoryID: "2",
		SelectedTags:  []models.Tag{{ID: "1", Name: "nlp"}, {ID: "temp-1-Vision", Name: "Vision"}},
		FileName:      "foo.pdf",
		FileData:      []byte("pdf-bytes"),
	}

	if err := client.CreateArticle(context.Background(), draft, "E123"); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	if gotHeader != "E123" {
		t.Errorf("Expected identity header E123, got %q", gotHeader)
	}
	if gotFields["title"] != "Foo" || gotFields["year"] != "2023" {
		t.Errorf("Unexpected form fields: %v", gotFields)
	}
	// Empty scalars are omitted entirely, not sent blank.
	if _, ok := gotFields["publisher"]; ok {
		t.Error("Empty publisher should not be in the form")
	}
	// Tags travel as a JSON array of names so the server can resolve or
	// create them.
	var tagNames []string
	if err := json.Unmarshal([]byte(gotFields["tags"]), &tagNames); err != nil {
		t.Fatalf("Tags field is not a JSON array: %q", gotFields["tags"])
	}
	if len(tagNames) != 2 || tagNames[0] != "nlp" || tagNames[1] != "Vision" {
		t.Errorf("Unexpected tag names: %v", tagNames)
	}
	if string(gotFile) != "pdf-bytes" {
		t.Errorf("Expected file content to be attached, got %q", gotFile)
	}
}

func TestCreateWithoutEmployeeIDIsBlockedClientSide(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.CreateArticle(context.Background(), &models.UploadDraft{Title: "Foo"}, "")
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("Expected ErrAuthRequired, got %v", err)
	}
	if called {
		t.Error("No request should be sent without an employee id")
	}

	err = client.CreateNotebook(context.Background(), &models.UploadDraft{Title: "Foo"}, "")
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("Expected ErrAuthRequired, got %v", err)
	}
}

func TestCreateNotebookJSON(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	draft := &models.UploadDraft{
		Kind:     models.KindNotebook,
		Title:    "My Notebook",
		FilePath: "/uploads/nb.ipynb",
	}
	if err := client.CreateNotebook(context.Background(), draft, "E123"); err != nil {
		t.Fatalf("CreateNotebook failed: %v", err)
	}

	if gotBody["name"] != "My Notebook" {
		t.Errorf("Expected name in body, got %v", gotBody)
	}
	if gotBody["file_path"] != "/uploads/nb.ipynb" {
		t.Errorf("Expected file_path referencing the pre-uploaded file, got %v", gotBody)
	}
}

func TestGetJSONNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.GetTags(context.Background()); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}
