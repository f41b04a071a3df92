package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modeldocs/portal/internal/models"
)

func TestNewLoader(t *testing.T) {
	path := "./seed.parquet"
	loader := NewLoader(path)

	if loader.datasetPath != path {
		t.Errorf("Expected path %s, got %s", path, loader.datasetPath)
	}
}

func writeJSONL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestLoadJSONL(t *testing.T) {
	path := writeJSONL(t, `{"kind":"article","title":"Attention","authors":"V. et al","year":2017,"tags":["nlp","transformers"]}
{"kind":"notebook","title":"Fine-tuning demo","file_path":"/uploads/ft.ipynb","category_id":"1"}
`)

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[0].Title != "Attention" {
		t.Errorf("Expected title 'Attention', got %s", records[0].Title)
	}
	if records[0].ItemKind() != models.KindArticle {
		t.Errorf("Expected article kind, got %s", records[0].ItemKind())
	}
	if records[1].ItemKind() != models.KindNotebook {
		t.Errorf("Expected notebook kind, got %s", records[1].ItemKind())
	}
}

func TestLoadSample(t *testing.T) {
	path := writeJSONL(t, `{"title":"One"}
{"title":"Two"}
{"title":"Three"}
`)

	records, err := NewLoader(path).LoadSample(2)
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := NewLoader("seed.txt").Load(); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/seed.jsonl").Load(); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestRecordDraft(t *testing.T) {
	record := Record{
		Kind:    "article",
		Title:   "  Attention  ",
		Authors: "V. et al",
		Year:    2017,
		Tags:    []string{"nlp", " ", "transformers"},
	}

	draft := record.Draft()
	if draft.Title != "Attention" {
		t.Errorf("Expected trimmed title, got %q", draft.Title)
	}
	if draft.Year != 2017 {
		t.Errorf("Expected year 2017, got %d", draft.Year)
	}
	if len(draft.SelectedTags) != 2 {
		t.Fatalf("Blank tags should be dropped, got %v", draft.SelectedTags)
	}
	if draft.SelectedTags[0].Name != "nlp" || draft.SelectedTags[1].Name != "transformers" {
		t.Errorf("Unexpected tags: %v", draft.SelectedTags)
	}
}
