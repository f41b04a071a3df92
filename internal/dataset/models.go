package dataset

import (
	"strings"

	"github.com/modeldocs/portal/internal/models"
)

// Record is one row of a catalog seed dataset (Parquet or JSONL).
type Record struct {
	Kind          string   `parquet:"kind" json:"kind"`
	Title         string   `parquet:"title" json:"title"`
	Authors       string   `parquet:"authors" json:"authors"`
	Year          int32    `parquet:"year" json:"year"`
	Publisher     string   `parquet:"publisher" json:"publisher"`
	AbstractShort string   `parquet:"abstract_short" json:"abstract_short"`
	URL           string   `parquet:"url" json:"url"`
	FilePath      string   `parquet:"file_path" json:"file_path"`
	CategoryID    string   `parquet:"category_id" json:"category_id"`
	SubcategoryID string   `parquet:"subcategory_id" json:"subcategory_id"`
	Tags          []string `parquet:"tags,list" json:"tags"`
}

// ItemKind maps the record's kind column to a catalog item kind,
// defaulting to article.
func (r *Record) ItemKind() models.ItemKind {
	if strings.EqualFold(r.Kind, string(models.KindNotebook)) {
		return models.KindNotebook
	}
	return models.KindArticle
}

// Draft converts the record to an upload draft ready for submission.
func (r *Record) Draft() models.UploadDraft {
	tags := make([]models.Tag, 0, len(r.Tags))
	for _, name := range r.Tags {
		if name = strings.TrimSpace(name); name != "" {
			tags = append(tags, models.Tag{ID: name, Name: name})
		}
	}
	return models.UploadDraft{
		Kind:          r.ItemKind(),
		Title:         strings.TrimSpace(r.Title),
		Authors:       r.Authors,
		Year:          int(r.Year),
		Publisher:     r.Publisher,
		AbstractShort: r.AbstractShort,
		URL:           r.URL,
		FilePath:      r.FilePath,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		SelectedTags:  tags,
	}
}
