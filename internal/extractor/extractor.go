package extractor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/modeldocs/portal/internal/models"
)

// MaxKeywords caps how many keywords survive normalization; it matches the
// tag limit on the upload draft.
const MaxKeywords = 4

// Result is the structured outcome of extracting metadata from an analysis
// payload. Parsed is false when every parse attempt failed and the original
// payload was used as-is.
type Result struct {
	Fields map[string]any
	Parsed bool
}

// Extract pulls a structured metadata object out of a document-analysis
// response. The response may already be structured, or it may carry a
// "rawAnalysis" string whose JSON is possibly wrapped in a markdown code
// fence. Extraction never fails: when nothing parses, the original payload
// is returned unparsed so the caller can still render something.
func Extract(payload []byte) Result {
	var envelope map[string]any
	if err := json.Unmarshal(payload, &envelope); err != nil {
		slog.Warn("Analysis payload is not a JSON object, using raw output", "error", err)
		return Result{Fields: map[string]any{"rawAnalysis": string(payload)}}
	}

	raw, ok := envelope["rawAnalysis"].(string)
	if !ok {
		// Already structured.
		return Result{Fields: envelope, Parsed: true}
	}

	if fields, ok := parseFencedJSON(raw); ok {
		return Result{Fields: fields, Parsed: true}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err == nil {
		return Result{Fields: fields, Parsed: true}
	}

	slog.Warn("Failed to parse analysis response, using raw output")
	return Result{Fields: envelope}
}

// parseFencedJSON looks for a ```json code fence inside s and parses its
// interior.
func parseFencedJSON(s string) (map[string]any, bool) {
	const fence = "```json"
	start := strings.Index(s, fence)
	if start == -1 {
		return nil, false
	}
	body := s[start+len(fence):]
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &fields); err != nil {
		slog.Warn("Fenced block is not valid JSON", "error", err)
		return nil, false
	}
	return fields, true
}

// PrefillDraft maps an extraction result onto an upload draft, applying
// defaults for absent fields: the current year for "year", empty strings
// for text fields. Numeric category ids are coerced to strings for form
// binding.
func PrefillDraft(res Result, kind models.ItemKind) models.UploadDraft {
	f := res.Fields
	return models.UploadDraft{
		Kind:          kind,
		Title:         stringField(f, "title"),
		Authors:       stringField(f, "authors"),
		Year:          yearField(f, "year"),
		Publisher:     stringField(f, "publisher"),
		AbstractFull:  stringField(f, "abstract_full"),
		AbstractShort: stringField(f, "abstract_short"),
		URL:           stringField(f, "url"),
		CategoryID:    stringField(f, "category_id"),
		SubcategoryID: stringField(f, "subcategory_id"),
	}
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// JSON numbers decode as float64; ids come back without decimals.
		return strconv.FormatInt(int64(s), 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func yearField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case string:
		if y, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return y
		}
	}
	return time.Now().Year()
}

// NormalizeKeywords coerces the loosely-typed "keywords" field to a list
// of at most MaxKeywords non-blank strings. Arrays are used directly,
// strings are split on commas, and anything else is stringified and then
// split as a last resort.
func NormalizeKeywords(v any) []string {
	var parts []string
	switch kw := v.(type) {
	case nil:
		return nil
	case []string:
		parts = kw
	case []any:
		for _, e := range kw {
			parts = append(parts, fmt.Sprint(e))
		}
	case string:
		parts = strings.Split(kw, ",")
	default:
		parts = strings.Split(fmt.Sprint(kw), ",")
	}

	out := make([]string, 0, MaxKeywords)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// Reconciler resolves free-text keywords against the known tag vocabulary.
// Keywords without a match become pending tags whose ids are unique within
// one reconciler, generated from a local counter.
type Reconciler struct {
	seq int
}

// Reconcile returns one tag per keyword: the existing vocabulary tag on a
// case-insensitive name match, otherwise a pending tag carrying the
// keyword as its name.
func (r *Reconciler) Reconcile(keywords []string, vocabulary []models.Tag) []models.Tag {
	tags := make([]models.Tag, 0, len(keywords))
	for _, kw := range keywords {
		if t, ok := lookupTag(kw, vocabulary); ok {
			tags = append(tags, t)
			continue
		}
		r.seq++
		tags = append(tags, models.Tag{
			ID:   fmt.Sprintf("temp-%d-%s", r.seq, kw),
			Name: kw,
		})
	}
	return tags
}

func lookupTag(name string, vocabulary []models.Tag) (models.Tag, bool) {
	for _, t := range vocabulary {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return models.Tag{}, false
}
