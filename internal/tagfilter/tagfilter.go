package tagfilter

import (
	"errors"
	"strings"

	"github.com/modeldocs/portal/internal/models"
)

// MaxSuggestions caps the number of tags returned by Suggest.
const MaxSuggestions = 10

// ErrTagLimit is returned by Add when the set already holds its maximum
// number of tags.
var ErrTagLimit = errors.New("tag limit reached: remove a tag before adding another")

// Set is an ordered tag set with deduplication by ID. A zero maxTags means
// unbounded (filter context); the upload draft uses a bound of 4.
type Set struct {
	tags    []models.Tag
	maxTags int
}

// NewSet returns an unbounded tag set for the filter context.
func NewSet() *Set {
	return &Set{}
}

// NewBoundedSet returns a tag set that rejects additions beyond max tags.
func NewBoundedSet(max int) *Set {
	return &Set{maxTags: max}
}

// Add appends tag to the set. Adding a tag whose ID is already present is
// a no-op. Adding beyond the configured bound returns ErrTagLimit.
func (s *Set) Add(tag models.Tag) error {
	for _, t := range s.tags {
		if t.ID == tag.ID {
			return nil
		}
	}
	if s.maxTags > 0 && len(s.tags) >= s.maxTags {
		return ErrTagLimit
	}
	s.tags = append(s.tags, tag)
	return nil
}

// Remove drops the tag with the given ID, if present.
func (s *Set) Remove(id string) {
	out := s.tags[:0]
	for _, t := range s.tags {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.tags = out
}

// Clear empties the set.
func (s *Set) Clear() {
	s.tags = nil
}

// Contains reports whether a tag with the given ID is in the set.
func (s *Set) Contains(id string) bool {
	for _, t := range s.tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected tags.
func (s *Set) Len() int {
	return len(s.tags)
}

// Tags returns a copy of the selected tags in insertion order.
func (s *Set) Tags() []models.Tag {
	out := make([]models.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Suggest returns up to MaxSuggestions tags from vocabulary whose name
// contains query case-insensitively, excluding tags already in the set.
// A blank query yields no suggestions.
func (s *Set) Suggest(query string, vocabulary []models.Tag) []models.Tag {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	query = strings.ToLower(query)

	var out []models.Tag
	for _, t := range vocabulary {
		if !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		if s.Contains(t.ID) {
			continue
		}
		out = append(out, t)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
