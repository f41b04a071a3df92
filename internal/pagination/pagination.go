package pagination

// DefaultWindowSize is the number of page buttons shown at once.
const DefaultWindowSize = 5

// Paginate returns the slice of items for the given 1-based page. Pages
// outside the item range return an empty slice.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages returns ceil(totalItems / pageSize).
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// PageWindow computes the sliding window of page numbers to render.
// Near the start the window is anchored at page 1, near the end at
// totalPages, otherwise it is centered on currentPage. Page numbers
// outside [1, totalPages] are dropped rather than rendered disabled.
func PageWindow(currentPage, totalPages, windowSize int) []int {
	if totalPages < 1 || windowSize < 1 {
		return nil
	}

	var start int
	switch {
	case currentPage < 3:
		start = 1
	case currentPage > totalPages-2:
		start = totalPages - windowSize + 1
		if start < 1 {
			start = 1
		}
	default:
		start = currentPage - windowSize/2
	}

	pages := make([]int, 0, windowSize)
	for p := start; p < start+windowSize; p++ {
		if p < 1 || p > totalPages {
			continue
		}
		pages = append(pages, p)
	}
	return pages
}

// State tracks the current page of a paginated list.
type State struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
}

// NewState returns pagination state for a list of totalItems, starting on
// page 1.
func NewState(totalItems, pageSize int) State {
	return State{
		CurrentPage: 1,
		TotalPages:  TotalPages(totalItems, pageSize),
		PageSize:    pageSize,
	}
}

// Next advances to the following page; no-op on the last page.
func (s *State) Next() {
	if s.CurrentPage < s.TotalPages {
		s.CurrentPage++
	}
}

// Prev moves to the preceding page; no-op on page 1.
func (s *State) Prev() {
	if s.CurrentPage > 1 {
		s.CurrentPage--
	}
}

// SetPage jumps to page p when it is within range; out-of-range values are
// ignored.
func (s *State) SetPage(p int) {
	if p >= 1 && p <= s.TotalPages {
		s.CurrentPage = p
	}
}

// Window returns the page-number window for the current state.
func (s State) Window() []int {
	return PageWindow(s.CurrentPage, s.TotalPages, DefaultWindowSize)
}
