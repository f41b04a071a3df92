package pagination

import (
	"testing"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name     string
		page     int
		pageSize int
		expected []int
	}{
		{name: "first page", page: 1, pageSize: 3, expected: []int{1, 2, 3}},
		{name: "middle page", page: 2, pageSize: 3, expected: []int{4, 5, 6}},
		{name: "short last page", page: 3, pageSize: 3, expected: []int{7}},
		{name: "page past the end", page: 4, pageSize: 3, expected: nil},
		{name: "zero page", page: 0, pageSize: 3, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.pageSize)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		items    int
		pageSize int
		expected int
	}{
		{items: 0, pageSize: 10, expected: 0},
		{items: 1, pageSize: 10, expected: 1},
		{items: 10, pageSize: 10, expected: 1},
		{items: 11, pageSize: 10, expected: 2},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.items, tt.pageSize); got != tt.expected {
			t.Errorf("TotalPages(%d, %d): expected %d, got %d", tt.items, tt.pageSize, tt.expected, got)
		}
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected []int
	}{
		{name: "start of range", current: 1, total: 10, expected: []int{1, 2, 3, 4, 5}},
		{name: "second page still anchored at 1", current: 2, total: 10, expected: []int{1, 2, 3, 4, 5}},
		{name: "centered in the middle", current: 5, total: 10, expected: []int{3, 4, 5, 6, 7}},
		{name: "end of range", current: 10, total: 10, expected: []int{6, 7, 8, 9, 10}},
		{name: "next to last page", current: 9, total: 10, expected: []int{6, 7, 8, 9, 10}},
		{name: "fewer pages than the window", current: 1, total: 3, expected: []int{1, 2, 3}},
		{name: "single page", current: 1, total: 1, expected: []int{1}},
		{name: "no pages", current: 1, total: 0, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageWindow(tt.current, tt.total, DefaultWindowSize)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Fatalf("Expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

// Every window must be a strictly increasing sequence of length
// min(windowSize, totalPages), fully contained in [1, totalPages].
func TestPageWindowProperties(t *testing.T) {
	for total := 1; total <= 20; total++ {
		for current := 1; current <= total; current++ {
			window := PageWindow(current, total, DefaultWindowSize)

			expectedLen := DefaultWindowSize
			if total < expectedLen {
				expectedLen = total
			}
			if len(window) != expectedLen {
				t.Fatalf("current=%d total=%d: expected length %d, got %v", current, total, expectedLen, window)
			}
			for i, p := range window {
				if p < 1 || p > total {
					t.Fatalf("current=%d total=%d: page %d out of range in %v", current, total, p, window)
				}
				if i > 0 && p <= window[i-1] {
					t.Fatalf("current=%d total=%d: window not strictly increasing: %v", current, total, window)
				}
			}
		}
	}
}

func TestStateNavigation(t *testing.T) {
	s := NewState(25, 10)
	if s.TotalPages != 3 || s.CurrentPage != 1 {
		t.Fatalf("Unexpected initial state: %+v", s)
	}

	s.Prev()
	if s.CurrentPage != 1 {
		t.Errorf("Prev on page 1 should be a no-op, got %d", s.CurrentPage)
	}

	s.Next()
	s.Next()
	s.Next()
	if s.CurrentPage != 3 {
		t.Errorf("Next should stop at the last page, got %d", s.CurrentPage)
	}

	s.SetPage(99)
	if s.CurrentPage != 3 {
		t.Errorf("SetPage out of range should be ignored, got %d", s.CurrentPage)
	}

	s.SetPage(2)
	if s.CurrentPage != 2 {
		t.Errorf("SetPage(2) failed, got %d", s.CurrentPage)
	}
}
