package pagination

// PageSize is the fixed number of checklist items per page.
const PageSize = 2

// TotalPages returns the page count for n items; never less than 1 so an
// empty checklist still has a valid current page.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Clamp forces page into [1, total].
func Clamp(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Bounds returns the half-open index range [start, end) of the items visible
// on page. Slices across pages are disjoint, ordered, and cover every item
// exactly once.
func Bounds(page, itemCount int) (start, end int) {
	start = (page - 1) * PageSize
	if start > itemCount {
		start = itemCount
	}
	end = start + PageSize
	if end > itemCount {
		end = itemCount
	}
	return start, end
}

// PageOf returns the 1-based page holding the item at index.
func PageOf(index int) int {
	return index/PageSize + 1
}

// Cursor tracks the current page for one session. Zero value is not valid;
// use NewCursor.
type Cursor struct {
	page  int
	total int
}

// NewCursor starts at page 1 for a checklist of itemCount items.
func NewCursor(itemCount int) Cursor {
	return Cursor{page: 1, total: TotalPages(itemCount)}
}

// Page returns the current page, always in [1, TotalPages].
func (c Cursor) Page() int { return c.page }

// Total returns the page count.
func (c Cursor) Total() int { return c.total }

// GoTo clamps n into range and moves there. Reports whether the page
// changed.
func (c *Cursor) GoTo(n int) bool {
	n = Clamp(n, c.total)
	if n == c.page {
		return false
	}
	c.page = n
	return true
}

// Next moves forward one page; no-op at the last page, never wraps.
func (c *Cursor) Next() bool {
	return c.GoTo(c.page + 1)
}

// Prev moves back one page; no-op at page 1, never wraps.
func (c *Cursor) Prev() bool {
	return c.GoTo(c.page - 1)
}
