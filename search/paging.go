package search

// Paginate returns the page slice [(page-1)*pageSize, page*pageSize) of
// items, clamped to bounds. Pages before the first are treated as page 1.
func Paginate(items []Item, page, pageSize int) []Item {
	if pageSize <= 0 {
		return []Item{}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Item{}
	}
	end := min(start+pageSize, len(items))
	out := make([]Item, end-start)
	copy(out, items[start:end])
	return out
}

// TotalPages is ceil(total/pageSize), and 1 for an empty result set.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Pagination fills the derived paging fields of s for the given page size.
func (s State) Pagination(pageSize int) State {
	s.TotalPages = TotalPages(s.Total, pageSize)
	s.HasPrev = s.Page > 1
	s.HasNext = s.Page < s.TotalPages
	return s
}
