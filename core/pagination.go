package core

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Limit int
	Skip  int
}

// NewPagination clamps limit to [1, MaxLimit] (DefaultLimit when unset) and skip to >= 0.
func NewPagination(limit, skip int) Pagination {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if skip < 0 {
		skip = 0
	}
	return Pagination{Limit: limit, Skip: skip}
}

// ListOptions narrows a list query.
type ListOptions struct {
	Pagination Pagination
	Ordering   []DBOrdering
}

func DefaultListOptions() ListOptions {
	return ListOptions{Pagination: NewPagination(0, 0)}
}

// Page is a slice of a list result.
type Page struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Limit int         `json:"limit"`
	Skip  int         `json:"skip"`
}

func NewPage(items interface{}, total int, p Pagination) Page {
	return Page{Items: items, Total: total, Limit: p.Limit, Skip: p.Skip}
}

// PageBounds returns the [start, end) window of a slice of length n.
func (p Pagination) PageBounds(n int) (int, int) {
	start := p.Skip
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
