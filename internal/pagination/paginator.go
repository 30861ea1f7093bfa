// Package pagination slices a pull-based sequence into fixed-size
// pages. The paginator re-reads its source on every access, so it
// tracks a shrinking or growing sequence without subscriptions.
package pagination

type Info struct {
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	StartIndex  int  `json:"startIndex"`
	EndIndex    int  `json:"endIndex"`
}

const DefaultPageSize = 12

type Paginator[T any] struct {
	source      func() []T
	page        int
	size        int
	initialSize int
}

func New[T any](source func() []T, pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{source: source, page: 1, size: pageSize, initialSize: pageSize}
}

func totalPages(totalItems, size int) int {
	pages := (totalItems + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// clamp resets to page 1 when the source shrank below the current page.
func (p *Paginator[T]) clamp(total int) {
	if p.page > totalPages(total, p.size) {
		p.page = 1
	}
}

func (p *Paginator[T]) Info() Info {
	items := p.source()
	p.clamp(len(items))

	total := len(items)
	pages := totalPages(total, p.size)
	start := (p.page - 1) * p.size
	end := start + p.size
	if end > total {
		end = total
	}

	return Info{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: p.page,
		PageSize:    p.size,
		HasNextPage: p.page < pages,
		HasPrevPage: p.page > 1,
		StartIndex:  start,
		EndIndex:    end,
	}
}

// Items returns the current page's slice of the source.
func (p *Paginator[T]) Items() []T {
	items := p.source()
	p.clamp(len(items))

	start := (p.page - 1) * p.size
	if start >= len(items) {
		return nil
	}
	end := start + p.size
	if end > len(items) {
		end = len(items)
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page
}

func (p *Paginator[T]) Page() int       { return p.page }
func (p *Paginator[T]) PageSize() int   { return p.size }
func (p *Paginator[T]) TotalPages() int { return p.Info().TotalPages }

// GoToPage moves to the given page. Out-of-range targets are no-ops.
func (p *Paginator[T]) GoToPage(page int) {
	total := totalPages(len(p.source()), p.size)
	if page >= 1 && page <= total {
		p.page = page
	}
}

func (p *Paginator[T]) Next() {
	p.GoToPage(p.page + 1)
}

func (p *Paginator[T]) Prev() {
	p.GoToPage(p.page - 1)
}

// SetPageSize changes the page size and moves back to page 1.
func (p *Paginator[T]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.page = 1
}

func (p *Paginator[T]) Reset() {
	p.page = 1
	p.size = p.initialSize
}
