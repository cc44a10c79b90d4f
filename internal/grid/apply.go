package grid

import (
	"context"
	"slices"
)

// Params carries the optional changes of one list page request. Nil fields
// leave the corresponding part of the request untouched.
type Params struct {
	Category  *string
	Filter    *string
	PageIndex *int
	PageSize  *int
}

// Apply folds p into the request and issues exactly one fetch.
//
// A category switch clears the filter and page; a filter or page size
// change returns to the first page, in which case a requested page index is
// ignored. Unknown categories, unsupported sizes, and out-of-range pages
// are dropped.
func (g *Grid[T]) Apply(ctx context.Context, p Params) State[T] {
	g.mu.Lock()
	reset := false
	if p.Category != nil && *p.Category != g.active {
		if _, ok := g.categories[*p.Category]; ok {
			g.active = *p.Category
			g.req.Filter = ""
			g.req.PageIndex = 0
			g.result = nil
			reset = true
		}
	}
	if p.Filter != nil && *p.Filter != g.req.Filter {
		g.req.Filter = *p.Filter
		g.req.PageIndex = 0
		reset = true
	}
	if p.PageSize != nil && *p.PageSize != g.req.PageSize && slices.Contains(PageSizes, *p.PageSize) {
		g.req.PageSize = *p.PageSize
		g.req.PageIndex = 0
		reset = true
	}
	if p.PageIndex != nil && !reset && g.pageInRangeLocked(*p.PageIndex) {
		g.req.PageIndex = *p.PageIndex
	}
	g.mu.Unlock()
	return g.fetch(ctx)
}
