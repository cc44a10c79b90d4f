// Package grid implements the paginated search grid used by every list
// page: a server-paginated, server-filtered view model whose category tabs
// swap the backing list endpoint.
package grid

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 25, 50}

// DefaultPageSize is the page size of a fresh grid.
const DefaultPageSize = 10

// PageRequest is the view model's request. PageIndex is 0-based.
type PageRequest struct {
	Filter    string `json:"filter"`
	PageIndex int    `json:"pageIndex"`
	PageSize  int    `json:"pageSize"`
}

// Fetcher loads one page of T for a wire query.
type Fetcher[T any] func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[T], error)

// Column is one visible column of a category.
type Column[T any] struct {
	Key   string
	Title string
	Value func(T) string
}

// Category binds a tab to its data source and presentation.
type Category[T any] struct {
	Key     string
	Label   string
	Fetch   Fetcher[T]
	Columns []Column[T]
	// AddURL is the target of the category's add button, if any.
	AddURL string
	// Import is the bulk import type offered on this tab, if any.
	Import domain.MaterialType
}

// State is a snapshot of the grid.
type State[T any] struct {
	Request  PageRequest
	Result   *domain.PageResult[T]
	Loading  bool
	Err      error
	Category string
	// Superseded marks a snapshot returned to a caller whose fetch was
	// overtaken by a newer one or cancelled by the caller; its response
	// was discarded.
	Superseded bool
}

// PageCount returns ceil(total/pageSize), or 0 while no result is known.
func (s State[T]) PageCount() int {
	if s.Result == nil {
		return 0
	}
	return pageCount(s.Result.TotalRecords, s.Request.PageSize)
}

// Grid is the concurrent-safe view model of one list page.
type Grid[T any] struct {
	mu         sync.Mutex
	categories map[string]Category[T]
	order      []string
	active     string
	req        PageRequest
	result     *domain.PageResult[T]
	loading    bool
	err        error

	seq    uint64
	cancel context.CancelFunc
}

// New creates a grid over the given categories. The first one is active.
func New[T any](categories ...Category[T]) (*Grid[T], error) {
	if len(categories) == 0 {
		return nil, errors.New("grid requires at least one category")
	}
	g := &Grid[T]{
		categories: make(map[string]Category[T], len(categories)),
		req:        PageRequest{PageSize: DefaultPageSize},
	}
	for _, c := range categories {
		if c.Key == "" {
			return nil, errors.New("grid category key is empty")
		}
		if c.Fetch == nil {
			return nil, fmt.Errorf("grid category %q has no fetcher", c.Key)
		}
		if _, dup := g.categories[c.Key]; dup {
			return nil, fmt.Errorf("duplicate grid category %q", c.Key)
		}
		g.categories[c.Key] = c
		g.order = append(g.order, c.Key)
	}
	g.active = g.order[0]
	return g, nil
}

// Categories returns the categories in tab order.
func (g *Grid[T]) Categories() []Category[T] {
	out := make([]Category[T], 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.categories[k])
	}
	return out
}

// Active returns the active category.
func (g *Grid[T]) Active() Category[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.categories[g.active]
}

// State returns the current snapshot without fetching.
func (g *Grid[T]) State() State[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// SetFilter replaces the filter text and returns to the first page.
func (g *Grid[T]) SetFilter(ctx context.Context, filter string) State[T] {
	g.mu.Lock()
	g.req.Filter = filter
	g.req.PageIndex = 0
	g.mu.Unlock()
	return g.fetch(ctx)
}

// SetPage moves to index. It reports false, without fetching, when index is
// negative or past the last page of a known result.
func (g *Grid[T]) SetPage(ctx context.Context, index int) (State[T], bool) {
	g.mu.Lock()
	if !g.pageInRangeLocked(index) {
		s := g.snapshotLocked()
		g.mu.Unlock()
		return s, false
	}
	g.req.PageIndex = index
	g.mu.Unlock()
	return g.fetch(ctx), true
}

// SetPageSize changes the page size and returns to the first page. Sizes
// outside PageSizes are rejected.
func (g *Grid[T]) SetPageSize(ctx context.Context, size int) (State[T], bool) {
	if !slices.Contains(PageSizes, size) {
		return g.State(), false
	}
	g.mu.Lock()
	g.req.PageSize = size
	g.req.PageIndex = 0
	g.mu.Unlock()
	return g.fetch(ctx), true
}

// SwitchCategory activates another tab, clearing the filter and the page.
func (g *Grid[T]) SwitchCategory(ctx context.Context, key string) (State[T], bool) {
	g.mu.Lock()
	if _, ok := g.categories[key]; !ok {
		s := g.snapshotLocked()
		g.mu.Unlock()
		return s, false
	}
	g.active = key
	g.req.Filter = ""
	g.req.PageIndex = 0
	g.result = nil
	g.mu.Unlock()
	return g.fetch(ctx), true
}

// Refresh re-issues the fetch for the current request.
func (g *Grid[T]) Refresh(ctx context.Context) State[T] {
	return g.fetch(ctx)
}

// fetch runs the active category's fetcher for the current request.
//
// Each fetch takes the next sequence number; its outcome is applied only if
// no newer fetch started meanwhile. Starting a fetch also cancels the
// context of the one it supersedes.
func (g *Grid[T]) fetch(ctx context.Context) State[T] {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	if g.cancel != nil {
		g.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.loading = true
	g.err = nil
	req := g.req
	cat := g.categories[g.active]
	g.mu.Unlock()

	res, err := cat.Fetch(fctx, domain.PageQuery{
		Page:   req.PageIndex + 1,
		Limit:  req.PageSize,
		Search: req.Filter,
	})
	cancel()

	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq {
		s := g.snapshotLocked()
		s.Superseded = true
		return s
	}
	g.cancel = nil
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// The caller went away; keep the previous result and let the next
		// fetch settle the grid.
		s := g.snapshotLocked()
		s.Superseded = true
		return s
	}
	g.loading = false
	if err != nil {
		g.err = err
		g.result = &domain.PageResult[T]{Records: []T{}}
		return g.snapshotLocked()
	}
	g.result = normalize(res, req.PageSize)
	return g.snapshotLocked()
}

// normalize guarantees non-nil records and at most size of them.
func normalize[T any](res *domain.PageResult[T], size int) *domain.PageResult[T] {
	if res == nil {
		return &domain.PageResult[T]{Records: []T{}}
	}
	out := &domain.PageResult[T]{Records: res.Records, TotalRecords: res.TotalRecords}
	if out.Records == nil {
		out.Records = []T{}
	}
	if size > 0 && len(out.Records) > size {
		out.Records = out.Records[:size]
	}
	if out.TotalRecords < 0 {
		out.TotalRecords = 0
	}
	return out
}

func (g *Grid[T]) pageInRangeLocked(index int) bool {
	if index < 0 {
		return false
	}
	if g.result == nil {
		return true
	}
	return index <= pageCount(g.result.TotalRecords, g.req.PageSize)-1
}

func (g *Grid[T]) snapshotLocked() State[T] {
	s := State[T]{
		Request:  g.req,
		Loading:  g.loading,
		Err:      g.err,
		Category: g.active,
	}
	if g.result != nil {
		r := *g.result
		r.Records = slices.Clone(g.result.Records)
		s.Result = &r
	}
	return s
}

func pageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
