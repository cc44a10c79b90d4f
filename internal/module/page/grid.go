package page

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
	"github.com/talentatalk/talentatalk-admin/internal/pkg"
	"github.com/talentatalk/talentatalk-admin/internal/session"
)

// GridTarget is the element id htmx swaps when a grid control changes.
const GridTarget = "grid"

// Tab is one category tab of a grid.
type Tab struct {
	Key    string
	Label  string
	Active bool
	URL    string
}

// Row is one rendered record. Record keeps the typed value for
// module-specific action buttons.
type Row struct {
	ID     string
	Cells  []string
	Record any
}

// GridView is the template model of a grid snapshot.
type GridView struct {
	BaseURL   string
	Tabs      []Tab
	Category  string
	Columns   []string
	Rows      []Row
	Filter    string
	PageIndex int
	PageSize  int
	PageCount int
	Total     int
	Pages     []grid.PageItem
	PageSizes []int
	Showing   string
	Empty     grid.EmptyKind
	Error     string
	AddURL    string
	Import    domain.MaterialType

	extra url.Values
}

// NewGridView lays out state s of g for the templates. id extracts the
// value action buttons address a row by. extra carries query parameters
// that must survive paging, such as a parent category.
func NewGridView[T any](g *grid.Grid[T], s grid.State[T], baseURL string, id func(T) string, extra url.Values) GridView {
	active := g.Active()
	v := GridView{
		BaseURL:   baseURL,
		Category:  active.Key,
		Filter:    s.Request.Filter,
		PageIndex: s.Request.PageIndex,
		PageSize:  s.Request.PageSize,
		PageCount: s.PageCount(),
		PageSizes: grid.PageSizes,
		AddURL:    active.AddURL,
		Import:    active.Import,
		extra:     extra,
	}
	for _, c := range g.Categories() {
		v.Tabs = append(v.Tabs, Tab{
			Key:    c.Key,
			Label:  c.Label,
			Active: c.Key == active.Key,
			URL:    v.link(url.Values{pkg.ParamCategory: {c.Key}}),
		})
	}
	for _, col := range active.Columns {
		v.Columns = append(v.Columns, col.Title)
	}

	var records []T
	if s.Result != nil {
		records = s.Result.Records
		v.Total = s.Result.TotalRecords
	}
	for _, r := range records {
		row := Row{Record: r, Cells: make([]string, 0, len(active.Columns))}
		if id != nil {
			row.ID = id(r)
		}
		for _, col := range active.Columns {
			cell := ""
			if col.Value != nil {
				cell = col.Value(r)
			}
			row.Cells = append(row.Cells, cell)
		}
		v.Rows = append(v.Rows, row)
	}

	v.Pages = grid.PageNumbers(v.PageIndex, v.PageCount)
	v.Showing = grid.Showing(v.PageIndex, v.PageSize, len(v.Rows), v.Total)
	if s.Err != nil {
		v.Error = pkg.ErrorMessage(s.Err)
	} else {
		v.Empty = grid.Empty(len(v.Rows), v.Filter)
	}
	return v
}

// EmptyMessage is the text shown in place of rows.
func (v GridView) EmptyMessage() string {
	switch v.Empty {
	case grid.EmptyNoMatch:
		return fmt.Sprintf("No results found for %q.", v.Filter)
	case grid.EmptyNoData:
		return "No data available."
	}
	return ""
}

// PageURL links to the 0-based page index with the current filter and size.
func (v GridView) PageURL(index int) string {
	return v.link(url.Values{
		pkg.ParamCategory: {v.Category},
		pkg.ParamSearch:   {v.Filter},
		pkg.ParamPage:     {strconv.Itoa(index + 1)},
		pkg.ParamSize:     {strconv.Itoa(v.PageSize)},
	})
}

// SizeURL links to the first page at page size n.
func (v GridView) SizeURL(n int) string {
	return v.link(url.Values{
		pkg.ParamCategory: {v.Category},
		pkg.ParamSearch:   {v.Filter},
		pkg.ParamSize:     {strconv.Itoa(n)},
	})
}

// SearchURL is the target of the search box: the current category and
// size, with the typed filter appended by the browser.
func (v GridView) SearchURL() string {
	return v.link(url.Values{
		pkg.ParamCategory: {v.Category},
		pkg.ParamSize:     {strconv.Itoa(v.PageSize)},
	})
}

// HasPrev reports whether a previous page exists.
func (v GridView) HasPrev() bool { return v.PageIndex > 0 }

// HasNext reports whether a next page exists.
func (v GridView) HasNext() bool { return v.PageIndex+1 < v.PageCount }

func (v GridView) link(q url.Values) string {
	for k, vals := range v.extra {
		q[k] = vals
	}
	return v.BaseURL + "?" + q.Encode()
}

// LoadGrid fetches the workspace grid stored under key, creating it with
// build, and applies the list controls of the request.
func LoadGrid[T any](c *gin.Context, key string, build func(*backend.API) (*grid.Grid[T], error)) (*grid.Grid[T], grid.State[T], error) {
	g, err := session.GridFor(Workspace(c), key, build)
	if err != nil {
		return nil, grid.State[T]{}, err
	}
	return g, g.Apply(c.Request.Context(), pkg.ParseGridParams(c)), nil
}

// RenderGrid answers a grid request. htmx requests aimed at the grid get
// only the grid fragment; a response overtaken by a newer request of the
// same browser is dropped so the newest one wins on screen. An expired
// session redirects to the login page.
func RenderGrid(c *gin.Context, pageName string, view GridView, superseded bool, err error, data gin.H) {
	if err != nil && domain.IsUnauthorized(err) {
		Fail(c, err, "load grid")
		return
	}
	if pkg.IsHTMX(c) && c.GetHeader("HX-Target") == GridTarget {
		if superseded {
			c.Header("HX-Reswap", "none")
			c.Status(http.StatusNoContent)
			return
		}
		Render(c, http.StatusOK, "components/grid.html", gin.H{"Grid": view})
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Grid"] = view
	Render(c, http.StatusOK, pageName, data)
}

// GridJSON answers GET /api/v1/grids/... with the workspace grid stored
// under key. The browser pages and API clients of one session share it.
func GridJSON[T any](c *gin.Context, key string, build func(*backend.API) (*grid.Grid[T], error)) {
	_, s, err := LoadGrid(c, key, build)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, s)
}
