package pkg

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/grid"
)

// Query parameters understood by every list page.
const (
	ParamCategory = "tab"
	ParamSearch   = "search"
	ParamPage     = "page"
	ParamSize     = "size"
)

// ParseGridParams reads the optional list controls from the query string.
// page is 1-based on the wire. Absent or malformed values are left nil so
// the grid keeps its current setting.
func ParseGridParams(c *gin.Context) grid.Params {
	var p grid.Params
	if v, ok := c.GetQuery(ParamCategory); ok && strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		p.Category = &v
	}
	if v, ok := c.GetQuery(ParamSearch); ok {
		v = strings.TrimSpace(v)
		p.Filter = &v
	}
	if n, ok := queryInt(c, ParamPage); ok && n >= 1 {
		idx := n - 1
		p.PageIndex = &idx
	}
	if n, ok := queryInt(c, ParamSize); ok {
		p.PageSize = &n
	}
	return p
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// GridResult is the JSON form of a grid snapshot.
type GridResult[T any] struct {
	Category     string `json:"category"`
	Filter       string `json:"filter"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	PageCount    int    `json:"pageCount"`
	TotalRecords int    `json:"totalRecords"`
	Records      []T    `json:"records"`
	Error        string `json:"error,omitempty"`
}

// NewGridResult converts a settled grid state for API clients. Page is
// 1-based.
func NewGridResult[T any](s grid.State[T]) GridResult[T] {
	r := GridResult[T]{
		Category:  s.Category,
		Filter:    s.Request.Filter,
		Page:      s.Request.PageIndex + 1,
		PageSize:  s.Request.PageSize,
		PageCount: s.PageCount(),
		Records:   []T{},
	}
	if s.Result != nil {
		r.TotalRecords = s.Result.TotalRecords
		if s.Result.Records != nil {
			r.Records = s.Result.Records
		}
	}
	if s.Err != nil {
		r.Error = ErrorMessage(s.Err)
	}
	return r
}

// List answers an API grid request with the settled state, or with the
// error that kept it from loading.
func List[T any](c *gin.Context, s grid.State[T]) {
	if s.Err != nil {
		Error(c, s.Err)
		return
	}
	Success(c, NewGridResult(s))
}
