package page

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"testing"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
)

type person struct {
	ID   int
	Name string
}

func noFetch(context.Context, domain.PageQuery) (*domain.PageResult[person], error) {
	return &domain.PageResult[person]{}, nil
}

func newPeopleGrid(t *testing.T) *grid.Grid[person] {
	t.Helper()
	cols := []grid.Column[person]{
		{Key: "name", Title: "Name", Value: func(p person) string { return p.Name }},
		{Key: "id", Title: "ID"},
	}
	g, err := grid.New(
		grid.Category[person]{Key: "all", Label: "All", Fetch: noFetch, Columns: cols, AddURL: "/talents/new", Import: domain.MaterialTalent},
		grid.Category[person]{Key: "archived", Label: "Archived", Fetch: noFetch, Columns: cols},
	)
	if err != nil {
		t.Fatalf("grid.New() error: %v", err)
	}
	return g
}

func personID(p person) string { return strconv.Itoa(p.ID) }

func TestNewGridView(t *testing.T) {
	g := newPeopleGrid(t)
	s := grid.State[person]{
		Request: grid.PageRequest{Filter: "an", PageIndex: 1, PageSize: 10},
		Result: &domain.PageResult[person]{
			Records:      []person{{ID: 11, Name: "Ann"}, {ID: 12, Name: "Dan"}},
			TotalRecords: 12,
		},
	}

	v := NewGridView(g, s, "/talents", personID, nil)

	if v.Category != "all" || v.AddURL != "/talents/new" || v.Import != domain.MaterialTalent {
		t.Errorf("active category = %q add=%q import=%q", v.Category, v.AddURL, v.Import)
	}
	if len(v.Tabs) != 2 || !v.Tabs[0].Active || v.Tabs[1].Active {
		t.Fatalf("tabs = %+v", v.Tabs)
	}
	if v.Tabs[1].URL != "/talents?tab=archived" {
		t.Errorf("tab URL = %q", v.Tabs[1].URL)
	}
	if len(v.Columns) != 2 || v.Columns[0] != "Name" {
		t.Errorf("columns = %v", v.Columns)
	}
	if len(v.Rows) != 2 || v.Rows[0].ID != "11" || v.Rows[0].Cells[0] != "Ann" || v.Rows[0].Cells[1] != "" {
		t.Errorf("rows = %+v", v.Rows)
	}
	if v.PageCount != 2 || v.Total != 12 {
		t.Errorf("PageCount = %d, Total = %d", v.PageCount, v.Total)
	}
	if v.Showing != "Showing 11 to 12 of 12 entries" {
		t.Errorf("Showing = %q", v.Showing)
	}
	if v.Empty != grid.NotEmpty || v.Error != "" {
		t.Errorf("Empty = %v, Error = %q", v.Empty, v.Error)
	}
	if !v.HasPrev() || v.HasNext() {
		t.Errorf("HasPrev = %v, HasNext = %v", v.HasPrev(), v.HasNext())
	}
}

func TestNewGridView_Error(t *testing.T) {
	g := newPeopleGrid(t)
	s := grid.State[person]{
		Request: grid.PageRequest{PageSize: 10},
		Err:     domain.NewAppError(domain.CodeTransport, "backend unreachable", errors.New("dial tcp")),
	}

	v := NewGridView(g, s, "/talents", personID, nil)
	if v.Error == "" {
		t.Error("Error should carry the fetch failure")
	}
	if v.Empty != grid.NotEmpty || v.EmptyMessage() != "" {
		t.Errorf("a failed grid must not claim to be empty: %v %q", v.Empty, v.EmptyMessage())
	}
	if v.Showing != "Showing 0 to 0 of 0 entries" {
		t.Errorf("Showing = %q", v.Showing)
	}
}

func TestGridView_EmptyMessage(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{"no data", "", "No data available."},
		{"no match", "zed", `No results found for "zed".`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := grid.State[person]{
				Request: grid.PageRequest{Filter: tt.filter, PageSize: 10},
				Result:  &domain.PageResult[person]{},
			}
			v := NewGridView(newPeopleGrid(t), s, "/talents", personID, nil)
			if got := v.EmptyMessage(); got != tt.want {
				t.Errorf("EmptyMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGridView_Links(t *testing.T) {
	v := GridView{BaseURL: "/learners", Category: "pronunciation", Filter: "ann", PageSize: 25,
		extra: url.Values{"view": {"top-active"}}}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"page", v.PageURL(2), "/learners?page=3&search=ann&size=25&tab=pronunciation&view=top-active"},
		{"size", v.SizeURL(50), "/learners?search=ann&size=50&tab=pronunciation&view=top-active"},
		{"search", v.SearchURL(), "/learners?size=25&tab=pronunciation&view=top-active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
