package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

// layout renders page items compactly, e.g. "[1] 2 3 … 10".
func layout(items []PageItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Current:
			parts = append(parts, "["+strconv.Itoa(it.Number())+"]")
		default:
			parts = append(parts, strconv.Itoa(it.Number()))
		}
	}
	return strings.Join(parts, " ")
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		pageCount int
		want      string
	}{
		{"no pages", 0, 0, ""},
		{"single page", 0, 1, "[1]"},
		{"four pages listed in full", 2, 4, "1 2 [3] 4"},
		{"first of ten", 0, 10, "[1] 2 … 10"},
		{"second of ten", 1, 10, "1 [2] 3 … 10"},
		{"middle of ten", 5, 10, "1 … 5 [6] 7 … 10"},
		{"second to last of ten", 8, 10, "1 … 8 [9] 10"},
		{"last of ten", 9, 10, "1 … 9 [10]"},
		{"five pages middle", 2, 5, "1 2 [3] 4 5"},
		{"five pages first", 0, 5, "[1] 2 … 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layout(PageNumbers(tt.current, tt.pageCount)); got != tt.want {
				t.Errorf("PageNumbers(%d, %d) = %q, want %q", tt.current, tt.pageCount, got, tt.want)
			}
		})
	}
}

func TestPageNumbers_AlwaysShowsEnds(t *testing.T) {
	for count := 5; count <= 30; count++ {
		for cur := 0; cur < count; cur++ {
			items := PageNumbers(cur, count)
			if items[0].Index != 0 || items[len(items)-1].Index != count-1 {
				t.Fatalf("PageNumbers(%d, %d) = %s, ends missing", cur, count, layout(items))
			}
			currents := 0
			for _, it := range items {
				if it.Current {
					currents++
				}
			}
			if currents != 1 {
				t.Fatalf("PageNumbers(%d, %d) = %s, %d current items", cur, count, layout(items), currents)
			}
		}
	}
}

func TestShowing(t *testing.T) {
	tests := []struct {
		pageIndex, pageSize, shown, total int
		want                              string
	}{
		{0, 10, 10, 47, "Showing 1 to 10 of 47 entries"},
		{4, 10, 7, 47, "Showing 41 to 47 of 47 entries"},
		{1, 25, 25, 60, "Showing 26 to 50 of 60 entries"},
		{0, 10, 0, 0, "Showing 0 to 0 of 0 entries"},
	}
	for _, tt := range tests {
		if got := Showing(tt.pageIndex, tt.pageSize, tt.shown, tt.total); got != tt.want {
			t.Errorf("Showing(%d, %d, %d, %d) = %q, want %q", tt.pageIndex, tt.pageSize, tt.shown, tt.total, got, tt.want)
		}
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		rows   int
		filter string
		want   EmptyKind
	}{
		{3, "", NotEmpty},
		{3, "ann", NotEmpty},
		{0, "", EmptyNoData},
		{0, "   ", EmptyNoData},
		{0, "ann", EmptyNoMatch},
	}
	for _, tt := range tests {
		if got := Empty(tt.rows, tt.filter); got != tt.want {
			t.Errorf("Empty(%d, %q) = %d, want %d", tt.rows, tt.filter, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	builds, bad := 0, 0
	r := NewRegistry(RegistryOptions{Capacity: 2}, func(key string) (string, error) {
		if key == "bad" {
			bad++
			return "", errors.New("boom")
		}
		builds++
		return "v:" + key, nil
	})
	defer r.Close()

	v, err := r.Get("s1/talents")
	if err != nil || v != "v:s1/talents" {
		t.Fatalf("Get() = %q, %v", v, err)
	}
	if _, err := r.Get("s1/talents"); err != nil || builds != 1 {
		t.Errorf("second Get() rebuilt, builds = %d", builds)
	}
	if _, err := r.Get("bad"); err == nil {
		t.Error("build error not returned")
	}
	if _, err := r.Get("bad"); err == nil || bad != 2 {
		t.Errorf("failed build was cached, bad builds = %d", bad)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after failed builds", r.Len())
	}

	r.Get("s1/materials")
	r.Get("s1/talents")
	r.Get("s2/talents")
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	// s1/talents was built first, so it is evicted even though it was read last.
	r.Get("s1/talents")
	if builds != 4 {
		t.Errorf("builds = %d, want 4 after eviction", builds)
	}

	r.Drop("s1/")
	if r.Len() != 1 {
		t.Errorf("Len() after Drop = %d, want 1", r.Len())
	}
}

func TestRegistry_TTL(t *testing.T) {
	builds := 0
	r := NewRegistry(RegistryOptions{Capacity: 4, TTL: 20 * time.Millisecond}, func(key string) (int, error) {
		builds++
		return builds, nil
	})
	defer r.Close()

	if v, _ := r.Get("s1"); v != 1 {
		t.Fatalf("Get() = %d, want 1", v)
	}
	if v, _ := r.Get("s1"); v != 1 {
		t.Fatalf("Get() before expiry = %d, want 1", v)
	}
	time.Sleep(40 * time.Millisecond)
	if v, _ := r.Get("s1"); v != 2 {
		t.Errorf("Get() after expiry = %d, want rebuilt 2", v)
	}
}

func TestRegistry_LargeCapacitySharded(t *testing.T) {
	r := NewRegistry(RegistryOptions{Capacity: 512}, func(key string) (string, error) {
		return key, nil
	})
	defer r.Close()

	for i := 0; i < 100; i++ {
		if _, err := r.Get(fmt.Sprintf("s%d/talents", i)); err != nil {
			t.Fatal(err)
		}
	}
	if r.Len() != 100 {
		t.Errorf("Len() = %d, want 100", r.Len())
	}
	r.Drop("s1")
	// s1, s10..s19
	if r.Len() != 89 {
		t.Errorf("Len() after Drop = %d, want 89", r.Len())
	}
}
