package grid

import (
	"fmt"
	"strings"
)

// PageItem is one control of the pagination bar.
type PageItem struct {
	Index    int
	Ellipsis bool
	Current  bool
}

// Number is the 1-based page label.
func (p PageItem) Number() int {
	return p.Index + 1
}

// PageNumbers lays out the pagination bar for a 0-based current page.
//
// Up to four pages are listed in full. Beyond that the first and last pages
// are always shown, with a window of up to three pages around current
// clamped to [1, pageCount-2], and an ellipsis standing in for each gap.
func PageNumbers(current, pageCount int) []PageItem {
	if pageCount <= 0 {
		return nil
	}
	item := func(i int) PageItem {
		return PageItem{Index: i, Current: i == current}
	}
	if pageCount <= 4 {
		items := make([]PageItem, 0, pageCount)
		for i := 0; i < pageCount; i++ {
			items = append(items, item(i))
		}
		return items
	}

	start := max(1, current-1)
	end := min(pageCount-2, current+1)

	items := []PageItem{item(0)}
	if start > 1 {
		items = append(items, PageItem{Index: -1, Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		items = append(items, item(i))
	}
	if end < pageCount-2 {
		items = append(items, PageItem{Index: -1, Ellipsis: true})
	}
	return append(items, item(pageCount-1))
}

// Showing renders the "Showing X to Y of Z entries" footer.
func Showing(pageIndex, pageSize, shown, total int) string {
	if total <= 0 || shown <= 0 {
		return "Showing 0 to 0 of 0 entries"
	}
	from := pageIndex*pageSize + 1
	to := from + shown - 1
	return fmt.Sprintf("Showing %d to %d of %d entries", from, to, total)
}

// EmptyKind tells why a settled grid shows no rows.
type EmptyKind int

const (
	NotEmpty EmptyKind = iota
	// EmptyNoData means the source has no records at all.
	EmptyNoData
	// EmptyNoMatch means records exist but none match the filter.
	EmptyNoMatch
)

// Empty classifies an empty state. filter is the effective filter text,
// server-side or client-side.
func Empty(rows int, filter string) EmptyKind {
	if rows > 0 {
		return NotEmpty
	}
	if strings.TrimSpace(filter) != "" {
		return EmptyNoMatch
	}
	return EmptyNoData
}

// FilterRows narrows the current page to rows whose visible column values
// contain query, case-insensitively. It never touches totals or paging.
func FilterRows[T any](rows []T, columns []Column[T], query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		for _, c := range columns {
			if c.Value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(c.Value(r)), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
