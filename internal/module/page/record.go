package page

import (
	"fmt"
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
)

// Field reads one key of a loosely typed record for display. Missing and
// null values show as "-".
func Field(r domain.Record, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return "-"
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// RecordColumns builds grid columns over record keys, given as key/title
// pairs.
func RecordColumns(pairs ...string) []grid.Column[domain.Record] {
	cols := make([]grid.Column[domain.Record], 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i]
		cols = append(cols, grid.Column[domain.Record]{
			Key:   key,
			Title: pairs[i+1],
			Value: func(r domain.Record) string { return Field(r, key) },
		})
	}
	return cols
}
