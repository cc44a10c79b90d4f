package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// ListEndpoint describes a paginated backend list.
type ListEndpoint struct {
	Path string
	// RecordsKey names the record array inside the response payload.
	RecordsKey string
	// SearchParam defaults to "search".
	SearchParam string
	// SizeParam defaults to "limit".
	SizeParam string
	// Params are sent on every request, e.g. a ranking category.
	Params url.Values
}

// Query builds the wire query for q.
func (ep ListEndpoint) Query(q domain.PageQuery) url.Values {
	v := url.Values{}
	for k, vals := range ep.Params {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	sizeParam := ep.SizeParam
	if sizeParam == "" {
		sizeParam = "limit"
	}
	searchParam := ep.SearchParam
	if searchParam == "" {
		searchParam = "search"
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set(sizeParam, strconv.Itoa(q.Limit))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set(searchParam, s)
	}
	return v
}

// GetPage fetches one page from ep.
//
// When the response carries no pagination.totalRecords the total falls back
// to the number of records returned.
func GetPage[T any](ctx context.Context, c *Client, ep ListEndpoint, q domain.PageQuery) (*domain.PageResult[T], error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: ep.Path, Query: ep.Query(q)})
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if _, err := decodeResponse(resp, &payload); err != nil {
		return nil, err
	}
	return decodePage[T](payload, ep.RecordsKey)
}

func decodePage[T any](payload map[string]json.RawMessage, recordsKey string) (*domain.PageResult[T], error) {
	records := []T{}
	if raw, ok := payload[recordsKey]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, domain.NewAppError(domain.CodeInternal, "unexpected response from server", err)
		}
	}

	total := len(records)
	if raw, ok := payload["pagination"]; ok && !isNull(raw) {
		var meta map[string]json.RawMessage
		if err := json.Unmarshal(raw, &meta); err == nil {
			if tr, ok := meta["totalRecords"]; ok {
				var n int
				if err := json.Unmarshal(tr, &n); err == nil && n >= 0 {
					total = n
				}
			}
		}
	}

	return &domain.PageResult[T]{Records: records, TotalRecords: total}, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
