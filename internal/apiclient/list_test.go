package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

func TestListEndpoint_Query(t *testing.T) {
	tests := []struct {
		name string
		ep   ListEndpoint
		q    domain.PageQuery
		want url.Values
	}{
		{
			name: "defaults",
			ep:   ListEndpoint{Path: "/web/admin/phoneme-material"},
			q:    domain.PageQuery{Page: 1, Limit: 10, Search: "beat"},
			want: url.Values{"page": {"1"}, "limit": {"10"}, "search": {"beat"}},
		},
		{
			name: "custom names and blank search omitted",
			ep:   ListEndpoint{SearchParam: "search", SizeParam: "size"},
			q:    domain.PageQuery{Page: 3, Limit: 25, Search: "  "},
			want: url.Values{"page": {"3"}, "size": {"25"}},
		},
		{
			name: "fixed params",
			ep: ListEndpoint{
				SearchParam: "searchQuery",
				Params:      url.Values{"category": {"phoneme_exam"}},
			},
			q:    domain.PageQuery{Page: 2, Limit: 50, Search: "andi"},
			want: url.Values{"page": {"2"}, "limit": {"50"}, "searchQuery": {"andi"}, "category": {"phoneme_exam"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ep.Query(tt.q)
			if got.Encode() != tt.want.Encode() {
				t.Errorf("Query() = %q, want %q", got.Encode(), tt.want.Encode())
			}
		})
	}
}

func TestGetPage_DecodesRecordsAndTotal(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{
			"talents":[{"id":1,"talentName":"Andi","email":"andi@mail.com","role":"Mobile Developer","pretest":"80%","highestExam":"N/A","progress":"40%"}],
			"pagination":{"currentPage":2,"totalPages":5,"totalRecords":47,"showing":"11-20 of 47"}}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
	ep := ListEndpoint{Path: "/web/admin/talents", RecordsKey: "talents", SearchParam: "searchQuery"}
	res, err := GetPage[domain.Talent](context.Background(), c, ep, domain.PageQuery{Page: 2, Limit: 10, Search: "andi"})
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if res.TotalRecords != 47 {
		t.Errorf("TotalRecords = %d, want 47", res.TotalRecords)
	}
	if len(res.Records) != 1 || res.Records[0].TalentName != "Andi" {
		t.Errorf("Records = %+v", res.Records)
	}
	if gotQuery.Get("page") != "2" || gotQuery.Get("limit") != "10" || gotQuery.Get("searchQuery") != "andi" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestGetPage_MissingPaginationFallsBackToRecordCount(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no pagination", `{"success":true,"data":{"data":[{"phoneme":"i"},{"phoneme":"æ"},{"phoneme":"ʊ"}]}}`},
		{"empty pagination", `{"success":true,"data":{"data":[{"phoneme":"i"},{"phoneme":"æ"},{"phoneme":"ʊ"}],"pagination":{}}}`},
		{"null pagination", `{"success":true,"data":{"data":[{"phoneme":"i"},{"phoneme":"æ"},{"phoneme":"ʊ"}],"pagination":null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
			ep := ListEndpoint{Path: "/web/admin/phoneme-material", RecordsKey: "data"}
			res, err := GetPage[domain.PhonemeWordSummary](context.Background(), c, ep, domain.PageQuery{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("GetPage() error = %v", err)
			}
			if res.TotalRecords != 3 {
				t.Errorf("TotalRecords = %d, want 3", res.TotalRecords)
			}
		})
	}
}

func TestGetPage_MissingRecordsIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"Data tidak ditemukan","data":{"pagination":{"totalRecords":0}}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
	res, err := GetPage[domain.ActiveLearner](context.Background(), c, ListEndpoint{RecordsKey: "learners"}, domain.PageQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if res.Records == nil || len(res.Records) != 0 || res.TotalRecords != 0 {
		t.Errorf("result = %+v, want empty non-nil records", res)
	}
}
