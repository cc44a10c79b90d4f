package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@talentatalk.id",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func newTestClient(t *testing.T, baseURL string, store TokenStore, opts ...Option) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL}, store, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "http://localhost:8000"}, nil); err == nil {
		t.Error("New() with nil token store should fail")
	}
	if _, err := New(Config{BaseURL: "localhost:8000"}, NewMemoryTokenStore("")); err == nil {
		t.Error("New() without http scheme should fail")
	}
}

func TestClient_InjectsBearerToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":1}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(token))
	var out struct {
		ID int `json:"id"`
	}
	if err := c.Get(context.Background(), "/web/admin/profile", nil, &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "Bearer "+token {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if out.ID != 1 {
		t.Errorf("decoded id = %d, want 1", out.ID)
	}
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"data":{"token":"t"}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
	if _, err := c.Send(context.Background(), http.MethodPost, "/web/admin/login", map[string]string{"email": "a@b.c"}, nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty before login", gotAuth)
	}
}

func TestClient_ExpiredTokenNeverReachesNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	store := NewMemoryTokenStore(signedToken(t, time.Now().Add(-time.Minute)))
	var fired atomic.Int32
	c := newTestClient(t, srv.URL, store, WithUnauthorizedHandler(func() { fired.Add(1) }))

	err := c.Get(context.Background(), "/web/admin/talents", nil, nil)
	if !domain.IsUnauthorized(err) {
		t.Fatalf("Get() error = %v, want unauthorized", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
	if store.Token() != "" {
		t.Error("expired token should be cleared")
	}
	if fired.Load() != 1 {
		t.Errorf("unauthorized hook fired %d times, want 1", fired.Load())
	}
}

func TestClient_ConcurrentUnauthorizedHandledOnce(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	}))
	defer srv.Close()

	store := NewMemoryTokenStore(signedToken(t, time.Now().Add(time.Hour)))
	var fired atomic.Int32
	c := newTestClient(t, srv.URL, store, WithUnauthorizedHandler(func() { fired.Add(1) }))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/web/admin/talents", nil, nil)
		}(i)
	}
	close(release)
	wg.Wait()

	if fired.Load() != 1 {
		t.Errorf("unauthorized hook fired %d times, want 1", fired.Load())
	}
	if store.Token() != "" {
		t.Error("token should be cleared after 401")
	}
	for i, err := range errs {
		if err == nil {
			t.Errorf("request %d: expected an error", i)
		}
	}
}

func TestClient_StaleUnauthorizedKeepsNewToken(t *testing.T) {
	store := NewMemoryTokenStore("fresh-token")
	var fired atomic.Int32
	c := newTestClient(t, "http://localhost:8000", store, WithUnauthorizedHandler(func() { fired.Add(1) }))

	c.invalidate("stale-token")

	if store.Token() != "fresh-token" {
		t.Errorf("token = %q, a 401 for an older token must not clear a new login", store.Token())
	}
	if fired.Load() != 0 {
		t.Errorf("hook fired %d times, want 0", fired.Load())
	}
}

func TestClient_LoginRejectionIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Email atau password salah"}`)
	}))
	defer srv.Close()

	var fired atomic.Int32
	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""), WithUnauthorizedHandler(func() { fired.Add(1) }))
	_, err := c.Send(context.Background(), http.MethodPost, "/web/admin/login", map[string]string{}, nil)
	if !domain.IsServer(err) {
		t.Fatalf("error = %v, want server error", err)
	}
	if got := domain.Message(err, ""); got != "Email atau password salah" {
		t.Errorf("message = %q", got)
	}
	if fired.Load() != 0 {
		t.Error("hook must not fire without a session token")
	}
}

func TestClient_FailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"success false on 200", http.StatusOK, `{"success":false,"message":"Kategori tidak valid"}`, "Kategori tidak valid"},
		{"message wins over detail", http.StatusBadRequest, `{"message":"Email sudah terdaftar","detail":"other"}`, "Email sudah terdaftar"},
		{"string detail", http.StatusNotFound, `{"detail":"Talent tidak ditemukan"}`, "Talent tidak ditemukan"},
		{"validation detail list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, "field required"},
		{"empty body", http.StatusInternalServerError, ``, "Request failed with status 500"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed with status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
			err := c.Get(context.Background(), "/x", nil, nil)
			if !domain.IsServer(err) {
				t.Fatalf("error = %v, want server error", err)
			}
			if got := domain.Message(err, ""); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, NewMemoryTokenStore(""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = c.Get(context.Background(), "/slow", nil, nil)
	if !domain.IsTransport(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestClient_ConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c := newTestClient(t, baseURL, NewMemoryTokenStore(""))
	err := c.Get(context.Background(), "/x", nil, nil)
	if !domain.IsTransport(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestClient_CancelledContextIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := c.Get(ctx, "/x", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if domain.IsTransport(err) {
		t.Error("cancelled request should not be reported as a transport failure")
	}
}

func TestClient_UnwrappedPayloadDecodesWholeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"totalProcessed":3,"successCount":2,"errorCount":1,"errors":[{"row":4,"error":"Email sudah terdaftar"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryTokenStore(""))
	var report domain.ImportReport
	if err := c.Get(context.Background(), "/x", nil, &report); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if report.TotalProcessed != 3 || report.ErrorCount != 1 || len(report.Errors) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Errors[0].Row != "4" {
		t.Errorf("row = %q, want %q", report.Errors[0].Row, "4")
	}
}

func TestClient_ResolveKeepsBasePath(t *testing.T) {
	c := newTestClient(t, "https://api.example.com/v2/", NewMemoryTokenStore(""))
	got := c.resolve("/web/admin/talents", nil)
	if got != "https://api.example.com/v2/web/admin/talents" {
		t.Errorf("resolve() = %q", got)
	}
	if !strings.HasPrefix(c.resolve("talents", map[string][]string{"page": {"2"}}), "https://api.example.com/v2/talents?page=2") {
		t.Errorf("resolve() with query = %q", c.resolve("talents", map[string][]string{"page": {"2"}}))
	}
}
