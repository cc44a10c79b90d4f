package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/pkg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAcceptsHTML(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   bool
	}{
		{"text/html", "text/html", true},
		{"mixed with html", "application/json, text/html", true},
		{"application/json only", "application/json", false},
		{"empty accept", "", true},
		{"wildcard accept", "*/*", true},
		{"case insensitive", "Text/HTML", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				c.Request.Header.Set("Accept", tt.accept)
			}
			if got := acceptsHTML(c); got != tt.want {
				t.Fatalf("acceptsHTML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderError_JSON(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		code   int
	}{
		{"json", "application/json", http.StatusNotFound},
		{"json with wildcard", "application/json, */*", http.StatusInternalServerError},
		{"unknown type", "application/xml", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/grids/talents", nil)
			c.Request.Header.Set("Accept", tt.accept)

			renderError(c, tt.code, "boom")

			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			var resp pkg.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json decode error: %v", err)
			}
			if resp.Code != tt.code || resp.Message != "boom" || resp.Data != nil {
				t.Fatalf("resp = %+v", resp)
			}
		})
	}
}

func TestRenderError_HTML(t *testing.T) {
	r := gin.New()
	renderer, err := NewTemplateRenderer(fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(`{{ define "base" }}{{ block "content" . }}{{ end }}{{ end }}`)},
		"templates/errors/500.html":   {Data: []byte(`{{ template "base" . }}{{ define "content" }}{{ .Title }}: {{ .Message }}{{ end }}`)},
	}, false)
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}
	r.HTMLRender = renderer
	r.GET("/", func(c *gin.Context) { renderError(c, http.StatusBadGateway, "backend down") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "Backend Unavailable: backend down") {
		t.Fatalf("body = %q, want 500 template with message", body)
	}
}

func TestRenderError_HTML_FallsBackToPlainText(t *testing.T) {
	tests := []struct {
		code     int
		wantBody string
	}{
		{http.StatusInternalServerError, "500 Internal Server Error"},
		{http.StatusNotFound, "404 Not Found"},
		{http.StatusServiceUnavailable, "503 Error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantBody, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Accept", "text/html")

			// No renderer on the engine: c.HTML panics.
			renderError(c, tt.code, "ignored")

			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			if body := w.Body.String(); body != tt.wantBody {
				t.Fatalf("body = %q, want %q", body, tt.wantBody)
			}
			if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Fatalf("Content-Type = %q", ct)
			}
		})
	}
}

func TestDefaultStatusText(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{400, "Bad Request"},
		{401, "Unauthorized"},
		{404, "Not Found"},
		{502, "Backend Unavailable"},
		{500, "Internal Server Error"},
		{418, "Error"},
	}
	for _, tt := range tests {
		if got := defaultStatusText(tt.code); got != tt.want {
			t.Errorf("defaultStatusText(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
