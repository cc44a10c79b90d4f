package middleware

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func panicRouter(buf *bytes.Buffer) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewJSONHandler(buf, nil))))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	return r
}

func TestRecovery_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := panicRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["message"] != "internal server error" || body["success"] != false {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "kaboom") || !strings.Contains(buf.String(), "stack") {
		t.Errorf("log = %s, want panic value and stack", buf.String())
	}
}

func TestRecovery_HTMX(t *testing.T) {
	var buf bytes.Buffer
	r := panicRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if w.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q, want none", w.Header().Get("HX-Reswap"))
	}
	if !strings.Contains(w.Header().Get("HX-Trigger"), "showToast") {
		t.Errorf("HX-Trigger = %q, want toast", w.Header().Get("HX-Trigger"))
	}
}

func TestRecovery_HTMLPage(t *testing.T) {
	var buf bytes.Buffer
	r := panicRouter(&buf)
	r.SetHTMLTemplate(template.Must(template.New("errors/500.html").Parse(`error page: {{.Message}}`)))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "error page") {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestRecovery_HTMLWithoutRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := panicRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	r := panicRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK || w.Body.String() != "fine" {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}
