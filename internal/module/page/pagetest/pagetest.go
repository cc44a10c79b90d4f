// Package pagetest wires page handlers to a fake backend for tests.
package pagetest

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/middleware"
	"github.com/talentatalk/talentatalk-admin/internal/session"
)

// CookieName is the session cookie used by Env requests.
const CookieName = "test_session"

// Call is one request received by the fake backend.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

// Backend answers "METHOD /path" keys with canned bodies and records calls.
// A body prefixed with a three digit status and a space, such as
// "400 {...}", is sent with that status.
type Backend struct {
	mu     sync.Mutex
	Routes map[string]string
	calls  []Call
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: string(body)})
	resp, ok := b.Routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"not found"}`)
		return
	}
	if len(resp) > 4 && resp[3] == ' ' && resp[0] >= '1' && resp[0] <= '5' {
		status := int(resp[0]-'0')*100 + int(resp[1]-'0')*10 + int(resp[2]-'0')
		w.WriteHeader(status)
		resp = resp[4:]
	}
	_, _ = io.WriteString(w, resp)
}

// Calls returns the recorded requests.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Last returns the most recent request matching method, or a zero Call.
func (b *Backend) Last(method string) Call {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i]
		}
	}
	return Call{}
}

// Env is a gin engine whose page routes run behind RequireLogin for one
// signed-in workspace backed by a fake server.
type Env struct {
	Engine    *gin.Engine
	Backend   *Backend
	Workspace *session.Workspace
	Pages     *gin.RouterGroup
	API       *gin.RouterGroup
}

type staticResolver struct{ ws *session.Workspace }

func (r staticResolver) Resolve(context.Context, string) (*session.Workspace, error) {
	return r.ws, nil
}

// New starts a fake backend serving routes and returns an Env whose
// templates are parsed from tmpl, a set of {{define}} blocks.
func New(t *testing.T, routes map[string]string, tmpl string) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &Backend{Routes: routes}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, apiclient.NewMemoryTokenStore(Token(t)))
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	ws := session.NewWorkspace(backend.New(client), domain.AdminSession{
		ID:    "8f14e45f-ceea-467f-a0e6-3e7c0b9b1f0c",
		Name:  "Admin",
		Email: "admin@talentatalk.id",
	}, backend.ImportLimits{MaxFileSizeBytes: 1 << 20, AcceptedExtensions: []string{"xlsx", "xls", "csv"}})

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(tmpl)))
	guard := middleware.RequireLogin(staticResolver{ws}, CookieName, nil)
	return &Env{
		Engine:    r,
		Backend:   fake,
		Workspace: ws,
		Pages:     r.Group("/", guard),
		API:       r.Group("/api/v1", guard),
	}
}

// Token returns a bearer token that stays valid for the test.
func Token(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// Request describes a request sent through Env.
type Request struct {
	Method string
	Path   string
	Form   url.Values
	HTMX   bool
	Target string
}

// Do serves req with the session cookie set.
func (e *Env) Do(req Request) *httptest.ResponseRecorder {
	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Path, body)
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if req.HTMX {
		r.Header.Set("HX-Request", "true")
	}
	if req.Target != "" {
		r.Header.Set("HX-Target", req.Target)
	}
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sid"})
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, r)
	return w
}

// Get is shorthand for a plain page load.
func (e *Env) Get(path string) *httptest.ResponseRecorder {
	return e.Do(Request{Path: path})
}

// ErrorTemplates defines the error pages used by page.Fail.
const ErrorTemplates = `
{{define "errors/400.html"}}400: {{.Message}}{{end}}
{{define "errors/404.html"}}404: {{.Message}}{{end}}
{{define "errors/500.html"}}500: {{.Message}}{{end}}
{{define "components/grid.html"}}fragment {{template "rows" .Grid}}{{end}}
{{define "rows"}}{{range .Rows}}[{{.ID}}{{range .Cells}}|{{.}}{{end}}]{{end}}{{if .Error}}error={{.Error}}{{end}}{{with .EmptyMessage}}empty={{.}}{{end}} total={{.Total}} pages={{.PageCount}}{{end}}
`
