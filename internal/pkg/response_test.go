package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

type loginInput struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

func newJSONContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return v
}

func TestSuccess(t *testing.T) {
	c, w := newJSONContext(http.MethodGet, "")
	Success(c, map[string]int{"total": 3})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode[Response](t, w)
	if !resp.Success || resp.Code != http.StatusOK || resp.Message != "success" {
		t.Errorf("Success() = %+v", resp)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["total"] != float64(3) {
		t.Errorf("Data = %v", resp.Data)
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "session expired, please log in again"},
		{"server 4xx", domain.NewServerError(http.StatusConflict, "Email already registered"), http.StatusConflict, "Email already registered"},
		{"server 5xx", domain.NewServerError(http.StatusInternalServerError, "boom"), http.StatusBadGateway, "boom"},
		{"transport", fmt.Errorf("list talents: %w", domain.ErrTransport), http.StatusBadGateway, "unable to reach the server"},
		{"internal", domain.NewAppError(domain.CodeInternal, "decode failed: bad json", nil), http.StatusInternalServerError, "internal error"},
		{"plain", errors.New("something"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newJSONContext(http.MethodGet, "")
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decode[Response](t, w)
			if resp.Success || resp.Message != tt.wantMsg || resp.Code != tt.wantStatus {
				t.Errorf("Error() = %+v, want message %q", resp, tt.wantMsg)
			}
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	c, w := newJSONContext(http.MethodPost, `{"email":"admin@talentatalk.id","password":"secret123"}`)
	var in loginInput
	if !BindAndValidate(c, &in) {
		t.Fatalf("BindAndValidate() = false, body %s", w.Body.String())
	}
	if in.Email != "admin@talentatalk.id" {
		t.Errorf("Email = %q", in.Email)
	}
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	c, w := newJSONContext(http.MethodPost, `{"email":"not-an-email","password":"short"}`)
	var in loginInput
	if BindAndValidate(c, &in) {
		t.Fatal("BindAndValidate() = true, want false")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decode[ValidationErrorResponse](t, w)
	if resp.Message != "validation error" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.Errors["email"] != "must be a valid email address" {
		t.Errorf("email error = %q", resp.Errors["email"])
	}
	if resp.Errors["password"] != "must be at least 8 characters" {
		t.Errorf("password error = %q", resp.Errors["password"])
	}
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	c, w := newJSONContext(http.MethodPost, `{"email":`)
	var in loginInput
	if BindAndValidate(c, &in) {
		t.Fatal("BindAndValidate() = true, want false")
	}
	resp := decode[Response](t, w)
	if w.Code != http.StatusBadRequest || resp.Message == "" {
		t.Errorf("status = %d, resp = %+v", w.Code, resp)
	}
}

func TestErrorMessage(t *testing.T) {
	if got := ErrorMessage(domain.ErrValidation); got != "validation error" {
		t.Errorf("ErrorMessage(validation) = %q", got)
	}
	if got := ErrorMessage(&domain.AppError{Code: domain.CodeServer}); got != "internal error" {
		t.Errorf("ErrorMessage(empty message) = %q", got)
	}
}

func TestFieldErrors_NotValidation(t *testing.T) {
	if FieldErrors(errors.New("x"), nil) != nil {
		t.Error("FieldErrors() should be nil for non-validator errors")
	}
}
