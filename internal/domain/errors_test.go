package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with wrapped error",
			err:  &AppError{Code: CodeTransport, Message: "unable to reach the server", Err: errors.New("dial tcp: refused")},
			want: "unable to reach the server: dial tcp: refused",
		},
		{
			name: "without wrapped error",
			err:  &AppError{Code: CodeValidation, Message: "file too large"},
			want: "file too large",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checkFn func(error) bool
		code    int
	}{
		{"ErrNotFound", ErrNotFound, IsNotFound, CodeNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists, IsAlreadyExists, CodeAlreadyExists},
		{"ErrValidation", ErrValidation, IsValidation, CodeValidation},
		{"ErrInternal", ErrInternal, IsInternal, CodeInternal},
		{"ErrUnauthorized", ErrUnauthorized, IsUnauthorized, CodeUnauthorized},
		{"ErrTransport", ErrTransport, IsTransport, CodeTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			if !errors.As(tt.err, &appErr) {
				t.Fatal("should be *AppError")
			}
			if appErr.Code != tt.code {
				t.Errorf("Code = %d; want %d", appErr.Code, tt.code)
			}
			if !tt.checkFn(tt.err) {
				t.Errorf("check function should return true for %s", tt.name)
			}
		})
	}
}

func TestIsCheckers_WithWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("list talents: %w", NewServerError(http.StatusBadRequest, "Kategori tidak valid"))
	if !IsServer(wrapped) {
		t.Error("IsServer should detect a wrapped server error")
	}
	if IsUnauthorized(wrapped) {
		t.Error("IsUnauthorized should return false for a server error")
	}
	if got := Message(wrapped, "fallback"); got != "Kategori tidak valid" {
		t.Errorf("Message() = %q; want verbatim backend message", got)
	}
}

func TestIsCheckers_NonAppError(t *testing.T) {
	plainErr := errors.New("some error")
	checks := map[string]func(error) bool{
		"IsNotFound":     IsNotFound,
		"IsValidation":   IsValidation,
		"IsUnauthorized": IsUnauthorized,
		"IsTransport":    IsTransport,
		"IsServer":       IsServer,
	}
	for name, fn := range checks {
		if fn(plainErr) {
			t.Errorf("%s should return false for non-AppError", name)
		}
	}
	if got := Message(plainErr, "fallback"); got != "fallback" {
		t.Errorf("Message() = %q; want %q", got, "fallback")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"transport", ErrTransport, http.StatusBadGateway},
		{"server 4xx kept", NewServerError(http.StatusUnprocessableEntity, "bad"), http.StatusUnprocessableEntity},
		{"server 5xx as bad gateway", NewServerError(http.StatusInternalServerError, "boom"), http.StatusBadGateway},
		{"unknown code", NewAppError(999, "unknown", nil), http.StatusInternalServerError},
		{"non-AppError", errors.New("plain"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d; want %d", got, tt.want)
			}
		})
	}
}
