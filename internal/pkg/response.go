package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Response is the JSON envelope of /api/v1. It mirrors the backend's own
// {success, message, data} shape and adds the HTTP code.
type Response struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the envelope of a rejected request body.
type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Success sends a 200 response carrying data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Error sends the status and display message of err.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	c.JSON(status, Response{
		Code:    status,
		Message: ErrorMessage(err),
	})
}

// ErrorMessage returns the text an admin may see for err. Backend business
// messages are shown verbatim; internal failures never leak their detail.
func ErrorMessage(err error) string {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Message == "" {
		return "internal error"
	}
	if appErr.Code == domain.CodeInternal {
		return "internal error"
	}
	return appErr.Message
}

// ValidationError sends a 400 response with per-field messages.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// BindAndValidate binds the request into obj. On failure it writes the 400
// response itself and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

// FieldErrors maps each failed field of a validator error to a readable
// message, keyed by the field's form or json name when obj is given. It
// returns nil for other errors.
func FieldErrors(err error, obj any) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	names := fieldNames(obj)
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := names[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		out[name] = describe(fe)
	}
	return out
}

func validationErrorWithType(c *gin.Context, err error, obj any) {
	fields := FieldErrors(err, obj)
	if fields == nil {
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  fields,
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// fieldNames maps struct field names to their form tag, then json tag.
func fieldNames(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		for _, key := range []string{"form", "json"} {
			if name := tagName(f.Tag.Get(key)); name != "" {
				m[f.Name] = name
				break
			}
		}
	}
	return m
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
