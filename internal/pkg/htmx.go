package pkg

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Toast levels understood by the layout's toast handler.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Toast asks the page to show a notification through the HX-Trigger header.
func Toast(c *gin.Context, message, level string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    level,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// ToastOnly reports an outcome without swapping any content.
func ToastOnly(c *gin.Context, message, level string) {
	c.Header("HX-Reswap", "none")
	Toast(c, message, level)
	c.Status(http.StatusOK)
}

// Redirect navigates the browser to location: a full page load for htmx
// requests, a 303 otherwise.
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}
