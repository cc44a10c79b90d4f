package imports

import "github.com/gin-gonic/gin"

// Module registers the import dialog routes.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("imports.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the import routes. :material is a
// domain.MaterialType such as "talent" or "phoneme-material".
func (m *Module) RegisterRoutes(_ *gin.RouterGroup, pages *gin.RouterGroup) {
	pages.GET("/imports/:material", m.handler.Dialog)
	pages.GET("/imports/:material/template", m.handler.Template)
	pages.POST("/imports/:material/select", m.handler.Select)
	pages.POST("/imports/:material/upload", m.handler.Upload)
	pages.POST("/imports/:material/reset", m.handler.Reset)
}
