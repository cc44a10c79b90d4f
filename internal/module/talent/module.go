package talent

import "github.com/gin-gonic/gin"

// Module registers the talent pages.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("talent.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the talent pages and the talent grid API.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/grids/talents", m.handler.ListJSON)

	pages.GET("/talents", m.handler.List)
	pages.GET("/talents/new", m.handler.NewPage)
	pages.POST("/talents", m.handler.Create)
	pages.GET("/talents/:id", m.handler.Detail)
	pages.GET("/talents/:id/edit", m.handler.EditPage)
	pages.PUT("/talents/:id", m.handler.Update)
	pages.PUT("/talents/:id/password", m.handler.ChangePassword)
	pages.DELETE("/talents/:id", m.handler.Delete)
}
