package interview

import "github.com/gin-gonic/gin"

// Module registers the interview question pages.
type Module struct {
	handler *Handler
}

// NewModule creates a Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("interview.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the interview question routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/grids/interview-questions", m.handler.ListJSON)

	pages.GET("/interview-questions", m.handler.List)
	pages.POST("/interview-questions", m.handler.Create)
	pages.PUT("/interview-questions/:id", m.handler.Update)
	pages.DELETE("/interview-questions/:id", m.handler.Delete)
	pages.POST("/interview-questions/:id/toggle", m.handler.Toggle)
	pages.POST("/interview-questions/:id/swap", m.handler.Swap)
}
