package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering admin module.
// api is the /api/v1 group and pages the signed-in page group; both sit
// behind RequireLogin.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

// PublicModule is a Module that also serves pages reachable without a
// session, such as the sign-in form.
type PublicModule interface {
	Module
	RegisterPublicRoutes(public *gin.RouterGroup)
}
