package httputil

import "github.com/gin-gonic/gin"

// IHttpHandler is a group of routes mounted under Root on the public,
// private and admin API groups. Root may be empty to mount at the group itself.
type IHttpHandler interface {
	Root() string
	SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup)
}
