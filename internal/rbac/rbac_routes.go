package rbac

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/roles", handler.ListRoles)
		group.POST("/roles", handler.CreateRole)
		group.GET("/permissions", handler.ListPermissions)
	}
}
