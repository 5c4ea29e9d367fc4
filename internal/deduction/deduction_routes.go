package deduction

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/middleware"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	types := r.Group("/deduction-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "deduction", "read"), handler.GetAllTypes)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "deduction", "read"), handler.GetTypeByID)
		types.POST("", middleware.RBACAuthorize(rbacService, "deduction", "create"), handler.CreateType)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, "deduction", "update"), handler.UpdateType)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "deduction", "delete"), handler.DeleteType)
	}

	bindings := r.Group("/employee-deductions")
	bindings.Use(middleware.AuthMiddleware())
	{
		bindings.POST("", middleware.RBACAuthorize(rbacService, "deduction", "create"), handler.CreateBinding)
		bindings.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "deduction", "read"), handler.GetBindingsByEmployee)
	}
}
