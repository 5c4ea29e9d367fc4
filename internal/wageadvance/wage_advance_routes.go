package wageadvance

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/middleware"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	advances := r.Group("/wage-advances")
	advances.Use(middleware.AuthMiddleware())
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "wage_advance", "read"), handler.GetAll)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "wage_advance", "read"), handler.GetByID)
		advances.GET("/:id/repayments", middleware.RBACAuthorize(rbacService, "wage_advance", "read"), handler.GetRepayments)
		advances.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "wage_advance", "read"), handler.GetByEmployee)
		advances.POST("", middleware.RBACAuthorize(rbacService, "wage_advance", "create"), handler.Request)
		advances.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "wage_advance", "approve"), handler.Approve)
		advances.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "wage_advance", "approve"), handler.Reject)
		advances.POST("/:id/disburse", middleware.RBACAuthorize(rbacService, "wage_advance", "approve"), handler.Disburse)
	}
}
