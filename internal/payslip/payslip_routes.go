package payslip

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/middleware"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	slips := r.Group("/payslips")
	slips.Use(middleware.AuthMiddleware())
	{
		slips.GET("/:id", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByID)
		slips.GET("/:id/pdf", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.DownloadPDF)
		slips.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByEmployee)
		slips.GET("/run/:runId", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByRun)
		slips.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "payslip", "cancel"), handler.Cancel)
	}
}
