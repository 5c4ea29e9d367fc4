package payrun

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/middleware"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/pay-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "pay_run", "read"), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "pay_run", "read"), handler.GetByID)
		runs.GET("/:id/items", middleware.RBACAuthorize(rbacService, "pay_run", "read"), handler.GetItems)
		runs.POST("", middleware.RBACAuthorize(rbacService, "pay_run", "create"), handler.Create)
		runs.POST("/:id/process", middleware.RBACAuthorize(rbacService, "pay_run", "process"), handler.Process)
		runs.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "pay_run", "approve"), handler.Approve)
		if redisClient != nil {
			runs.POST(
				"/:id/complete",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "pay_run", "approve"),
				handler.Complete,
			)
		} else {
			runs.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "pay_run", "approve"), handler.Complete)
		}
		runs.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "pay_run", "approve"), handler.Cancel)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, "pay_run", "delete"), handler.Delete)
	}
}
