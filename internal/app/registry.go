package app

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/employee"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/rbac/infra"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	advanceRepo := wageadvance.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	payRunRepo := payrun.NewRepository(gormDB)
	taxLawRepo := taxlaw.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Calculation pipeline ---
	selector := taxlaw.NewSelector(taxLawRepo)
	composer := payrun.NewComposer(employeeRepo, deductionRepo, advanceRepo, selector)
	processor := payrun.NewProcessor(composer, payrunWorkers())

	// --- Services ---
	deductionService := deduction.NewService(db, deductionRepo, outboxRepo)
	advanceService := wageadvance.NewService(db, advanceRepo, outboxRepo)
	payslipService := payslip.NewService(db, payslipRepo)
	payRunService := payrun.NewService(
		db,
		payRunRepo,
		employeeRepo,
		processor,
		payslipRepo,
		advanceRepo,
		deductionRepo,
		outboxRepo,
	)

	// --- Handlers ---
	deductionHandler := deduction.NewHandler(deductionService)
	advanceHandler := wageadvance.NewHandler(advanceService)
	payslipHandler := payslip.NewHandler(payslipService)
	payRunHandler := payrun.NewHandler(payRunService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		deduction.RegisterRoutes(api, deductionHandler, rbacService)
		wageadvance.RegisterRoutes(api, advanceHandler, rbacService)
		payrun.RegisterRoutes(api, payRunHandler, rbacService, rdb)
		payslip.RegisterRoutes(api, payslipHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}

// payrunWorkers reads PAYRUN_CONCURRENCY; zero falls through to the processor
// default.
func payrunWorkers() int {
	v := os.Getenv("PAYRUN_CONCURRENCY")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
