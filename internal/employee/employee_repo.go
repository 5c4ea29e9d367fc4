package employee

import (
	"context"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindPayConfiguration(ctx context.Context, companyID string, employeeID string) (*PayConfiguration, error)
	FindAttendance(ctx context.Context, companyID string, employeeID string, periodStart, periodEnd time.Time) (*AttendanceSummary, error)
	ListActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindPayConfiguration(
	ctx context.Context,
	companyID string,
	employeeID string,
) (*PayConfiguration, error) {
	var config PayConfiguration
	err := r.db.WithContext(ctx).
		Preload("Earnings").
		Scopes(tenant.Scope(companyID)).
		First(&config, "employee_id = ?", employeeID).Error
	return &config, err
}

func (r *repository) FindAttendance(
	ctx context.Context,
	companyID string,
	employeeID string,
	periodStart, periodEnd time.Time,
) (*AttendanceSummary, error) {
	var summary AttendanceSummary

	// Aggregates only approved attendance rows; capture/validation happens
	// upstream in the attendance workflow.
	query := `
SELECT
	a.employee_id,
	COALESCE(SUM(a.regular_hours), 0)   AS regular_hours,
	COALESCE(SUM(a.overtime_hours), 0)  AS overtime_hours,
	COALESCE(SUM(a.weekend_hours), 0)   AS weekend_hours,
	COALESCE(SUM(a.holiday_hours), 0)   AS holiday_hours,
	COALESCE(SUM(a.commission_base), 0) AS commission_base
FROM attendance_summaries a
JOIN employees e ON e.id = a.employee_id
WHERE e.company_id = ?
	AND a.employee_id = ?
	AND a.work_date >= ? AND a.work_date <= ?
	AND a.status = 'APPROVED'
GROUP BY a.employee_id
`

	err := r.db.WithContext(ctx).
		Raw(query, companyID, employeeID, periodStart, periodEnd).
		Scan(&summary).Error
	return &summary, err
}

func (r *repository) ListActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("employees").
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Where("employment_status = ?", "ACTIVE").
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
