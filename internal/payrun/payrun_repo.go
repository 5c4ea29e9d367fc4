package payrun

import (
	"context"
	"database/sql"
	"time"

	payrunerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun/errors"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payrun_repo.go -destination=mock/payrun_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *PayRun) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayRun, error)
	FindAllByCompany(ctx context.Context, companyID string, filter PayRunQueryFilter) ([]PayRun, error)
	HasOverlappingPeriod(ctx context.Context, companyID string, periodStart, periodEnd time.Time, excludeID *string) (bool, error)
	Update(ctx context.Context, run *PayRun) error
	SaveCalculation(ctx context.Context, run *PayRun, items []*PayRunItem) error
	FindItems(ctx context.Context, companyID string, runID string) ([]PayRunItem, error)
	MarkCompleted(ctx context.Context, run *PayRun) error
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, run *PayRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayRun, error) {
	var run PayRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter PayRunQueryFilter) ([]PayRun, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.PeriodStart != nil {
		q = q.Where("period_start >= ?", *filter.PeriodStart)
	}
	if filter.PeriodEnd != nil {
		q = q.Where("period_start <= ?", *filter.PeriodEnd)
	}

	var runs []PayRun
	err := q.Order("period_start DESC").Find(&runs).Error
	return runs, err
}

// HasOverlappingPeriod ignores cancelled runs; a cancelled run's period may be
// re-run.
func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
	excludeID *string,
) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&PayRun{}).
		Scopes(tenant.Scope(companyID)).
		Where("status <> ?", StatusCancelled).
		Where("period_start <= ? AND period_end >= ?", periodEnd, periodStart)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, run *PayRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// SaveCalculation atomically replaces the run's items and its recomputed
// aggregates so a reviewer never sees totals from one pass next to items from
// another. The run update is guarded on the CALCULATING status; a cancel that
// landed after the barrier re-read wins and the pass is discarded.
func (r *repository) SaveCalculation(ctx context.Context, run *PayRun, items []*PayRunItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&PayRun{}).
			Where("id = ? AND company_id = ? AND status = ?", run.ID, run.CompanyID, StatusCalculating).
			Updates(map[string]any{
				"status":              run.Status,
				"total_gross":         run.TotalGross,
				"total_deductions":    run.TotalDeductions,
				"total_tax":           run.TotalTax,
				"total_net":           run.TotalNet,
				"total_employer_cost": run.TotalEmployerCost,
				"employee_count":      run.EmployeeCount,
				"error_count":         run.ErrorCount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return payrunerrors.ErrInvalidTransition
		}

		if err := tx.Where("pay_run_id = ?", run.ID).Delete(&PayRunItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			return tx.CreateInBatches(items, 100).Error
		}
		return nil
	})
}

func (r *repository) FindItems(ctx context.Context, companyID string, runID string) ([]PayRunItem, error) {
	var items []PayRunItem
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("pay_run_id = ?", runID).
		Order("employee_id ASC").
		Find(&items).Error
	return items, err
}

// MarkCompleted persists the terminal transition inside the completion
// transaction when one is bound.
func (r *repository) MarkCompleted(ctx context.Context, run *PayRun) error {
	if r.tx != nil {
		query := `
UPDATE pay_runs
SET status = $1, completed_at = $2, updated_at = NOW()
WHERE id = $3 AND company_id = $4
`
		_, err := r.tx.ExecContext(ctx, query, run.Status, run.CompletedAt, run.ID, run.CompanyID)
		return err
	}

	return r.db.WithContext(ctx).Exec(`
UPDATE pay_runs
SET status = ?, completed_at = ?, updated_at = NOW()
WHERE id = ? AND company_id = ?
`, run.Status, run.CompletedAt, run.ID, run.CompanyID).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayRun{}, "id = ?", id).Error
}
