package wageadvance

import (
	"context"
	"database/sql"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=wage_advance_repo.go -destination=mock/wage_advance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, advance *WageAdvance) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*WageAdvance, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]WageAdvance, error)
	FindByEmployee(ctx context.Context, companyID string, employeeID string) ([]WageAdvance, error)
	FindOutstandingByEmployee(ctx context.Context, companyID string, employeeID string) ([]WageAdvance, error)
	Update(ctx context.Context, advance *WageAdvance) error

	CreateRepayment(ctx context.Context, repayment *AdvanceRepayment) (bool, error)
	UpdateProgress(ctx context.Context, advance *WageAdvance) error
	FindRepayments(ctx context.Context, companyID string, advanceID string) ([]AdvanceRepayment, error)
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

func (r *repository) Create(ctx context.Context, advance *WageAdvance) error {
	return r.db.WithContext(ctx).Create(advance).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*WageAdvance, error) {
	var advance WageAdvance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&advance, "id = ?", id).Error
	return &advance, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]WageAdvance, error) {
	var advances []WageAdvance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&advances).Error
	return advances, err
}

func (r *repository) FindByEmployee(
	ctx context.Context,
	companyID string,
	employeeID string,
) ([]WageAdvance, error) {
	var advances []WageAdvance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&advances).Error
	return advances, err
}

func (r *repository) FindOutstandingByEmployee(
	ctx context.Context,
	companyID string,
	employeeID string,
) ([]WageAdvance, error) {
	var advances []WageAdvance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusDisbursed, StatusRepaying}).
		Order("disbursed_at ASC").
		Find(&advances).Error
	return advances, err
}

func (r *repository) Update(ctx context.Context, advance *WageAdvance) error {
	return r.db.WithContext(ctx).Save(advance).Error
}

// CreateRepayment inserts the installment row. The conflict target is the
// unique (advance_id, pay_run_id) pair; a duplicate insert reports false so
// the caller skips the ledger mutation.
func (r *repository) CreateRepayment(ctx context.Context, repayment *AdvanceRepayment) (bool, error) {
	query := `
INSERT INTO advance_repayments (id, company_id, advance_id, pay_run_id, amount, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (advance_id, pay_run_id) DO NOTHING
`

	if r.tx != nil {
		res, err := r.tx.ExecContext(
			ctx, query,
			repayment.ID, repayment.CompanyID, repayment.AdvanceID, repayment.PayRunID, repayment.Amount,
		)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return affected > 0, nil
	}

	res := r.db.WithContext(ctx).Exec(`
INSERT INTO advance_repayments (id, company_id, advance_id, pay_run_id, amount, created_at)
VALUES (?, ?, ?, ?, ?, NOW())
ON CONFLICT (advance_id, pay_run_id) DO NOTHING
`, repayment.ID, repayment.CompanyID, repayment.AdvanceID, repayment.PayRunID, repayment.Amount)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateProgress persists repayment progress and status inside the pay-run
// completion transaction when one is bound.
func (r *repository) UpdateProgress(ctx context.Context, advance *WageAdvance) error {
	if r.tx != nil {
		query := `
UPDATE wage_advances
SET repaid_amount = $1, status = $2, updated_at = NOW()
WHERE id = $3 AND company_id = $4
`
		_, err := r.tx.ExecContext(
			ctx, query,
			advance.RepaidAmount, advance.Status, advance.ID, advance.CompanyID,
		)
		return err
	}

	return r.db.WithContext(ctx).Exec(`
UPDATE wage_advances
SET repaid_amount = ?, status = ?, updated_at = NOW()
WHERE id = ? AND company_id = ?
`, advance.RepaidAmount, advance.Status, advance.ID, advance.CompanyID).Error
}

func (r *repository) FindRepayments(
	ctx context.Context,
	companyID string,
	advanceID string,
) ([]AdvanceRepayment, error) {
	var repayments []AdvanceRepayment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("advance_id = ?", advanceID).
		Order("created_at ASC").
		Find(&repayments).Error
	return repayments, err
}
