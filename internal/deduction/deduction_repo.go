package deduction

import (
	"context"
	"database/sql"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateType(ctx context.Context, dtype *DeductionType) error
	FindAllTypes(ctx context.Context, companyID string) ([]DeductionType, error)
	FindTypeByID(ctx context.Context, companyID string, id string) (*DeductionType, error)
	UpdateType(ctx context.Context, dtype *DeductionType) error
	DeleteType(ctx context.Context, companyID string, id string) error

	CreateBinding(ctx context.Context, binding *EmployeeDeduction) error
	FindBindingsByEmployee(ctx context.Context, companyID string, employeeID string) ([]EmployeeDeduction, error)
	FindActiveByEmployee(ctx context.Context, companyID string, employeeID string, date time.Time) ([]EmployeeDeduction, error)
	AdvanceCumulative(ctx context.Context, companyID string, bindingID string, delta int64, year int, deactivate bool) error
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

func (r *repository) CreateType(ctx context.Context, dtype *DeductionType) error {
	return r.db.WithContext(ctx).Create(dtype).Error
}

func (r *repository) FindAllTypes(ctx context.Context, companyID string) ([]DeductionType, error) {
	var types []DeductionType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("priority ASC, code ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindTypeByID(ctx context.Context, companyID string, id string) (*DeductionType, error) {
	var dtype DeductionType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&dtype, "id = ?", id).Error
	return &dtype, err
}

func (r *repository) UpdateType(ctx context.Context, dtype *DeductionType) error {
	return r.db.WithContext(ctx).Save(dtype).Error
}

func (r *repository) DeleteType(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&DeductionType{}, "id = ?", id).Error
}

func (r *repository) CreateBinding(ctx context.Context, binding *EmployeeDeduction) error {
	return r.db.WithContext(ctx).Create(binding).Error
}

func (r *repository) FindBindingsByEmployee(
	ctx context.Context,
	companyID string,
	employeeID string,
) ([]EmployeeDeduction, error) {
	var bindings []EmployeeDeduction
	err := r.db.WithContext(ctx).
		Preload("DeductionType").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&bindings).Error
	return bindings, err
}

func (r *repository) FindActiveByEmployee(
	ctx context.Context,
	companyID string,
	employeeID string,
	date time.Time,
) ([]EmployeeDeduction, error) {
	var bindings []EmployeeDeduction
	err := r.db.WithContext(ctx).
		Preload("DeductionType").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("active = TRUE").
		Where("effective_from <= ?", date).
		Where("effective_to IS NULL OR effective_to > ?", date).
		Find(&bindings).Error
	return bindings, err
}

// AdvanceCumulative increments the binding's counters and optionally
// deactivates it. The annual counter restarts when the completing run falls
// in a later year than the stored one. Runs inside the pay-run completion
// transaction.
func (r *repository) AdvanceCumulative(
	ctx context.Context,
	companyID string,
	bindingID string,
	delta int64,
	year int,
	deactivate bool,
) error {
	if r.tx != nil {
		query := `
UPDATE employee_deductions
SET
	cumulative_deducted = cumulative_deducted + $1,
	year_deducted = CASE WHEN deduction_year = $2 THEN year_deducted + $1 ELSE $1 END,
	deduction_year = $2,
	active = CASE WHEN $3 THEN FALSE ELSE active END,
	updated_at = NOW()
WHERE id = $4 AND company_id = $5
`
		_, err := r.tx.ExecContext(ctx, query, delta, year, deactivate, bindingID, companyID)
		return err
	}

	return r.db.WithContext(ctx).Exec(`
UPDATE employee_deductions
SET
	cumulative_deducted = cumulative_deducted + ?,
	year_deducted = CASE WHEN deduction_year = ? THEN year_deducted + ? ELSE ? END,
	deduction_year = ?,
	active = CASE WHEN ? THEN FALSE ELSE active END,
	updated_at = NOW()
WHERE id = ? AND company_id = ?
`, delta, year, delta, delta, year, deactivate, bindingID, companyID).Error
}
