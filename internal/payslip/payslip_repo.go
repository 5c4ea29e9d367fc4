package payslip

import (
	"context"
	"database/sql"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/tenant"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, slip *Payslip) (bool, error)
	SumYearToDate(ctx context.Context, companyID string, employeeID string, taxYear int) (YTDTotals, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payslip, error)
	FindByEmployee(ctx context.Context, companyID string, employeeID string, taxYear int) ([]Payslip, error)
	FindByRun(ctx context.Context, companyID string, payRunID string) ([]Payslip, error)
	Cancel(ctx context.Context, companyID string, id string, reason string) error
	StorePDF(ctx context.Context, companyID string, id string, data []byte, renderedAt time.Time) error
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

// Create inserts the slip, reporting false when the run already issued one for
// this employee. Runs inside the pay-run completion transaction.
func (r *repository) Create(ctx context.Context, slip *Payslip) (bool, error) {
	query := `
INSERT INTO payslips (
	id, company_id, pay_run_id, employee_id,
	period_start, period_end, tax_year,
	gross_pay, taxable_income, relief_total, tax,
	pre_tax_deductions, post_tax_deductions, pension, advance_repayment, net_pay,
	employer_pension, employer_housing_fund,
	tax_law_version, breakdown,
	ytd_gross, ytd_tax, ytd_pension, ytd_net,
	status, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW(), NOW()
)
ON CONFLICT (pay_run_id, employee_id) DO NOTHING
`

	args := []any{
		slip.ID, slip.CompanyID, slip.PayRunID, slip.EmployeeID,
		slip.PeriodStart, slip.PeriodEnd, slip.TaxYear,
		slip.GrossPay, slip.TaxableIncome, slip.ReliefTotal, slip.Tax,
		slip.PreTaxDeductions, slip.PostTaxDeductions, slip.Pension, slip.AdvanceRepayment, slip.NetPay,
		slip.EmployerPension, slip.EmployerHousingFund,
		slip.TaxLawVersion, slip.Breakdown,
		slip.YTDGross, slip.YTDTax, slip.YTDPension, slip.YTDNet,
		slip.Status,
	}

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return affected > 0, nil
	}

	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO payslips (
	id, company_id, pay_run_id, employee_id,
	period_start, period_end, tax_year,
	gross_pay, taxable_income, relief_total, tax,
	pre_tax_deductions, post_tax_deductions, pension, advance_repayment, net_pay,
	employer_pension, employer_housing_fund,
	tax_law_version, breakdown,
	ytd_gross, ytd_tax, ytd_pension, ytd_net,
	status, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT (pay_run_id, employee_id) DO NOTHING`,
		args...,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SumYearToDate aggregates issued slips only; cancelled slips drop out of the
// running totals.
func (r *repository) SumYearToDate(
	ctx context.Context,
	companyID string,
	employeeID string,
	taxYear int,
) (YTDTotals, error) {
	query := `
SELECT
	COALESCE(SUM(gross_pay), 0),
	COALESCE(SUM(tax), 0),
	COALESCE(SUM(pension), 0),
	COALESCE(SUM(net_pay), 0)
FROM payslips
WHERE company_id = $1
	AND employee_id = $2
	AND tax_year = $3
	AND status = $4
	AND deleted_at IS NULL
`

	var totals YTDTotals
	if r.tx != nil {
		err := r.tx.QueryRowContext(ctx, query, companyID, employeeID, taxYear, StatusIssued).
			Scan(&totals.Gross, &totals.Tax, &totals.Pension, &totals.Net)
		return totals, err
	}

	row := r.db.WithContext(ctx).Raw(`
SELECT
	COALESCE(SUM(gross_pay), 0)  AS gross,
	COALESCE(SUM(tax), 0)        AS tax,
	COALESCE(SUM(pension), 0)    AS pension,
	COALESCE(SUM(net_pay), 0)    AS net
FROM payslips
WHERE company_id = ?
	AND employee_id = ?
	AND tax_year = ?
	AND status = ?
	AND deleted_at IS NULL
`, companyID, employeeID, taxYear, StatusIssued).Row()
	err := row.Scan(&totals.Gross, &totals.Tax, &totals.Pension, &totals.Net)
	return totals, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payslip, error) {
	var slip Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&slip, "id = ?", id).Error
	return &slip, err
}

// FindByEmployee lists an employee's slips, optionally narrowed to one tax
// year. A zero taxYear returns every year.
func (r *repository) FindByEmployee(
	ctx context.Context,
	companyID string,
	employeeID string,
	taxYear int,
) ([]Payslip, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID)
	if taxYear > 0 {
		q = q.Where("tax_year = ?", taxYear)
	}

	var slips []Payslip
	err := q.Order("period_end DESC").Find(&slips).Error
	return slips, err
}

func (r *repository) FindByRun(
	ctx context.Context,
	companyID string,
	payRunID string,
) ([]Payslip, error) {
	var slips []Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("pay_run_id = ?", payRunID).
		Order("employee_id ASC").
		Find(&slips).Error
	return slips, err
}

func (r *repository) Cancel(ctx context.Context, companyID string, id string, reason string) error {
	return r.db.WithContext(ctx).
		Model(&Payslip{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        StatusCancelled,
			"cancel_reason": reason,
		}).Error
}

func (r *repository) StorePDF(
	ctx context.Context,
	companyID string,
	id string,
	data []byte,
	renderedAt time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&Payslip{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"pdf_data":    data,
			"rendered_at": renderedAt,
		}).Error
}
