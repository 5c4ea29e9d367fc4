package payrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/employee"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	payrunerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun/errors"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payrun_service.go -destination=mock/payrun_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePayRunRequest) (PayRunResponse, error)
	GetAll(ctx context.Context, companyID string, req GetPayRunsFilterRequest) ([]PayRunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayRunResponse, error)
	GetItems(ctx context.Context, companyID, id string) ([]PayRunItemResponse, error)
	Process(ctx context.Context, companyID, actorID, id string) (PayRunResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ApprovePayRunRequest) (PayRunResponse, error)
	Complete(ctx context.Context, companyID, actorID, id string) (PayRunResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string, req CancelPayRunRequest) (PayRunResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	processor  *Processor
	payslips   payslip.Repository
	advances   wageadvance.Repository
	deductions deduction.Repository
	outbox     kafka.OutboxRepository
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	processor *Processor,
	payslips payslip.Repository,
	advances wageadvance.Repository,
	deductions deduction.Repository,
	outbox kafka.OutboxRepository,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		processor:  processor,
		payslips:   payslips,
		advances:   advances,
		deductions: deductions,
		outbox:     outbox,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreatePayRunRequest,
) (PayRunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayRunResponse{}, errors.New("invalid company id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayRunResponse{}, errors.New("invalid actor id")
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return PayRunResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PayRunResponse{}, err
	}
	payDate, err := parseDate(req.PayDate)
	if err != nil {
		return PayRunResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return PayRunResponse{}, errors.New("period_start must be before or equal period_end")
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, companyID, periodStart, periodEnd, nil)
	if err != nil {
		return PayRunResponse{}, err
	}
	if overlap {
		return PayRunResponse{}, payrunerrors.ErrOverlappingPeriod
	}

	run := &PayRun{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PayDate:     payDate,
		Status:      StatusDraft,
		CreatedBy:   actorUUID,
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return PayRunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req GetPayRunsFilterRequest) ([]PayRunResponse, error) {
	filter, err := req.toQueryFilter()
	if err != nil {
		return nil, err
	}

	runs, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(runs), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayRunResponse, error) {
	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}
	return mapToResponse(*run), nil
}

func (s *service) GetItems(ctx context.Context, companyID, id string) ([]PayRunItemResponse, error) {
	if _, err := s.find(ctx, companyID, id); err != nil {
		return nil, err
	}

	items, err := s.repo.FindItems(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]PayRunItemResponse, len(items))
	for i, item := range items {
		resp[i] = mapItemToResponse(item)
	}
	return resp, nil
}

// Process runs a calculation pass. The run is parked in CALCULATING while the
// worker pool computes every employee, then the pass lands atomically as
// items + aggregates + PENDING_REVIEW.
func (s *service) Process(
	ctx context.Context,
	companyID, actorID, id string,
) (PayRunResponse, error) {
	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}

	fromStatus := run.Status
	if !CanTransition(fromStatus, StatusCalculating) {
		return PayRunResponse{}, payrunerrors.ErrInvalidTransition
	}

	employeeIDs, err := s.employees.ListActiveEmployeeIDs(ctx, companyID)
	if err != nil {
		return PayRunResponse{}, err
	}
	if len(employeeIDs) == 0 {
		return PayRunResponse{}, payrunerrors.ErrNoEmployees
	}

	run.Status = StatusCalculating
	if err := s.repo.Update(ctx, run); err != nil {
		return PayRunResponse{}, err
	}

	items := s.processor.Run(ctx, run, employeeIDs)

	// Cancellation is checked at the barrier, not mid-flight. A cancel that
	// landed while calculating discards this pass.
	current, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}
	if current.Status == StatusCancelled {
		return PayRunResponse{}, payrunerrors.ErrInvalidTransition
	}

	applySummary(run, items)
	run.Status = StatusPendingReview
	if err := s.repo.SaveCalculation(ctx, run, items); err != nil {
		if errors.Is(err, payrunerrors.ErrInvalidTransition) {
			// A cancel won the race inside the guarded update; the pass is
			// discarded, not retried.
			return PayRunResponse{}, err
		}
		// Calculation pass could not land; put the run back where a retry can
		// pick it up.
		run.Status = fromStatus
		_ = s.repo.Update(ctx, run)
		return PayRunResponse{}, err
	}

	if err := s.enqueueStatusEvent(ctx, s.outbox, run, fromStatus, actorID); err != nil {
		return PayRunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) Approve(
	ctx context.Context,
	companyID, actorID, id string,
	req ApprovePayRunRequest,
) (PayRunResponse, error) {
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayRunResponse{}, errors.New("invalid actor id")
	}

	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}

	fromStatus := run.Status
	if !CanTransition(fromStatus, StatusApproved) {
		return PayRunResponse{}, payrunerrors.ErrInvalidTransition
	}
	if run.ErrorCount > 0 && !req.AllowErrors {
		return PayRunResponse{}, payrunerrors.ErrRunHasErrors
	}

	now := time.Now().UTC()
	run.Status = StatusApproved
	run.ApprovedBy = &approverUUID
	run.ApprovedAt = &now

	if err := s.repo.Update(ctx, run); err != nil {
		return PayRunResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, s.outbox, run, fromStatus, actorID); err != nil {
		return PayRunResponse{}, err
	}

	return mapToResponse(*run), nil
}

// Complete is the only place payroll side effects happen: payslips are cut,
// advance installments post to the ledger and deduction cumulatives move, all
// in one transaction with the status flip. Nothing here runs twice for the
// same run: the state machine blocks re-entry and the payslip and repayment
// inserts are conflict-guarded.
func (s *service) Complete(
	ctx context.Context,
	companyID, actorID, id string,
) (PayRunResponse, error) {
	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}

	fromStatus := run.Status
	if !CanTransition(fromStatus, StatusCompleted) {
		return PayRunResponse{}, payrunerrors.ErrInvalidTransition
	}

	items, err := s.repo.FindItems(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}
	if err := VerifyAggregates(run, items); err != nil {
		return PayRunResponse{}, err
	}

	advanceCache, err := s.loadAdvances(ctx, companyID, items)
	if err != nil {
		return PayRunResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayRunResponse{}, err
	}
	defer tx.Rollback()

	payslipQtx := s.payslips.WithTx(tx)
	deductionQtx := s.deductions.WithTx(tx)
	outboxQtx := s.outbox.WithTx(tx)
	ledger := wageadvance.NewLedger(s.advances.WithTx(tx))

	now := time.Now().UTC()
	taxYear := run.PeriodEnd.Year()

	for i := range items {
		item := &items[i]
		if item.Status != ItemStatusCalculated {
			continue
		}

		if err := s.issuePayslip(ctx, payslipQtx, run, item, taxYear); err != nil {
			return PayRunResponse{}, err
		}
		if err := s.postAdvances(ctx, ledger, outboxQtx, run, item, advanceCache, now); err != nil {
			return PayRunResponse{}, err
		}
		if err := s.advanceDeductions(ctx, deductionQtx, outboxQtx, run, item, now); err != nil {
			return PayRunResponse{}, err
		}
	}

	run.Status = StatusCompleted
	run.CompletedAt = &now
	if err := s.repo.WithTx(tx).MarkCompleted(ctx, run); err != nil {
		return PayRunResponse{}, err
	}

	if err := s.enqueueStatusEvent(ctx, outboxQtx, run, fromStatus, actorID); err != nil {
		return PayRunResponse{}, err
	}

	completed, err := kafka.NewEvent("pay_run", run.ID.String(), "payrun.completed",
		events.PayRunCompletedTopic, events.PayRunCompletedEvent{
			EventType:     "payrun.completed",
			PayRunID:      run.ID.String(),
			CompanyID:     run.CompanyID.String(),
			PeriodStart:   run.PeriodStart.Format("2006-01-02"),
			PeriodEnd:     run.PeriodEnd.Format("2006-01-02"),
			EmployeeCount: run.EmployeeCount,
			TotalGross:    run.TotalGross,
			TotalNet:      run.TotalNet,
			CompletedBy:   actorID,
			OccurredAt:    now,
		})
	if err != nil {
		return PayRunResponse{}, err
	}
	if err := outboxQtx.Create(ctx, completed); err != nil {
		return PayRunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayRunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) Cancel(
	ctx context.Context,
	companyID, actorID, id string,
	req CancelPayRunRequest,
) (PayRunResponse, error) {
	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayRunResponse{}, err
	}

	fromStatus := run.Status
	if !CanTransition(fromStatus, StatusCancelled) {
		return PayRunResponse{}, payrunerrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	run.Status = StatusCancelled
	run.CancelledAt = &now
	run.CancelReason = req.Reason

	if err := s.repo.Update(ctx, run); err != nil {
		return PayRunResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, s.outbox, run, fromStatus, actorID); err != nil {
		return PayRunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	run, err := s.find(ctx, companyID, id)
	if err != nil {
		return err
	}
	if run.Status != StatusDraft {
		return payrunerrors.ErrNotDraft
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) find(ctx context.Context, companyID, id string) (*PayRun, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrunerrors.ErrPayRunNotFound
		}
		return nil, err
	}
	return run, nil
}

// loadAdvances resolves every advance the run's items plan to collect, before
// the completion transaction opens.
func (s *service) loadAdvances(
	ctx context.Context,
	companyID string,
	items []PayRunItem,
) (map[string]*wageadvance.WageAdvance, error) {
	cache := make(map[string]*wageadvance.WageAdvance)
	for i := range items {
		for _, installment := range items[i].Advances {
			if _, ok := cache[installment.AdvanceID]; ok {
				continue
			}
			advance, err := s.advances.FindByIDAndCompany(ctx, companyID, installment.AdvanceID)
			if err != nil {
				return nil, err
			}
			cache[installment.AdvanceID] = advance
		}
	}
	return cache, nil
}

func (s *service) issuePayslip(
	ctx context.Context,
	payslips payslip.Repository,
	run *PayRun,
	item *PayRunItem,
	taxYear int,
) error {
	ytd, err := payslips.SumYearToDate(ctx, run.CompanyID.String(), item.EmployeeID.String(), taxYear)
	if err != nil {
		return err
	}

	breakdown, err := json.Marshal(map[string]any{
		"earnings":   item.Earnings,
		"deductions": item.Deductions,
		"reliefs":    item.Reliefs,
		"tax_bands":  item.TaxBands,
		"advances":   item.Advances,
	})
	if err != nil {
		return err
	}

	pension := pensionOf(item)

	slip := &payslip.Payslip{
		ID:         uuid.New(),
		CompanyID:  run.CompanyID,
		PayRunID:   run.ID,
		EmployeeID: item.EmployeeID,

		PeriodStart: run.PeriodStart,
		PeriodEnd:   run.PeriodEnd,
		TaxYear:     taxYear,

		GrossPay:          item.GrossPay,
		TaxableIncome:     item.TaxableIncome,
		ReliefTotal:       item.ReliefTotal,
		Tax:               item.Tax,
		PreTaxDeductions:  item.PreTaxDeductions,
		PostTaxDeductions: item.PostTaxDeductions,
		Pension:           pension,
		AdvanceRepayment:  item.AdvanceRepayment,
		NetPay:            item.NetPay,

		EmployerPension:     item.EmployerPension,
		EmployerHousingFund: item.EmployerHousingFund,

		TaxLawVersion: item.TaxLawVersion,
		Breakdown:     breakdown,

		YTDGross:   ytd.Gross + item.GrossPay,
		YTDTax:     ytd.Tax + item.Tax,
		YTDPension: ytd.Pension + pension,
		YTDNet:     ytd.Net + item.NetPay,

		Status: payslip.StatusIssued,
	}

	_, err = payslips.Create(ctx, slip)
	return err
}

// pensionOf sums the item's employee pension contribution lines.
func pensionOf(item *PayRunItem) int64 {
	var total int64
	for _, applied := range item.Deductions {
		if applied.Code == deduction.CodePension {
			total += applied.Amount
		}
	}
	return total
}

func (s *service) postAdvances(
	ctx context.Context,
	ledger *wageadvance.Ledger,
	outbox kafka.OutboxRepository,
	run *PayRun,
	item *PayRunItem,
	cache map[string]*wageadvance.WageAdvance,
	now time.Time,
) error {
	for _, installment := range item.Advances {
		advance, ok := cache[installment.AdvanceID]
		if !ok {
			continue
		}

		posted, err := ledger.PostRepayment(ctx, advance, run.ID, installment.Amount)
		if err != nil {
			return err
		}
		if !posted {
			continue
		}

		event, err := kafka.NewEvent("wage_advance", advance.ID.String(),
			"wage_advance.repayment_posted", events.WageAdvanceRepaymentPostedTopic,
			events.WageAdvanceRepaymentPostedEvent{
				EventType:  "wage_advance.repayment_posted",
				AdvanceID:  advance.ID.String(),
				PayRunID:   run.ID.String(),
				CompanyID:  run.CompanyID.String(),
				EmployeeID: advance.EmployeeID.String(),
				Amount:     installment.Amount,
				Settled:    advance.Status == wageadvance.StatusRepaid,
				OccurredAt: now,
			})
		if err != nil {
			return err
		}
		if err := outbox.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) advanceDeductions(
	ctx context.Context,
	deductions deduction.Repository,
	outbox kafka.OutboxRepository,
	run *PayRun,
	item *PayRunItem,
	now time.Time,
) error {
	for _, applied := range item.Deductions {
		if err := deductions.AdvanceCumulative(
			ctx, run.CompanyID.String(), applied.EmployeeDeductionID,
			applied.Amount, run.PeriodEnd.Year(), applied.TargetReached,
		); err != nil {
			return err
		}

		if !applied.TargetReached {
			continue
		}

		event, err := kafka.NewEvent("employee_deduction", applied.EmployeeDeductionID,
			"deduction.target_reached", events.DeductionTargetReachedTopic,
			events.DeductionTargetReachedEvent{
				EventType:           "deduction.target_reached",
				EmployeeDeductionID: applied.EmployeeDeductionID,
				PayRunID:            run.ID.String(),
				CompanyID:           run.CompanyID.String(),
				EmployeeID:          item.EmployeeID.String(),
				Code:                applied.Code,
				OccurredAt:          now,
			})
		if err != nil {
			return err
		}
		if err := outbox.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) enqueueStatusEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	run *PayRun,
	fromStatus, actorID string,
) error {
	event, err := kafka.NewEvent("pay_run", run.ID.String(), "payrun.status_changed",
		events.PayRunStatusChangedTopic, events.PayRunStatusChangedEvent{
			EventType:  "payrun.status_changed",
			PayRunID:   run.ID.String(),
			CompanyID:  run.CompanyID.String(),
			FromStatus: fromStatus,
			ToStatus:   run.Status,
			ActorID:    actorID,
			OccurredAt: time.Now().UTC(),
		})
	if err != nil {
		return err
	}
	return outbox.Create(ctx, event)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return t, nil
}

func mapToResponse(run PayRun) PayRunResponse {
	resp := PayRunResponse{
		ID:                run.ID.String(),
		CompanyID:         run.CompanyID.String(),
		PeriodStart:       run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         run.PeriodEnd.Format("2006-01-02"),
		PayDate:           run.PayDate.Format("2006-01-02"),
		Status:            run.Status,
		TotalGross:        run.TotalGross,
		TotalDeductions:   run.TotalDeductions,
		TotalTax:          run.TotalTax,
		TotalNet:          run.TotalNet,
		TotalEmployerCost: run.TotalEmployerCost,
		EmployeeCount:     run.EmployeeCount,
		ErrorCount:        run.ErrorCount,
		CreatedBy:         run.CreatedBy.String(),
		CancelReason:      run.CancelReason,
		CreatedAt:         run.CreatedAt.Format(time.RFC3339),
	}

	if run.ApprovedBy != nil {
		v := run.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if run.ApprovedAt != nil {
		v := run.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if run.CompletedAt != nil {
		v := run.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	if run.CancelledAt != nil {
		v := run.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}

	return resp
}

func mapToListResponse(runs []PayRun) []PayRunResponse {
	resp := make([]PayRunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapToResponse(run)
	}
	return resp
}

func mapItemToResponse(item PayRunItem) PayRunItemResponse {
	return PayRunItemResponse{
		ID:                  item.ID.String(),
		PayRunID:            item.PayRunID.String(),
		EmployeeID:          item.EmployeeID.String(),
		Status:              item.Status,
		ErrorMessage:        item.ErrorMessage,
		GrossPay:            item.GrossPay,
		TaxableIncome:       item.TaxableIncome,
		ReliefTotal:         item.ReliefTotal,
		Tax:                 item.Tax,
		PreTaxDeductions:    item.PreTaxDeductions,
		PostTaxDeductions:   item.PostTaxDeductions,
		AdvanceRepayment:    item.AdvanceRepayment,
		NetPay:              item.NetPay,
		EmployerPension:     item.EmployerPension,
		EmployerHousingFund: item.EmployerHousingFund,
		TaxLawVersion:       item.TaxLawVersion,
		Earnings:            item.Earnings,
		Deductions:          item.Deductions,
		Reliefs:             item.Reliefs,
		TaxBands:            item.TaxBands,
		Advances:            item.Advances,
	}
}
