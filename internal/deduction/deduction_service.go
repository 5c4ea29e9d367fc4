package deduction

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	deductionerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction/errors"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_service.go -destination=mock/deduction_service_mock.go -package=mock
type Service interface {
	CreateType(ctx context.Context, companyID, actorID string, req CreateDeductionTypeRequest) (DeductionTypeResponse, error)
	GetAllTypes(ctx context.Context, companyID string) ([]DeductionTypeResponse, error)
	GetTypeByID(ctx context.Context, companyID, id string) (DeductionTypeResponse, error)
	UpdateType(ctx context.Context, companyID, actorID, id string, req UpdateDeductionTypeRequest) (DeductionTypeResponse, error)
	DeleteType(ctx context.Context, companyID, actorID, id string) error

	CreateBinding(ctx context.Context, companyID, actorID string, req CreateEmployeeDeductionRequest) (EmployeeDeductionResponse, error)
	GetBindingsByEmployee(ctx context.Context, companyID, employeeID string) ([]EmployeeDeductionResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, outbox: outbox}
}

func (s *service) CreateType(
	ctx context.Context,
	companyID, actorID string,
	req CreateDeductionTypeRequest,
) (DeductionTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DeductionTypeResponse{}, errors.New("invalid company id")
	}

	if req.Amount < 0 || req.PeriodCap < 0 || req.AnnualCap < 0 {
		return DeductionTypeResponse{}, deductionerrors.ErrNegativeAmount
	}

	rate := decimal.Zero
	if req.Rate != "" {
		rate, err = decimal.NewFromString(req.Rate)
		if err != nil || rate.IsNegative() {
			return DeductionTypeResponse{}, deductionerrors.ErrInvalidRate
		}
	}

	calcBase := req.CalcBase
	if calcBase == "" {
		calcBase = BaseGross
	}

	priority := req.Priority
	if priority == 0 {
		priority = 100
	}

	dtype := &DeductionType{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:      req.Name,
		Category:  req.Category,
		CalcKind:  req.CalcKind,
		CalcBase:  calcBase,
		Rate:      rate,
		Amount:    req.Amount,
		PeriodCap: req.PeriodCap,
		AnnualCap: req.AnnualCap,
		PreTax:    req.PreTax,
		Mandatory: req.Mandatory,
		Priority:  priority,
		Active:    true,
	}

	if err := s.repo.CreateType(ctx, dtype); err != nil {
		return DeductionTypeResponse{}, mapRepositoryError(err)
	}

	after := mapTypeToResponse(*dtype)
	if err := s.enqueueChangeEvent(ctx, "deduction_type", dtype.ID.String(),
		companyID, "created", actorID, nil, after); err != nil {
		return DeductionTypeResponse{}, err
	}

	return after, nil
}

func (s *service) GetAllTypes(ctx context.Context, companyID string) ([]DeductionTypeResponse, error) {
	types, err := s.repo.FindAllTypes(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]DeductionTypeResponse, len(types))
	for i, dtype := range types {
		resp[i] = mapTypeToResponse(dtype)
	}
	return resp, nil
}

func (s *service) GetTypeByID(ctx context.Context, companyID, id string) (DeductionTypeResponse, error) {
	dtype, err := s.repo.FindTypeByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeductionTypeResponse{}, deductionerrors.ErrDeductionTypeNotFound
		}
		return DeductionTypeResponse{}, err
	}
	return mapTypeToResponse(*dtype), nil
}

func (s *service) UpdateType(
	ctx context.Context,
	companyID, actorID, id string,
	req UpdateDeductionTypeRequest,
) (DeductionTypeResponse, error) {
	dtype, err := s.repo.FindTypeByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeductionTypeResponse{}, deductionerrors.ErrDeductionTypeNotFound
		}
		return DeductionTypeResponse{}, err
	}
	before := mapTypeToResponse(*dtype)

	if req.Amount < 0 || req.PeriodCap < 0 || req.AnnualCap < 0 {
		return DeductionTypeResponse{}, deductionerrors.ErrNegativeAmount
	}

	if req.Rate != "" {
		rate, err := decimal.NewFromString(req.Rate)
		if err != nil || rate.IsNegative() {
			return DeductionTypeResponse{}, deductionerrors.ErrInvalidRate
		}
		dtype.Rate = rate
	}

	dtype.Name = req.Name
	dtype.Amount = req.Amount
	dtype.PeriodCap = req.PeriodCap
	dtype.AnnualCap = req.AnnualCap
	dtype.PreTax = req.PreTax
	dtype.Mandatory = req.Mandatory
	if req.Priority > 0 {
		dtype.Priority = req.Priority
	}
	dtype.Active = req.Active

	if err := s.repo.UpdateType(ctx, dtype); err != nil {
		return DeductionTypeResponse{}, err
	}

	after := mapTypeToResponse(*dtype)
	if err := s.enqueueChangeEvent(ctx, "deduction_type", dtype.ID.String(),
		companyID, "updated", actorID, before, after); err != nil {
		return DeductionTypeResponse{}, err
	}

	return after, nil
}

func (s *service) DeleteType(ctx context.Context, companyID, actorID, id string) error {
	dtype, err := s.repo.FindTypeByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deductionerrors.ErrDeductionTypeNotFound
		}
		return err
	}

	if err := s.repo.DeleteType(ctx, companyID, id); err != nil {
		return err
	}

	return s.enqueueChangeEvent(ctx, "deduction_type", id,
		companyID, "deleted", actorID, mapTypeToResponse(*dtype), nil)
}

func (s *service) CreateBinding(
	ctx context.Context,
	companyID, actorID string,
	req CreateEmployeeDeductionRequest,
) (EmployeeDeductionResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeDeductionResponse{}, errors.New("invalid company id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EmployeeDeductionResponse{}, errors.New("invalid employee id")
	}
	typeUUID, err := uuid.Parse(req.DeductionTypeID)
	if err != nil {
		return EmployeeDeductionResponse{}, errors.New("invalid deduction type id")
	}

	if _, err := s.repo.FindTypeByID(ctx, companyID, req.DeductionTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDeductionResponse{}, deductionerrors.ErrDeductionTypeNotFound
		}
		return EmployeeDeductionResponse{}, err
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return EmployeeDeductionResponse{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", *req.EffectiveTo)
		if err != nil {
			return EmployeeDeductionResponse{}, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		effectiveTo = &to
	}

	var rateOverride *decimal.Decimal
	if req.RateOverride != nil && *req.RateOverride != "" {
		rate, err := decimal.NewFromString(*req.RateOverride)
		if err != nil || rate.IsNegative() {
			return EmployeeDeductionResponse{}, deductionerrors.ErrNegativeAmount
		}
		rateOverride = &rate
	}

	if req.AmountOverride != nil && *req.AmountOverride < 0 {
		return EmployeeDeductionResponse{}, deductionerrors.ErrNegativeAmount
	}
	if req.CumulativeTarget < 0 {
		return EmployeeDeductionResponse{}, deductionerrors.ErrNegativeAmount
	}

	binding := &EmployeeDeduction{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		DeductionTypeID:  typeUUID,
		EffectiveFrom:    effectiveFrom,
		EffectiveTo:      effectiveTo,
		AmountOverride:   req.AmountOverride,
		RateOverride:     rateOverride,
		CumulativeTarget: req.CumulativeTarget,
		Active:           true,
	}

	if err := s.repo.CreateBinding(ctx, binding); err != nil {
		return EmployeeDeductionResponse{}, mapRepositoryError(err)
	}

	after := mapBindingToResponse(*binding)
	if err := s.enqueueChangeEvent(ctx, "employee_deduction", binding.ID.String(),
		companyID, "created", actorID, nil, after); err != nil {
		return EmployeeDeductionResponse{}, err
	}

	return after, nil
}

func (s *service) GetBindingsByEmployee(
	ctx context.Context,
	companyID, employeeID string,
) ([]EmployeeDeductionResponse, error) {
	bindings, err := s.repo.FindBindingsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeDeductionResponse, len(bindings))
	for i, binding := range bindings {
		resp[i] = mapBindingToResponse(binding)
	}
	return resp, nil
}

// enqueueChangeEvent records a catalog or binding mutation on the outbox with
// its before/after snapshots.
func (s *service) enqueueChangeEvent(
	ctx context.Context,
	entity, entityID, companyID, action, actorID string,
	before, after any,
) error {
	event, err := kafka.NewEvent(entity, entityID, "deduction.changed",
		events.DeductionChangedTopic, events.DeductionChangedEvent{
			EventType:  "deduction.changed",
			Entity:     entity,
			EntityID:   entityID,
			CompanyID:  companyID,
			Action:     action,
			ActorID:    actorID,
			Before:     before,
			After:      after,
			OccurredAt: time.Now().UTC(),
		})
	if err != nil {
		return err
	}
	return s.outbox.Create(ctx, event)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_company_code" {
			return deductionerrors.ErrDeductionCodeExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_company_code") {
		return deductionerrors.ErrDeductionCodeExists
	}

	return err
}

func mapTypeToResponse(dtype DeductionType) DeductionTypeResponse {
	return DeductionTypeResponse{
		ID:        dtype.ID.String(),
		CompanyID: dtype.CompanyID.String(),
		Code:      dtype.Code,
		Name:      dtype.Name,
		Category:  dtype.Category,
		CalcKind:  dtype.CalcKind,
		CalcBase:  dtype.CalcBase,
		Rate:      dtype.Rate.String(),
		Amount:    dtype.Amount,
		PeriodCap: dtype.PeriodCap,
		AnnualCap: dtype.AnnualCap,
		PreTax:    dtype.PreTax,
		Mandatory: dtype.Mandatory,
		Priority:  dtype.Priority,
		Active:    dtype.Active,
	}
}

func mapBindingToResponse(binding EmployeeDeduction) EmployeeDeductionResponse {
	resp := EmployeeDeductionResponse{
		ID:                 binding.ID.String(),
		EmployeeID:         binding.EmployeeID.String(),
		DeductionTypeID:    binding.DeductionTypeID.String(),
		EffectiveFrom:      binding.EffectiveFrom.Format("2006-01-02"),
		CumulativeTarget:   binding.CumulativeTarget,
		CumulativeDeducted: binding.CumulativeDeducted,
		AmountOverride:     binding.AmountOverride,
		Active:             binding.Active,
	}

	if binding.DeductionType != nil {
		resp.Code = binding.DeductionType.Code
	}
	if binding.EffectiveTo != nil {
		v := binding.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	if binding.RateOverride != nil {
		v := binding.RateOverride.String()
		resp.RateOverride = &v
	}

	return resp
}
