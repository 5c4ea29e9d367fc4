package wageadvance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	wageadvanceerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=wage_advance_service.go -destination=mock/wage_advance_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, companyID, actorID string, req RequestAdvanceRequest) (WageAdvanceResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ApproveAdvanceRequest) (WageAdvanceResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string) (WageAdvanceResponse, error)
	Disburse(ctx context.Context, companyID, actorID, id string) (WageAdvanceResponse, error)
	GetAll(ctx context.Context, companyID string) ([]WageAdvanceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (WageAdvanceResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]WageAdvanceResponse, error)
	GetRepayments(ctx context.Context, companyID, id string) ([]AdvanceRepaymentResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{db: db, repo: repo, outbox: outbox}
}

func (s *service) Request(
	ctx context.Context,
	companyID, actorID string,
	req RequestAdvanceRequest,
) (WageAdvanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return WageAdvanceResponse{}, errors.New("invalid company id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return WageAdvanceResponse{}, errors.New("invalid employee id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return WageAdvanceResponse{}, errors.New("invalid actor id")
	}

	if req.Amount <= 0 {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidAmount
	}

	outstanding, err := s.repo.FindOutstandingByEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		return WageAdvanceResponse{}, err
	}
	if len(outstanding) > 0 {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrOutstandingAdvance
	}

	advance := &WageAdvance{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		RequestedAmount:  req.Amount,
		InstallmentCount: 1,
		Status:           StatusPending,
		Reason:           req.Reason,
		RequestedBy:      actorUUID,
	}

	if err := s.repo.Create(ctx, advance); err != nil {
		return WageAdvanceResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, advance, "", actorID); err != nil {
		return WageAdvanceResponse{}, err
	}

	return mapToResponse(*advance), nil
}

func (s *service) Approve(
	ctx context.Context,
	companyID, actorID, id string,
	req ApproveAdvanceRequest,
) (WageAdvanceResponse, error) {
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return WageAdvanceResponse{}, errors.New("invalid actor id")
	}

	if req.InstallmentCount < 1 {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidInstallments
	}

	advance, err := s.find(ctx, companyID, id)
	if err != nil {
		return WageAdvanceResponse{}, err
	}
	if advance.Status != StatusPending {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidAdvanceState
	}

	approved := req.ApprovedAmount
	if approved == 0 {
		approved = advance.RequestedAmount
	}
	if approved <= 0 || approved > advance.RequestedAmount {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidAmount
	}

	now := time.Now().UTC()
	fromStatus := advance.Status
	advance.ApprovedAmount = approved
	advance.InstallmentCount = req.InstallmentCount
	advance.Status = StatusApproved
	advance.ApprovedBy = &approverUUID
	advance.ApprovedAt = &now

	if err := s.repo.Update(ctx, advance); err != nil {
		return WageAdvanceResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, advance, fromStatus, actorID); err != nil {
		return WageAdvanceResponse{}, err
	}

	return mapToResponse(*advance), nil
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string) (WageAdvanceResponse, error) {
	advance, err := s.find(ctx, companyID, id)
	if err != nil {
		return WageAdvanceResponse{}, err
	}
	if advance.Status != StatusPending {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidAdvanceState
	}

	fromStatus := advance.Status
	advance.Status = StatusRejected
	if err := s.repo.Update(ctx, advance); err != nil {
		return WageAdvanceResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, advance, fromStatus, actorID); err != nil {
		return WageAdvanceResponse{}, err
	}

	return mapToResponse(*advance), nil
}

func (s *service) Disburse(ctx context.Context, companyID, actorID, id string) (WageAdvanceResponse, error) {
	advance, err := s.find(ctx, companyID, id)
	if err != nil {
		return WageAdvanceResponse{}, err
	}
	if advance.Status != StatusApproved {
		return WageAdvanceResponse{}, wageadvanceerrors.ErrInvalidAdvanceState
	}

	now := time.Now().UTC()
	fromStatus := advance.Status
	advance.Status = StatusDisbursed
	advance.DisbursedAt = &now

	if err := s.repo.Update(ctx, advance); err != nil {
		return WageAdvanceResponse{}, err
	}
	if err := s.enqueueStatusEvent(ctx, advance, fromStatus, actorID); err != nil {
		return WageAdvanceResponse{}, err
	}

	return mapToResponse(*advance), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]WageAdvanceResponse, error) {
	advances, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(advances), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (WageAdvanceResponse, error) {
	advance, err := s.find(ctx, companyID, id)
	if err != nil {
		return WageAdvanceResponse{}, err
	}
	return mapToResponse(*advance), nil
}

func (s *service) GetByEmployee(
	ctx context.Context,
	companyID, employeeID string,
) ([]WageAdvanceResponse, error) {
	advances, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(advances), nil
}

func (s *service) GetRepayments(
	ctx context.Context,
	companyID, id string,
) ([]AdvanceRepaymentResponse, error) {
	if _, err := s.find(ctx, companyID, id); err != nil {
		return nil, err
	}

	repayments, err := s.repo.FindRepayments(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]AdvanceRepaymentResponse, len(repayments))
	for i, repayment := range repayments {
		resp[i] = AdvanceRepaymentResponse{
			ID:        repayment.ID.String(),
			AdvanceID: repayment.AdvanceID.String(),
			PayRunID:  repayment.PayRunID.String(),
			Amount:    repayment.Amount,
			CreatedAt: repayment.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) enqueueStatusEvent(
	ctx context.Context,
	advance *WageAdvance,
	fromStatus, actorID string,
) error {
	event, err := kafka.NewEvent("wage_advance", advance.ID.String(),
		"wage_advance.status_changed", events.WageAdvanceStatusChangedTopic,
		events.WageAdvanceStatusChangedEvent{
			EventType:  "wage_advance.status_changed",
			AdvanceID:  advance.ID.String(),
			CompanyID:  advance.CompanyID.String(),
			EmployeeID: advance.EmployeeID.String(),
			FromStatus: fromStatus,
			ToStatus:   advance.Status,
			ActorID:    actorID,
			OccurredAt: time.Now().UTC(),
		})
	if err != nil {
		return err
	}
	return s.outbox.Create(ctx, event)
}

func (s *service) find(ctx context.Context, companyID, id string) (*WageAdvance, error) {
	advance, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wageadvanceerrors.ErrAdvanceNotFound
		}
		return nil, err
	}
	return advance, nil
}

func mapToResponse(advance WageAdvance) WageAdvanceResponse {
	resp := WageAdvanceResponse{
		ID:               advance.ID.String(),
		CompanyID:        advance.CompanyID.String(),
		EmployeeID:       advance.EmployeeID.String(),
		RequestedAmount:  advance.RequestedAmount,
		ApprovedAmount:   advance.ApprovedAmount,
		InstallmentCount: advance.InstallmentCount,
		RepaidAmount:     advance.RepaidAmount,
		NextInstallment:  InstallmentFor(&advance),
		Status:           advance.Status,
		Reason:           advance.Reason,
		CreatedAt:        advance.CreatedAt.Format(time.RFC3339),
	}

	if advance.ApprovedBy != nil {
		v := advance.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if advance.ApprovedAt != nil {
		v := advance.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if advance.DisbursedAt != nil {
		v := advance.DisbursedAt.Format(time.RFC3339)
		resp.DisbursedAt = &v
	}

	return resp
}

func mapToListResponse(advances []WageAdvance) []WageAdvanceResponse {
	resp := make([]WageAdvanceResponse, len(advances))
	for i, advance := range advances {
		resp[i] = mapToResponse(advance)
	}
	return resp
}
