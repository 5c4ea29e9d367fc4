package wageadvance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	wageadvanceerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeServiceRepository struct {
	wageadvance.Repository

	advance *wageadvance.WageAdvance
	created *wageadvance.WageAdvance
	updated *wageadvance.WageAdvance
}

func (f *fakeServiceRepository) Create(_ context.Context, advance *wageadvance.WageAdvance) error {
	f.created = advance
	return nil
}

func (f *fakeServiceRepository) FindByIDAndCompany(_ context.Context, _, _ string) (*wageadvance.WageAdvance, error) {
	return f.advance, nil
}

func (f *fakeServiceRepository) FindOutstandingByEmployee(_ context.Context, _, _ string) ([]wageadvance.WageAdvance, error) {
	return nil, nil
}

func (f *fakeServiceRepository) Update(_ context.Context, advance *wageadvance.WageAdvance) error {
	f.updated = advance
	return nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func (f *fakeOutboxRepository) lastStatusEvent(t *testing.T) events.WageAdvanceStatusChangedEvent {
	t.Helper()
	assert.NotEmpty(t, f.events)
	last := f.events[len(f.events)-1]
	assert.Equal(t, "wage_advance.status_changed", last.EventType)
	assert.Equal(t, events.WageAdvanceStatusChangedTopic, last.Topic)

	var payload events.WageAdvanceStatusChangedEvent
	assert.NoError(t, json.Unmarshal(last.Payload, &payload))
	return payload
}

func pendingAdvance(companyID uuid.UUID) *wageadvance.WageAdvance {
	return &wageadvance.WageAdvance{
		ID:              uuid.New(),
		CompanyID:       companyID,
		EmployeeID:      uuid.New(),
		RequestedAmount: 50_000,
		Status:          wageadvance.StatusPending,
		RequestedBy:     uuid.New(),
	}
}

func TestWageAdvanceService_Request_EmitsStatusEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	repo := &fakeServiceRepository{}
	outbox := &fakeOutboxRepository{}
	service := wageadvance.NewService(nil, repo, outbox)

	resp, err := service.Request(ctx, companyID, actorID, wageadvance.RequestAdvanceRequest{
		EmployeeID: uuid.New().String(),
		Amount:     50_000,
		Reason:     "school fees",
	})

	assert.NoError(t, err)
	assert.Equal(t, wageadvance.StatusPending, resp.Status)
	assert.NotNil(t, repo.created)

	payload := outbox.lastStatusEvent(t)
	assert.Equal(t, repo.created.ID.String(), payload.AdvanceID)
	assert.Equal(t, "", payload.FromStatus)
	assert.Equal(t, wageadvance.StatusPending, payload.ToStatus)
	assert.Equal(t, actorID, payload.ActorID)
}

func TestWageAdvanceService_Approve_EmitsStatusEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	repo := &fakeServiceRepository{advance: pendingAdvance(companyID)}
	outbox := &fakeOutboxRepository{}
	service := wageadvance.NewService(nil, repo, outbox)

	resp, err := service.Approve(ctx, companyID.String(), actorID, repo.advance.ID.String(),
		wageadvance.ApproveAdvanceRequest{ApprovedAmount: 40_000, InstallmentCount: 4})

	assert.NoError(t, err)
	assert.Equal(t, wageadvance.StatusApproved, resp.Status)

	payload := outbox.lastStatusEvent(t)
	assert.Equal(t, wageadvance.StatusPending, payload.FromStatus)
	assert.Equal(t, wageadvance.StatusApproved, payload.ToStatus)
	assert.Equal(t, actorID, payload.ActorID)
	assert.Equal(t, repo.advance.EmployeeID.String(), payload.EmployeeID)
}

func TestWageAdvanceService_Reject_EmitsStatusEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	repo := &fakeServiceRepository{advance: pendingAdvance(companyID)}
	outbox := &fakeOutboxRepository{}
	service := wageadvance.NewService(nil, repo, outbox)

	resp, err := service.Reject(ctx, companyID.String(), actorID, repo.advance.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, wageadvance.StatusRejected, resp.Status)

	payload := outbox.lastStatusEvent(t)
	assert.Equal(t, wageadvance.StatusPending, payload.FromStatus)
	assert.Equal(t, wageadvance.StatusRejected, payload.ToStatus)
	assert.Equal(t, actorID, payload.ActorID)
}

func TestWageAdvanceService_Disburse_EmitsStatusEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	advance := pendingAdvance(companyID)
	advance.Status = wageadvance.StatusApproved
	advance.ApprovedAmount = 50_000

	repo := &fakeServiceRepository{advance: advance}
	outbox := &fakeOutboxRepository{}
	service := wageadvance.NewService(nil, repo, outbox)

	resp, err := service.Disburse(ctx, companyID.String(), actorID, advance.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, wageadvance.StatusDisbursed, resp.Status)

	payload := outbox.lastStatusEvent(t)
	assert.Equal(t, wageadvance.StatusApproved, payload.FromStatus)
	assert.Equal(t, wageadvance.StatusDisbursed, payload.ToStatus)
	assert.Equal(t, actorID, payload.ActorID)
}

func TestWageAdvanceService_Disburse_RequiresApproval(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	repo := &fakeServiceRepository{advance: pendingAdvance(companyID)}
	outbox := &fakeOutboxRepository{}
	service := wageadvance.NewService(nil, repo, outbox)

	_, err := service.Disburse(ctx, companyID.String(), uuid.New().String(), repo.advance.ID.String())

	assert.ErrorIs(t, err, wageadvanceerrors.ErrInvalidAdvanceState)
	assert.Empty(t, outbox.events)
}
