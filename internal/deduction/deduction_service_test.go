package deduction_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/messaging/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeCatalogRepository struct {
	deduction.Repository

	dtype        *deduction.DeductionType
	createdType  *deduction.DeductionType
	updatedType  *deduction.DeductionType
	deletedType  string
	boundBinding *deduction.EmployeeDeduction
}

func (f *fakeCatalogRepository) CreateType(_ context.Context, dtype *deduction.DeductionType) error {
	f.createdType = dtype
	return nil
}

func (f *fakeCatalogRepository) FindTypeByID(_ context.Context, _, _ string) (*deduction.DeductionType, error) {
	return f.dtype, nil
}

func (f *fakeCatalogRepository) UpdateType(_ context.Context, dtype *deduction.DeductionType) error {
	f.updatedType = dtype
	return nil
}

func (f *fakeCatalogRepository) DeleteType(_ context.Context, _, id string) error {
	f.deletedType = id
	return nil
}

func (f *fakeCatalogRepository) CreateBinding(_ context.Context, binding *deduction.EmployeeDeduction) error {
	f.boundBinding = binding
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

func (f *fakeOutboxRepository) lastChangeEvent(t *testing.T) events.DeductionChangedEvent {
	t.Helper()
	assert.NotEmpty(t, f.events)
	last := f.events[len(f.events)-1]
	assert.Equal(t, "deduction.changed", last.EventType)
	assert.Equal(t, events.DeductionChangedTopic, last.Topic)

	var payload events.DeductionChangedEvent
	assert.NoError(t, json.Unmarshal(last.Payload, &payload))
	return payload
}

func catalogType(companyID uuid.UUID) *deduction.DeductionType {
	return &deduction.DeductionType{
		ID:        uuid.New(),
		CompanyID: companyID,
		Code:      "UNION_DUES",
		Name:      "Union Dues",
		Category:  deduction.CategoryVoluntary,
		CalcKind:  deduction.CalcKindFixed,
		CalcBase:  deduction.BaseGross,
		Amount:    5_000,
		Priority:  50,
		Active:    true,
	}
}

func TestDeductionService_CreateType_EmitsChangeEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	repo := &fakeCatalogRepository{}
	outbox := &fakeOutboxRepository{}
	service := deduction.NewService(nil, repo, outbox)

	resp, err := service.CreateType(ctx, companyID, actorID, deduction.CreateDeductionTypeRequest{
		Code:     "union_dues",
		Name:     "Union Dues",
		Category: deduction.CategoryVoluntary,
		CalcKind: deduction.CalcKindFixed,
		Amount:   5_000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "UNION_DUES", resp.Code)
	assert.NotNil(t, repo.createdType)

	payload := outbox.lastChangeEvent(t)
	assert.Equal(t, "deduction_type", payload.Entity)
	assert.Equal(t, repo.createdType.ID.String(), payload.EntityID)
	assert.Equal(t, "created", payload.Action)
	assert.Equal(t, actorID, payload.ActorID)
	assert.Nil(t, payload.Before)
	assert.NotNil(t, payload.After)
}

func TestDeductionService_UpdateType_EmitsBeforeAndAfter(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	repo := &fakeCatalogRepository{dtype: catalogType(companyID)}
	outbox := &fakeOutboxRepository{}
	service := deduction.NewService(nil, repo, outbox)

	resp, err := service.UpdateType(ctx, companyID.String(), actorID, repo.dtype.ID.String(),
		deduction.UpdateDeductionTypeRequest{Name: "Union Dues 2026", Amount: 6_000, Active: true})

	assert.NoError(t, err)
	assert.Equal(t, "Union Dues 2026", resp.Name)

	payload := outbox.lastChangeEvent(t)
	assert.Equal(t, "updated", payload.Action)
	assert.Equal(t, actorID, payload.ActorID)

	before, ok := payload.Before.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Union Dues", before["name"])
	after, ok := payload.After.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Union Dues 2026", after["name"])
}

func TestDeductionService_DeleteType_EmitsBeforeSnapshot(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	repo := &fakeCatalogRepository{dtype: catalogType(companyID)}
	outbox := &fakeOutboxRepository{}
	service := deduction.NewService(nil, repo, outbox)

	err := service.DeleteType(ctx, companyID.String(), actorID, repo.dtype.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, repo.dtype.ID.String(), repo.deletedType)

	payload := outbox.lastChangeEvent(t)
	assert.Equal(t, "deleted", payload.Action)
	assert.Equal(t, actorID, payload.ActorID)

	before, ok := payload.Before.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "UNION_DUES", before["code"])
	assert.Nil(t, payload.After)
}

func TestDeductionService_CreateBinding_EmitsChangeEvent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	actorID := uuid.New().String()

	repo := &fakeCatalogRepository{dtype: catalogType(companyID)}
	outbox := &fakeOutboxRepository{}
	service := deduction.NewService(nil, repo, outbox)

	resp, err := service.CreateBinding(ctx, companyID.String(), actorID,
		deduction.CreateEmployeeDeductionRequest{
			EmployeeID:      uuid.New().String(),
			DeductionTypeID: repo.dtype.ID.String(),
			EffectiveFrom:   "2026-02-01",
		})

	assert.NoError(t, err)
	assert.NotNil(t, repo.boundBinding)

	payload := outbox.lastChangeEvent(t)
	assert.Equal(t, "employee_deduction", payload.Entity)
	assert.Equal(t, resp.ID, payload.EntityID)
	assert.Equal(t, "created", payload.Action)
	assert.Equal(t, actorID, payload.ActorID)
}
