package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, event *RequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]RequestEvent, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RequestEvent), args.Error(1)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, event *RequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockIndexer) Search(ctx context.Context, query string, size int) ([]RequestEvent, error) {
	args := m.Called(ctx, query, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RequestEvent), args.Error(1)
}

func sampleRequest() *requests.Request {
	return &requests.Request{
		ID:          uuid.New(),
		Code:        "DR-2026-0042",
		RequesterID: uuid.New(),
	}
}

func TestRecordTransitionPersistsAndIndexes(t *testing.T) {
	store := new(MockStore)
	indexer := new(MockIndexer)
	recorder := NewRecorder(store, indexer, zap.NewNop())

	req := sampleRequest()
	actor := workflow.Actor{ID: uuid.New(), Role: workflow.RoleDesigner}

	var saved *RequestEvent
	store.On("Create", mock.Anything, mock.AnythingOfType("*audit.RequestEvent")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*RequestEvent)
		}).
		Return(nil)
	indexer.On("Index", mock.Anything, mock.AnythingOfType("*audit.RequestEvent")).Return(nil)

	recorder.RecordTransition(context.Background(), req, actor,
		workflow.StatusInDesign, workflow.StatusInReview)

	assert.NotNil(t, saved)
	assert.Equal(t, EventTransition, saved.Kind)
	assert.Equal(t, req.Code, saved.RequestCode)
	assert.Equal(t, actor.ID, saved.ActorID)

	var detail transitionDetail
	assert.NoError(t, json.Unmarshal(saved.Detail, &detail))
	assert.Equal(t, workflow.StatusInDesign, detail.From)
	assert.Equal(t, workflow.StatusInReview, detail.To)
	indexer.AssertExpectations(t)
}

func TestRecordAssignmentDetail(t *testing.T) {
	store := new(MockStore)
	recorder := NewRecorder(store, nil, zap.NewNop())

	req := sampleRequest()
	designerID := uuid.New()

	var saved *RequestEvent
	store.On("Create", mock.Anything, mock.AnythingOfType("*audit.RequestEvent")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*RequestEvent)
		}).
		Return(nil)

	recorder.RecordAssignment(context.Background(), req,
		workflow.Actor{ID: uuid.New(), Role: workflow.RoleAdmin}, designerID)

	assert.Equal(t, EventAssignment, saved.Kind)

	var detail assignmentDetail
	assert.NoError(t, json.Unmarshal(saved.Detail, &detail))
	assert.Equal(t, designerID, detail.DesignerID)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := new(MockStore)
	indexer := new(MockIndexer)
	recorder := NewRecorder(store, indexer, zap.NewNop())

	store.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NotPanics(t, func() {
		recorder.RecordTransition(context.Background(), sampleRequest(),
			workflow.Actor{ID: uuid.New(), Role: workflow.RoleAdmin},
			workflow.StatusSubmitted, workflow.StatusArchived)
	})
	// A row that never persisted must not reach the index either.
	indexer.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
}

func TestRecordSwallowsIndexFailure(t *testing.T) {
	store := new(MockStore)
	indexer := new(MockIndexer)
	recorder := NewRecorder(store, indexer, zap.NewNop())

	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	indexer.On("Index", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NotPanics(t, func() {
		recorder.RecordAssignment(context.Background(), sampleRequest(),
			workflow.Actor{ID: uuid.New(), Role: workflow.RoleAdmin}, uuid.New())
	})
}

func TestSearchWithoutIndexerReturnsEmpty(t *testing.T) {
	recorder := NewRecorder(new(MockStore), nil, zap.NewNop())

	out, err := recorder.Search(context.Background(), "kind:transition", 10)

	assert.NoError(t, err)
	assert.Empty(t, out)
}
