package comments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, comment *Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Comment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Comment), args.Error(1)
}

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Get(ctx context.Context, id uuid.UUID) (*requests.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requests.Request), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, intents []workflow.NotificationIntent) {
	m.Called(ctx, intents)
}

func assignedRequest(requesterID, designerID uuid.UUID) *requests.Request {
	return &requests.Request{
		ID:          uuid.New(),
		Code:        "DR-2026-0003",
		Title:       "Event banner",
		Status:      workflow.StatusInDesign,
		Priority:    workflow.PriorityMedium,
		RequesterID: requesterID,
		DesignerID:  &designerID,
	}
}

func TestDesignerCommentNotifiesRequester(t *testing.T) {
	repo := new(MockRepository)
	lookup := new(MockLookup)
	notifier := new(MockDispatcher)
	service := NewService(repo, lookup, notifier, zap.NewNop())

	requesterID := uuid.New()
	designerID := uuid.New()
	req := assignedRequest(requesterID, designerID)

	lookup.On("Get", mock.Anything, req.ID).Return(req, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*comments.Comment")).Return(nil)

	var dispatched []workflow.NotificationIntent
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).([]workflow.NotificationIntent)
		})

	comment, err := service.Add(context.Background(),
		workflow.Actor{ID: designerID, Role: workflow.RoleDesigner}, req.ID, "First draft attached.")

	assert.NoError(t, err)
	assert.Equal(t, designerID, comment.AuthorID)
	assert.Len(t, dispatched, 1)
	assert.Equal(t, requesterID, dispatched[0].RecipientID)
	assert.Equal(t, workflow.KindComment, dispatched[0].Kind)
}

func TestRequesterFeedbackNotifiesDesigner(t *testing.T) {
	repo := new(MockRepository)
	lookup := new(MockLookup)
	notifier := new(MockDispatcher)
	service := NewService(repo, lookup, notifier, zap.NewNop())

	requesterID := uuid.New()
	designerID := uuid.New()
	req := assignedRequest(requesterID, designerID)

	lookup.On("Get", mock.Anything, req.ID).Return(req, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*comments.Comment")).Return(nil)

	var dispatched []workflow.NotificationIntent
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).([]workflow.NotificationIntent)
		})

	_, err := service.Add(context.Background(),
		workflow.Actor{ID: requesterID, Role: workflow.RoleRequester}, req.ID, "Please use the darker palette.")

	assert.NoError(t, err)
	assert.Len(t, dispatched, 1)
	assert.Equal(t, designerID, dispatched[0].RecipientID)
	assert.Equal(t, workflow.KindFeedback, dispatched[0].Kind)
}

func TestOutsiderCannotComment(t *testing.T) {
	repo := new(MockRepository)
	lookup := new(MockLookup)
	notifier := new(MockDispatcher)
	service := NewService(repo, lookup, notifier, zap.NewNop())

	req := assignedRequest(uuid.New(), uuid.New())
	lookup.On("Get", mock.Anything, req.ID).Return(req, nil)

	_, err := service.Add(context.Background(),
		workflow.Actor{ID: uuid.New(), Role: workflow.RoleRequester}, req.ID, "Looks great")

	assert.Equal(t, workflow.CodeAccessDenied, workflow.CodeOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestBlankBodyRejected(t *testing.T) {
	repo := new(MockRepository)
	lookup := new(MockLookup)
	notifier := new(MockDispatcher)
	service := NewService(repo, lookup, notifier, zap.NewNop())

	_, err := service.Add(context.Background(),
		workflow.Actor{ID: uuid.New(), Role: workflow.RoleAdmin}, uuid.New(), "   ")

	assert.Error(t, err)
	lookup.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
