package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) List(ctx context.Context, filter requests.Filter) ([]requests.Request, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]requests.Request), args.Get(1).(int64), args.Error(2)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, intents []workflow.NotificationIntent) {
	m.Called(ctx, intents)
}

type MockAdmins struct {
	mock.Mock
}

func (m *MockAdmins) AdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func TestSweepRemindsAdminsAboutUnassignedRequests(t *testing.T) {
	source := new(MockSource)
	notifier := new(MockDispatcher)
	admins := new(MockAdmins)
	scheduler := NewScheduler(source, notifier, admins, 48*time.Hour, zap.NewNop())

	adminIDs := []uuid.UUID{uuid.New(), uuid.New()}
	stale := []requests.Request{{
		ID:     uuid.New(),
		Code:   "DR-2026-0011",
		Status: workflow.StatusSubmitted,
	}}

	var captured requests.Filter
	source.On("List", mock.Anything, mock.AnythingOfType("requests.Filter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(requests.Filter)
		}).
		Return(stale, int64(1), nil)
	admins.On("AdminIDs", mock.Anything).Return(adminIDs, nil)

	var dispatched []workflow.NotificationIntent
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).([]workflow.NotificationIntent)
		})

	err := scheduler.Sweep(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, captured.UpdatedBefore)
	assert.Contains(t, captured.Statuses, workflow.StatusSubmitted)
	assert.Len(t, dispatched, 2)
	for _, intent := range dispatched {
		assert.Equal(t, workflow.KindReminder, intent.Kind)
		assert.Contains(t, adminIDs, intent.RecipientID)
	}
}

func TestSweepRemindsDesignerAboutStalledWork(t *testing.T) {
	source := new(MockSource)
	notifier := new(MockDispatcher)
	admins := new(MockAdmins)
	scheduler := NewScheduler(source, notifier, admins, 48*time.Hour, zap.NewNop())

	designerID := uuid.New()
	stale := []requests.Request{
		{ID: uuid.New(), Code: "DR-2026-0012", Status: workflow.StatusInDesign, DesignerID: &designerID},
		{ID: uuid.New(), Code: "DR-2026-0013", Status: workflow.StatusChangesRequested, DesignerID: &designerID},
	}

	source.On("List", mock.Anything, mock.Anything).Return(stale, int64(2), nil)
	admins.On("AdminIDs", mock.Anything).Return([]uuid.UUID{}, nil)

	var dispatched []workflow.NotificationIntent
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(1).([]workflow.NotificationIntent)
		})

	err := scheduler.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Len(t, dispatched, 2)
	assert.Equal(t, designerID, dispatched[0].RecipientID)
	assert.Equal(t, designerID, dispatched[1].RecipientID)
}

func TestSweepQuietWhenNothingStale(t *testing.T) {
	source := new(MockSource)
	notifier := new(MockDispatcher)
	admins := new(MockAdmins)
	scheduler := NewScheduler(source, notifier, admins, 48*time.Hour, zap.NewNop())

	source.On("List", mock.Anything, mock.Anything).Return([]requests.Request{}, int64(0), nil)

	err := scheduler.Sweep(context.Background())

	assert.NoError(t, err)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	admins.AssertNotCalled(t, "AdminIDs", mock.Anything)
}

func TestSweepPropagatesListFailure(t *testing.T) {
	source := new(MockSource)
	notifier := new(MockDispatcher)
	admins := new(MockAdmins)
	scheduler := NewScheduler(source, notifier, admins, 48*time.Hour, zap.NewNop())

	source.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), assert.AnError)

	err := scheduler.Sweep(context.Background())

	assert.Error(t, err)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}
