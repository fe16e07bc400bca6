package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// RequestSource lists requests whose last update predates a cutoff.
type RequestSource interface {
	List(ctx context.Context, filter requests.Filter) ([]requests.Request, int64, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, intents []workflow.NotificationIntent)
}

type AdminDirectory interface {
	AdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Scheduler periodically nudges whoever owns the next move on a stalled
// request: admins for submitted requests nobody has claimed, the assigned
// designer for work sitting in in_design or changes_requested.
type Scheduler struct {
	source   RequestSource
	notifier Dispatcher
	admins   AdminDirectory
	logger   *zap.Logger
	maxAge   time.Duration
	cron     *cron.Cron
}

func NewScheduler(source RequestSource, notifier Dispatcher, admins AdminDirectory, maxAge time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		source:   source,
		notifier: notifier,
		admins:   admins,
		logger:   logger,
		maxAge:   maxAge,
		cron:     cron.New(),
	}
}

// Start registers the sweep on the given cron spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("reminder scheduler started", zap.String("spec", spec))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep runs one pass over stalled requests.
func (s *Scheduler) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.maxAge)
	stale, _, err := s.source.List(ctx, requests.Filter{
		Statuses: []workflow.Status{
			workflow.StatusSubmitted,
			workflow.StatusInDesign,
			workflow.StatusChangesRequested,
		},
		UpdatedBefore: &cutoff,
	})
	if err != nil {
		return fmt.Errorf("failed to list stalled requests: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	adminIDs, err := s.admins.AdminIDs(ctx)
	if err != nil {
		s.logger.Warn("failed to resolve admins for reminders", zap.Error(err))
	}

	var intents []workflow.NotificationIntent
	for _, req := range stale {
		intents = append(intents, s.intentsFor(req, adminIDs)...)
	}
	if len(intents) == 0 {
		return nil
	}

	s.notifier.Dispatch(ctx, intents)
	s.logger.Info("reminders dispatched",
		zap.Int("stale_requests", len(stale)),
		zap.Int("intents", len(intents)))
	return nil
}

func (s *Scheduler) intentsFor(req requests.Request, adminIDs []uuid.UUID) []workflow.NotificationIntent {
	switch req.Status {
	case workflow.StatusSubmitted:
		intents := make([]workflow.NotificationIntent, 0, len(adminIDs))
		for _, adminID := range adminIDs {
			intents = append(intents, workflow.NotificationIntent{
				RecipientID: adminID,
				Kind:        workflow.KindReminder,
				Title:       "Unassigned request",
				Message:     fmt.Sprintf("Request %s is still waiting for a designer.", req.Code),
				RequestID:   req.ID,
			})
		}
		return intents
	case workflow.StatusInDesign, workflow.StatusChangesRequested:
		if req.DesignerID == nil {
			return nil
		}
		return []workflow.NotificationIntent{{
			RecipientID: *req.DesignerID,
			Kind:        workflow.KindReminder,
			Title:       "Stalled request",
			Message:     fmt.Sprintf("Request %s has not moved recently.", req.Code),
			RequestID:   req.ID,
		}}
	}
	return nil
}
