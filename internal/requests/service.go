package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Dispatcher forwards notification intents after a committed transition.
// Delivery is best effort; implementations must not fail the transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, intents []workflow.NotificationIntent)
}

// Auditor records committed workflow events on the append-only trail.
type Auditor interface {
	RecordTransition(ctx context.Context, req *Request, actor workflow.Actor, from, to workflow.Status)
	RecordAssignment(ctx context.Context, req *Request, actor workflow.Actor, designerID uuid.UUID)
}

// AdminDirectory resolves the current admin user set for review fan-out.
type AdminDirectory interface {
	AdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Service interface {
	Create(ctx context.Context, actor workflow.Actor, input CreateInput) (*Request, error)
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, filter Filter) ([]Request, int64, error)
	AllowedTransitions(ctx context.Context, actor workflow.Actor, id uuid.UUID) ([]workflow.Status, error)
	Transition(ctx context.Context, actor workflow.Actor, id uuid.UUID, target workflow.Status, publishedLink string) (*Request, error)
	AssignDesigner(ctx context.Context, actor workflow.Actor, id uuid.UUID, designerID uuid.UUID) (*Request, error)
	SetPriority(ctx context.Context, actor workflow.Actor, id uuid.UUID, priority workflow.Priority) (*Request, error)
}

// CreateInput describes a new request. Submit makes the first observable
// state submitted instead of draft. RequesterID is honored for admins only;
// requesters always file for themselves.
type CreateInput struct {
	Title       string
	Description string
	Priority    workflow.Priority
	Submit      bool
	RequesterID *uuid.UUID
}

type service struct {
	repo      Repository
	validator *workflow.Validator
	policy    *workflow.Policy
	notifier  Dispatcher
	auditor   Auditor
	admins    AdminDirectory
	logger    *zap.Logger
}

func NewService(repo Repository, policy *workflow.Policy, notifier Dispatcher, auditor Auditor, admins AdminDirectory, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		validator: workflow.NewValidator(policy),
		policy:    policy,
		notifier:  notifier,
		auditor:   auditor,
		admins:    admins,
		logger:    logger,
	}
}

func (s *service) Create(ctx context.Context, actor workflow.Actor, input CreateInput) (*Request, error) {
	if actor.Role == workflow.RoleDesigner {
		return nil, workflow.AccessDenied("designers do not file requests")
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = workflow.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", input.Priority)
	}

	requesterID := actor.ID
	if input.RequesterID != nil && actor.Role == workflow.RoleAdmin {
		requesterID = *input.RequesterID
	}

	status := workflow.StatusDraft
	if input.Submit {
		status = workflow.StatusSubmitted
	}

	req := &Request{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		RequesterID: requesterID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		year := time.Now().UTC().Year()
		n, err := tx.NextCodeNumber(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to allocate request code: %w", err)
		}
		req.Code = FormatCode(year, n)
		return tx.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request created",
		zap.String("code", req.Code),
		zap.String("status", string(req.Status)),
		zap.String("requester_id", requesterID.String()))
	return req, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, workflow.NotFound("request %s not found", id)
	}
	return req, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]Request, int64, error) {
	return s.repo.List(ctx, filter)
}

// AllowedTransitions reports which statuses the actor could move the request
// to right now, so a UI can render only legal actions. Out-of-scope actors
// get an empty set rather than a denial.
func (s *service) AllowedTransitions(ctx context.Context, actor workflow.Actor, id uuid.UUID) ([]workflow.Status, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case workflow.RoleRequester:
		if req.RequesterID != actor.ID {
			return []workflow.Status{}, nil
		}
	case workflow.RoleDesigner:
		if req.DesignerID == nil || *req.DesignerID != actor.ID {
			return []workflow.Status{}, nil
		}
	}

	return s.policy.AllowedTransitions(actor.Role, req.Status), nil
}

func (s *service) Transition(ctx context.Context, actor workflow.Actor, id uuid.UUID, target workflow.Status, publishedLink string) (*Request, error) {
	op := workflow.ChangeStatus{Target: target, PublishedLink: publishedLink}

	adminIDs := s.adminIDsForFanOut(ctx, actor, target)

	var updated *Request
	var intents []workflow.NotificationIntent
	var from workflow.Status

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		req, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return workflow.NotFound("request %s not found", id)
		}

		snap := req.Snapshot()
		if err := s.validator.Validate(actor, snap, op); err != nil {
			return err
		}

		next, out := workflow.Apply(snap, actor, op, adminIDs, time.Now().UTC())
		from = snap.Status
		req.applySnapshot(next)
		if err := tx.Update(ctx, req); err != nil {
			return err
		}

		updated = req
		intents = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	// State is committed; everything below is best effort.
	s.auditor.RecordTransition(ctx, updated, actor, from, updated.Status)
	s.notifier.Dispatch(ctx, intents)

	s.logger.Info("request transitioned",
		zap.String("code", updated.Code),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
		zap.String("actor_role", string(actor.Role)))
	return updated, nil
}

func (s *service) AssignDesigner(ctx context.Context, actor workflow.Actor, id uuid.UUID, designerID uuid.UUID) (*Request, error) {
	op := workflow.AssignDesigner{DesignerID: designerID}

	var updated *Request
	var intents []workflow.NotificationIntent

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		req, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return workflow.NotFound("request %s not found", id)
		}

		snap := req.Snapshot()
		if err := s.validator.Validate(actor, snap, op); err != nil {
			return err
		}

		next, out := workflow.Apply(snap, actor, op, nil, time.Now().UTC())
		req.applySnapshot(next)
		if err := tx.Update(ctx, req); err != nil {
			return err
		}

		updated = req
		intents = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditor.RecordAssignment(ctx, updated, actor, designerID)
	s.notifier.Dispatch(ctx, intents)

	s.logger.Info("designer assigned",
		zap.String("code", updated.Code),
		zap.String("designer_id", designerID.String()),
		zap.String("actor_role", string(actor.Role)))
	return updated, nil
}

func (s *service) SetPriority(ctx context.Context, actor workflow.Actor, id uuid.UUID, priority workflow.Priority) (*Request, error) {
	if actor.Role != workflow.RoleAdmin {
		return nil, workflow.AccessDenied("only admins may change priority")
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Priority = priority
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// adminIDsForFanOut resolves admin recipients ahead of the transaction; only
// a designer moving a request into review ever needs them. Lookup failures
// degrade to an empty fan-out rather than blocking the transition.
func (s *service) adminIDsForFanOut(ctx context.Context, actor workflow.Actor, target workflow.Status) []uuid.UUID {
	if actor.Role != workflow.RoleDesigner || target != workflow.StatusInReview {
		return nil
	}
	adminIDs, err := s.admins.AdminIDs(ctx)
	if err != nil {
		s.logger.Warn("failed to resolve admins for review fan-out", zap.Error(err))
		return nil
	}
	return adminIDs
}
