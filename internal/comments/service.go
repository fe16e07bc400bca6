package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// RequestLookup resolves the request a comment targets.
type RequestLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*requests.Request, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, intents []workflow.NotificationIntent)
}

type Service interface {
	Add(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, body string) (*Comment, error)
	List(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]Comment, error)
}

type service struct {
	repo     Repository
	lookups  RequestLookup
	notifier Dispatcher
	logger   *zap.Logger
}

func NewService(repo Repository, lookups RequestLookup, notifier Dispatcher, logger *zap.Logger) Service {
	return &service{repo: repo, lookups: lookups, notifier: notifier, logger: logger}
}

func (s *service) Add(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}

	req, err := s.lookups.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, req); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        uuid.New(),
		RequestID: requestID,
		AuthorID:  actor.ID,
		Role:      actor.Role,
		Body:      body,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Delivery is best effort once the comment row exists.
	s.notifier.Dispatch(ctx, workflow.CommentIntents(req.Snapshot(), actor))

	s.logger.Info("comment added",
		zap.String("request_code", req.Code),
		zap.String("author_role", string(actor.Role)))
	return comment, nil
}

func (s *service) List(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]Comment, error) {
	req, err := s.lookups.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, req); err != nil {
		return nil, err
	}
	return s.repo.ListByRequest(ctx, requestID)
}

// requireParticipant limits discussion to the requester who filed the
// request, its assigned designer and admins.
func requireParticipant(actor workflow.Actor, req *requests.Request) error {
	switch actor.Role {
	case workflow.RoleAdmin:
		return nil
	case workflow.RoleRequester:
		if req.RequesterID == actor.ID {
			return nil
		}
	case workflow.RoleDesigner:
		if req.DesignerID != nil && *req.DesignerID == actor.ID {
			return nil
		}
	}
	return workflow.AccessDenied("you are not a participant on request %s", req.Code)
}
