package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Recorder appends workflow events to the trail. Failures are logged and
// swallowed; a committed transition is never undone because its record
// could not be written.
type Recorder struct {
	store   Store
	indexer Indexer
	logger  *zap.Logger
}

// NewRecorder builds a recorder. indexer may be nil when search mirroring
// is disabled.
func NewRecorder(store Store, indexer Indexer, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, indexer: indexer, logger: logger}
}

func (r *Recorder) RecordTransition(ctx context.Context, req *requests.Request, actor workflow.Actor, from, to workflow.Status) {
	detail, _ := json.Marshal(transitionDetail{From: from, To: to})
	r.record(ctx, &RequestEvent{
		RequestID:   req.ID,
		RequestCode: req.Code,
		Kind:        EventTransition,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Detail:      detail,
	})
}

func (r *Recorder) RecordAssignment(ctx context.Context, req *requests.Request, actor workflow.Actor, designerID uuid.UUID) {
	detail, _ := json.Marshal(assignmentDetail{DesignerID: designerID})
	r.record(ctx, &RequestEvent{
		RequestID:   req.ID,
		RequestCode: req.Code,
		Kind:        EventAssignment,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Detail:      detail,
	})
}

func (r *Recorder) record(ctx context.Context, event *RequestEvent) {
	if err := r.store.Create(ctx, event); err != nil {
		r.logger.Error("failed to record audit event",
			zap.String("request_code", event.RequestCode),
			zap.String("kind", event.Kind),
			zap.Error(err))
		return
	}

	if r.indexer == nil {
		return
	}
	if err := r.indexer.Index(ctx, event); err != nil {
		r.logger.Warn("failed to mirror audit event to search index",
			zap.String("request_code", event.RequestCode),
			zap.Error(err))
	}
}

func (r *Recorder) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]RequestEvent, error) {
	return r.store.ListByRequest(ctx, requestID)
}

func (r *Recorder) Search(ctx context.Context, query string, size int) ([]RequestEvent, error) {
	if r.indexer == nil {
		return []RequestEvent{}, nil
	}
	return r.indexer.Search(ctx, query, size)
}
