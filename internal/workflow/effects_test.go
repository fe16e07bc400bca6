package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSelfAssignmentEffects(t *testing.T) {
	requester := uuid.New()
	designer := uuid.New()
	snap := snapshot(StatusSubmitted, requester, nil)

	next, intents := Apply(snap, Actor{ID: designer, Role: RoleDesigner}, AssignDesigner{DesignerID: designer}, nil, frozen)

	require.NotNil(t, next.DesignerID)
	assert.Equal(t, designer, *next.DesignerID)
	assert.Equal(t, StatusAssigned, next.Status)

	require.Len(t, intents, 1)
	assert.Equal(t, requester, intents[0].RecipientID)
	assert.Equal(t, KindAssignment, intents[0].Kind)
	assert.Equal(t, snap.ID, intents[0].RequestID)
}

func TestAdminAssignmentPromotesSubmitted(t *testing.T) {
	snap := snapshot(StatusSubmitted, uuid.New(), nil)
	designer := uuid.New()

	next, intents := Apply(snap, Actor{ID: uuid.New(), Role: RoleAdmin}, AssignDesigner{DesignerID: designer}, nil, frozen)

	assert.Equal(t, StatusAssigned, next.Status)
	assert.Equal(t, designer, *next.DesignerID)
	assert.Len(t, intents, 1)
}

func TestReassignmentIsSilent(t *testing.T) {
	previous := uuid.New()
	snap := snapshot(StatusInDesign, uuid.New(), ptr(previous))
	replacement := uuid.New()

	next, intents := Apply(snap, Actor{ID: uuid.New(), Role: RoleAdmin}, AssignDesigner{DesignerID: replacement}, nil, frozen)

	assert.Equal(t, replacement, *next.DesignerID)
	assert.Equal(t, StatusInDesign, next.Status)
	assert.Empty(t, intents, "only the null-to-set edge notifies")
}

func TestDesignerCompletesRequest(t *testing.T) {
	requester := uuid.New()
	designer := uuid.New()
	snap := snapshot(StatusInReview, requester, ptr(designer))

	next, intents := Apply(snap, Actor{ID: designer, Role: RoleDesigner}, ChangeStatus{Target: StatusCompleted}, nil, frozen)

	assert.Equal(t, StatusCompleted, next.Status)
	require.Len(t, intents, 1)
	assert.Equal(t, requester, intents[0].RecipientID)
	assert.Equal(t, KindStatusChange, intents[0].Kind)
	assert.Equal(t, "Completed", intents[0].Title)
}

func TestRequesterPublishes(t *testing.T) {
	requester := uuid.New()
	designer := uuid.New()
	snap := snapshot(StatusReadyToPublish, requester, ptr(designer))

	next, intents := Apply(snap, Actor{ID: requester, Role: RoleRequester},
		ChangeStatus{Target: StatusPublished, PublishedLink: "https://x.com/a"}, nil, frozen)

	assert.Equal(t, StatusPublished, next.Status)
	require.NotNil(t, next.PublishedLink)
	assert.Equal(t, "https://x.com/a", *next.PublishedLink)
	require.NotNil(t, next.PublishedAt)
	assert.Equal(t, frozen, *next.PublishedAt)

	require.Len(t, intents, 1)
	assert.Equal(t, designer, intents[0].RecipientID)
	assert.Equal(t, KindStatusChange, intents[0].Kind)
	assert.Equal(t, "Published! 🎉", intents[0].Title)
}

func TestPublishedLinkTrimmed(t *testing.T) {
	requester := uuid.New()
	snap := snapshot(StatusCompleted, requester, ptr(uuid.New()))

	next, _ := Apply(snap, Actor{ID: requester, Role: RoleRequester},
		ChangeStatus{Target: StatusPublished, PublishedLink: "  https://x.com/a  "}, nil, frozen)

	assert.Equal(t, "https://x.com/a", *next.PublishedLink)
}

func TestInReviewFansOutToAdmins(t *testing.T) {
	requester := uuid.New()
	designer := uuid.New()
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	snap := snapshot(StatusInDesign, requester, ptr(designer))

	_, intents := Apply(snap, Actor{ID: designer, Role: RoleDesigner}, ChangeStatus{Target: StatusInReview}, admins, frozen)

	require.Len(t, intents, 3)
	assert.Equal(t, requester, intents[0].RecipientID)
	for i, adminID := range admins {
		assert.Equal(t, adminID, intents[i+1].RecipientID)
		assert.Contains(t, intents[i+1].Message, "ready for your approval")
	}
}

func TestNoSelfNotificationOnReview(t *testing.T) {
	// A designer who also filed the request gets no status_change for their
	// own move, but the admin fan-out still fires.
	actorID := uuid.New()
	admins := []uuid.UUID{uuid.New()}
	snap := snapshot(StatusInDesign, actorID, ptr(actorID))

	_, intents := Apply(snap, Actor{ID: actorID, Role: RoleDesigner}, ChangeStatus{Target: StatusInReview}, admins, frozen)

	require.Len(t, intents, 1)
	assert.Equal(t, admins[0], intents[0].RecipientID)
}

func TestAdminTransitionsEmitNothing(t *testing.T) {
	snap := snapshot(StatusSubmitted, uuid.New(), nil)

	_, intents := Apply(snap, Actor{ID: uuid.New(), Role: RoleAdmin}, ChangeStatus{Target: StatusArchived}, nil, frozen)

	assert.Empty(t, intents)
}

func TestPublishedLinkSurvivesReview(t *testing.T) {
	link := "https://x.com/a"
	publishedAt := frozen.Add(-24 * time.Hour)
	snap := snapshot(StatusPublished, uuid.New(), ptr(uuid.New()))
	snap.PublishedLink = &link
	snap.PublishedAt = &publishedAt

	next, _ := Apply(snap, Actor{ID: uuid.New(), Role: RoleAdmin}, ChangeStatus{Target: StatusArchived}, nil, frozen)

	assert.Equal(t, &link, next.PublishedLink)
	assert.Equal(t, &publishedAt, next.PublishedAt)
}

func TestApplyPanicsOnMissingLink(t *testing.T) {
	requester := uuid.New()
	snap := snapshot(StatusReadyToPublish, requester, ptr(uuid.New()))

	assert.Panics(t, func() {
		Apply(snap, Actor{ID: requester, Role: RoleRequester}, ChangeStatus{Target: StatusPublished, PublishedLink: "   "}, nil, frozen)
	})
}

func TestApplyPanicsOnUnknownStatus(t *testing.T) {
	snap := snapshot(StatusDraft, uuid.New(), nil)

	assert.Panics(t, func() {
		Apply(snap, Actor{ID: uuid.New(), Role: RoleAdmin}, ChangeStatus{Target: Status("bogus")}, nil, frozen)
	})
}

func TestCommentIntents(t *testing.T) {
	requester := uuid.New()
	designer := uuid.New()

	t.Run("designer comment notifies requester", func(t *testing.T) {
		snap := snapshot(StatusInDesign, requester, ptr(designer))
		intents := CommentIntents(snap, Actor{ID: designer, Role: RoleDesigner})
		require.Len(t, intents, 1)
		assert.Equal(t, requester, intents[0].RecipientID)
		assert.Equal(t, KindComment, intents[0].Kind)
	})

	t.Run("requester comment notifies designer", func(t *testing.T) {
		snap := snapshot(StatusInDesign, requester, ptr(designer))
		intents := CommentIntents(snap, Actor{ID: requester, Role: RoleRequester})
		require.Len(t, intents, 1)
		assert.Equal(t, designer, intents[0].RecipientID)
		assert.Equal(t, KindFeedback, intents[0].Kind)
	})

	t.Run("requester comment with no designer is skipped", func(t *testing.T) {
		snap := snapshot(StatusSubmitted, requester, nil)
		intents := CommentIntents(snap, Actor{ID: requester, Role: RoleRequester})
		assert.Empty(t, intents)
	})
}
