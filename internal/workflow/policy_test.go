package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// expectedTable is the literal transition table. Kept separate from the
// production table on purpose: a change to either side must show up here.
var expectedTable = map[Role]map[Status][]Status{
	RoleAdmin: {
		StatusDraft:            {StatusSubmitted, StatusArchived},
		StatusSubmitted:        {StatusAssigned, StatusArchived},
		StatusAssigned:         {StatusInDesign, StatusSubmitted, StatusArchived},
		StatusInDesign:         {StatusInReview, StatusAssigned, StatusArchived},
		StatusInReview:         {StatusChangesRequested, StatusReadyToPublish, StatusCompleted, StatusInDesign, StatusArchived},
		StatusChangesRequested: {StatusInDesign, StatusArchived},
		StatusReadyToPublish:   {StatusPublished, StatusInReview, StatusArchived},
		StatusCompleted:        {StatusPublished, StatusInReview, StatusArchived},
		StatusPublished:        {StatusArchived},
		StatusArchived:         {StatusDraft},
	},
	RoleDesigner: {
		StatusAssigned:         {StatusInDesign},
		StatusInDesign:         {StatusInReview},
		StatusInReview:         {StatusReadyToPublish, StatusCompleted, StatusChangesRequested},
		StatusChangesRequested: {StatusInDesign},
	},
	RoleRequester: {
		StatusDraft:          {StatusSubmitted},
		StatusInReview:       {StatusReadyToPublish, StatusChangesRequested},
		StatusReadyToPublish: {StatusPublished, StatusChangesRequested},
		StatusCompleted:      {StatusPublished},
	},
}

func TestTransitionTableMatchesLiteral(t *testing.T) {
	policy := NewPolicy()

	for _, role := range AllRoles {
		for _, from := range AllStatuses {
			got := policy.AllowedTransitions(role, from)
			want := expectedTable[role][from]
			assert.ElementsMatch(t, want, got, "role=%s from=%s", role, from)
		}
	}
}

func TestNoOrphanTransitions(t *testing.T) {
	policy := NewPolicy()

	for _, role := range AllRoles {
		for _, from := range AllStatuses {
			listed := make(map[Status]bool)
			for _, to := range expectedTable[role][from] {
				listed[to] = true
			}
			for _, to := range AllStatuses {
				assert.Equal(t, listed[to], policy.CanTransition(role, from, to),
					"role=%s from=%s to=%s", role, from, to)
			}
		}
	}
}

func TestUnknownRoleHasNoTransitions(t *testing.T) {
	policy := NewPolicy()

	assert.False(t, policy.CanTransition(Role("viewer"), StatusDraft, StatusSubmitted))
	assert.Empty(t, policy.AllowedTransitions(Role("viewer"), StatusDraft))
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	policy := NewPolicy()

	first := policy.AllowedTransitions(RoleDesigner, StatusInReview)
	for i := range first {
		first[i] = StatusArchived
	}

	second := policy.AllowedTransitions(RoleDesigner, StatusInReview)
	assert.ElementsMatch(t, []Status{StatusReadyToPublish, StatusCompleted, StatusChangesRequested}, second)
}

func TestArchivedExitOnlyForAdmin(t *testing.T) {
	policy := NewPolicy()

	assert.True(t, policy.CanTransition(RoleAdmin, StatusArchived, StatusDraft))
	for _, role := range []Role{RoleDesigner, RoleRequester} {
		for _, to := range AllStatuses {
			assert.False(t, policy.CanTransition(role, StatusArchived, to), "role=%s to=%s", role, to)
		}
	}
}
