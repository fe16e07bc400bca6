package workflow

// Policy is the per-role request status transition table. Anything not
// listed is forbidden; legality is purely table-driven, statuses carry no
// implicit ordering.
type Policy struct {
	allowed map[Role]map[Status][]Status
}

// NewPolicy creates the policy table. The table is the single source of
// truth for transition legality and is regression-tested literally.
func NewPolicy() *Policy {
	return &Policy{
		allowed: map[Role]map[Status][]Status{
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
				// Only admins can resurrect an archived request.
				StatusArchived: {StatusDraft},
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
		},
	}
}

// CanTransition checks if role may move a request from one status to another.
func (p *Policy) CanTransition(role Role, from, to Status) bool {
	allowed, exists := p.allowed[role]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed[from] {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses role may move a request in the
// given status to. The result is a copy; mutating it does not touch the
// table.
func (p *Policy) AllowedTransitions(role Role, from Status) []Status {
	allowed, exists := p.allowed[role]
	if !exists {
		return []Status{}
	}
	out := make([]Status, len(allowed[from]))
	copy(out, allowed[from])
	return out
}
