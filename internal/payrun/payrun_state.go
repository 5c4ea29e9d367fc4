package payrun

// transitions is the full lifecycle. CALCULATING may fall back to DRAFT when a
// pass fails wholesale, or re-enter itself so a stranded run can be retried;
// PENDING_REVIEW may loop back through CALCULATING for a recalculation.
// CANCELLED is reachable from every non-terminal status; a cancel during
// CALCULATING takes effect at the processor barrier, never mid-flight.
// COMPLETED and CANCELLED are terminal.
var transitions = map[string][]string{
	StatusDraft:         {StatusCalculating, StatusCancelled},
	StatusCalculating:   {StatusCalculating, StatusPendingReview, StatusDraft, StatusCancelled},
	StatusPendingReview: {StatusApproved, StatusCalculating, StatusCancelled},
	StatusApproved:      {StatusCompleted, StatusCancelled},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// CanTransition reports whether a run may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}
