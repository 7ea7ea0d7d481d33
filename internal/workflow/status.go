// Package workflow implements the application status state machine and the
// transition engine that applies it.
package workflow

import "fmt"

// Status is an application lifecycle state.
type Status string

// Application statuses. The pipeline is deliberately loose: an admin may move
// an application between any two non-terminal states in any order. Only the
// terminal states are locked.
const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusShortlisted Status = "shortlisted"
	StatusInterviewed Status = "interviewed"
	StatusOffered     Status = "offered"
	StatusHired       Status = "hired"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusShortlisted,
	StatusInterviewed,
	StatusOffered,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CanTransition reports whether an application may move from one status to
// another. Any move out of a terminal state is refused; everything else
// between valid states is allowed.
func CanTransition(from, to Status) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	return !from.IsTerminal()
}

// InvalidTransitionError reports a refused status change. The stored status
// is untouched when this is returned.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}
