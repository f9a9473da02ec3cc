package status

import "fmt"

// transitions is the legal-transition graph. The key is the current status,
// the value is the set of statuses reachable from it. Terminal statuses map
// to an empty set.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPlaced, StatusCancelled},
	StatusPlaced:    {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusArrived, StatusCancelled},
	StatusArrived:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IllegalTransitionError reports a requested transition that is not an edge
// of the transition graph. From and To are kept so callers can explain the
// rejection to a human.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s→%s", e.From, e.To)
}

// CanTransition reports whether requested is reachable from current in one
// step. A self-transition is never allowed.
func CanTransition(current, requested Status) bool {
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}

	return false
}

// Validate returns nil if the transition from current to requested is legal,
// and an *IllegalTransitionError otherwise. Re-requesting the current status
// is denied like any other illegal edge; callers wanting idempotent semantics
// must detect "already in this state" themselves.
func Validate(current, requested Status) error {
	if !CanTransition(current, requested) {
		return &IllegalTransitionError{From: current, To: requested}
	}

	return nil
}
