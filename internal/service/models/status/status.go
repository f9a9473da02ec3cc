package status

import (
	"database/sql/driver"
	"errors"
)

// Status is the lifecycle state of an order.
type Status string

// remember to add new statuses to the transitions table
const (
	StatusPending   Status = "pending"
	StatusPlaced    Status = "placed"
	StatusInTransit Status = "in_transit"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", ErrInvalidStatus
	}

	return s, nil
}

// Statuses returns every known status, in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusPlaced,
		StatusInTransit,
		StatusArrived,
		StatusCompleted,
		StatusCancelled,
	}
}
