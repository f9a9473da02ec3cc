package actor

import "errors"

// Actor is the role of the caller requesting a transition.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
)

var ErrInvalidActor = errors.New("invalid actor")

func (a Actor) String() string {
	return string(a)
}

func ParseActor(s string) (Actor, error) {
	switch s {
	case ActorAdmin.String():
		return ActorAdmin, nil
	case ActorCustomer.String():
		return ActorCustomer, nil
	default:
		return "", ErrInvalidActor
	}
}
