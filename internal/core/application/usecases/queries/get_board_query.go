package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetBoardQueryIsNotConstructed = errors.New(
		"GetBoardQuery must be created via NewGetBoardQuery constructor",
	)
)

// GetBoardQuery asks for the inbox counters and alerts shown to one actor.
//
// Example:
//
//	query, err := NewGetBoardQuery(actor)
//	if err != nil {
//	    return err
//	}
//	board, err := handler.Handle(ctx, query)
//	fmt.Printf("%d waiting, %d alerts\n", board.Pending, len(board.Alerts))
type GetBoardQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

func NewGetBoardQuery(actor kernel.Actor) (GetBoardQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetBoardQuery{}, err
	}
	return GetBoardQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetBoardQueryIsNotConstructed)
}

func (q GetBoardQuery) Actor() kernel.Actor {
	return q.actor
}

// GetBoardQueryResponse is the actor's view of the board. Pending is the
// role's inbox size, or the number of live trips for a truck driver. Counts
// holds every role and is only filled for admins.
type GetBoardQueryResponse struct {
	Role        kernel.Role
	Pending     int
	Counts      map[kernel.Role]int
	Alerts      []services.Alert
	GeneratedAt time.Time
}
