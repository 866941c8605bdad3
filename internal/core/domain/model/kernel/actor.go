package kernel

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// AdminTitle is the history role recorded for administrative overrides.
const AdminTitle = "System Admin"

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor")

// Actor is the identity an operation is performed on behalf of. It is supplied
// by the identity provider and never persisted beyond audit entries.
type Actor struct {
	id          string
	displayName string
	role        Role
	isAdmin     bool
	guard       guard.ConstructorGuard
}

// NewActor builds an actor. The display name falls back to the id.
func NewActor(id, displayName string, role Role, isAdmin bool) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = id
	}

	return Actor{
		id:          id,
		displayName: displayName,
		role:        role,
		isAdmin:     isAdmin,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) DisplayName() string {
	return a.displayName
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.isAdmin
}

// Is reports whether the actor holds role r.
func (a Actor) Is(r Role) bool {
	return a.role == r
}
