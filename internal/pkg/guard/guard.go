// Package guard lets value objects and aggregates detect zero-value construction.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in domain types whose invariants are established
// by a constructor. A zero-value guard fails validation.
//
//	type Item struct {
//	    name     string
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewItem(name string, quantity int) (*Item, error) {
//	    ...
//	    return &Item{name: name, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (i *Item) Validate() error {
//	    return i.guard.Validate(ErrItemIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError, or ErrDefaultConstructorGuard when it is nil,
// if the guard was not created via NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
