package model

import "errors"

// Sentinel errors returned (wrapped) by Model operations. Use errors.Is to
// classify a failure; the wrapped message names the offending element,
// relationship or identifier.
var (
	// ErrDuplicateID is returned when an id is already used by an element
	// or a relationship of the same model.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDuplicateName is returned when an element name is already taken
	// within its scope.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotInModel is returned when an element is not registered with the
	// model it is being used against.
	ErrNotInModel = errors.New("element is not in the model")

	// ErrInvalidParent is returned when a child is attached to an element
	// that cannot contain it.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrEnvironmentMismatch is returned when a deployment element is placed
	// in a different deployment environment than its parent.
	ErrEnvironmentMismatch = errors.New("deployment environment mismatch")

	// ErrInvalidRelationship is returned for relationships without a source
	// or destination.
	ErrInvalidRelationship = errors.New("invalid relationship")
)
