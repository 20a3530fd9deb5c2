package view

import "errors"

// Sentinel errors returned (wrapped) by view operations.
var (
	// ErrElementNotInModel is returned when an element or relationship is
	// not registered with the view's model.
	ErrElementNotInModel = errors.New("element does not exist in the model associated with this view")

	// ErrInvalidKey is returned when a view key is empty.
	ErrInvalidKey = errors.New("a key must be specified")

	// ErrDuplicateKey is returned when a view key is already in use.
	ErrDuplicateKey = errors.New("view already exists in workspace")

	// ErrElementNotPermitted is returned when an element kind cannot be
	// shown in a view, or clashes with the view's scope.
	ErrElementNotPermitted = errors.New("element cannot be added to this view")

	// ErrRelationshipNotFound is returned when a dynamic view interaction
	// matches no relationship in the model.
	ErrRelationshipNotFound = errors.New("relationship does not exist in the model")

	// ErrAmbiguousRelationship is returned when a dynamic view interaction
	// matches more than one relationship.
	ErrAmbiguousRelationship = errors.New("relationship is ambiguous")

	// ErrEmptyAnimation is returned when an animation step would be empty.
	ErrEmptyAnimation = errors.New("animation step has no elements")

	// ErrSequence is returned when a dynamic view sequence is closed
	// without being opened.
	ErrSequence = errors.New("no sequence to end")
)
