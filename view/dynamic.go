package view

import (
	"fmt"
	"slices"

	"github.com/Benny93/c4-go/model"
)

// DynamicView shows how elements collaborate at runtime through numbered
// interactions. The scope is a software system, a container, or nil for
// a landscape-level view.
type DynamicView struct {
	viewBase
	element  model.Element
	sequence *sequenceNumber
}

func newDynamicView(vs *ViewSet, scope model.Element, key, description string) (*DynamicView, error) {
	var system *model.SoftwareSystem
	switch s := scope.(type) {
	case nil:
	case *model.SoftwareSystem:
		system = s
	case *model.Container:
		system = s.SoftwareSystem()
	default:
		return nil, fmt.Errorf("%w: the scope of a dynamic view must be a software system or a container, not %s", ErrElementNotPermitted, describe(scope))
	}
	if scope != nil && !vs.model.Contains(scope) {
		return nil, fmt.Errorf("%w: %s", ErrElementNotInModel, describe(scope))
	}
	v := &DynamicView{
		viewBase: newViewBase(vs, key, description, system),
		element:  scope,
		sequence: newSequenceNumber(),
	}
	v.allowDuplicateRelationships = true
	return v, nil
}

// Type returns TypeDynamic.
func (v *DynamicView) Type() Type { return TypeDynamic }

// Element returns the scope, or nil.
func (v *DynamicView) Element() model.Element { return v.element }

// Name returns a display name derived from the scope.
func (v *DynamicView) Name() string {
	if v.element == nil {
		return "Dynamic"
	}
	return v.element.Name() + " - Dynamic"
}

// RelationshipViews returns the interactions sorted by order.
func (v *DynamicView) RelationshipViews() []*RelationshipView {
	out := slices.Clone(v.relationshipViews)
	slices.SortStableFunc(out, func(a, b *RelationshipView) int { return compareOrder(a.Order, b.Order) })
	return out
}

// Add records an interaction from source to destination. The model
// relationship is chosen in this order: a relationship from source to
// destination with the given description, then any relationship from
// source to destination, then a relationship from destination to source
// drawn as a response. A non-empty technology narrows every step. The
// description, when given, overrides the relationship's on this view.
func (v *DynamicView) Add(source, destination model.Element, description, technology string) (*RelationshipView, error) {
	if err := v.checkElementCanBeAdded(source); err != nil {
		return nil, err
	}
	if err := v.checkElementCanBeAdded(destination); err != nil {
		return nil, err
	}
	r, response, err := v.findRelationship(source, destination, description, technology)
	if err != nil {
		return nil, err
	}
	if _, err := v.addElement(source, false); err != nil {
		return nil, err
	}
	if _, err := v.addElement(destination, false); err != nil {
		return nil, err
	}
	if description == "" {
		description = r.Description()
	}
	rv := &RelationshipView{
		relationship: r,
		Description:  description,
		Order:        v.sequence.next(),
		Response:     response,
	}
	v.relationshipViews = append(v.relationshipViews, rv)
	return rv, nil
}

// ResumeNumbering continues numbering after the highest top-level order
// already present, so interactions added to a loaded view follow the
// stored ones.
func (v *DynamicView) ResumeNumbering() {
	orders := make([]string, 0, len(v.relationshipViews))
	for _, rv := range v.relationshipViews {
		orders = append(orders, rv.Order)
	}
	v.sequence.resumeAfter(orders)
}

// StartSubsequence nests the following interactions: after "1" they are
// numbered "1.1", "1.2", ...
func (v *DynamicView) StartSubsequence() { v.sequence.startSubsequence() }

// EndSubsequence returns to the enclosing numbering.
func (v *DynamicView) EndSubsequence() error { return v.sequence.endSubsequence() }

// StartParallelSequence starts a branch that reuses the current number.
func (v *DynamicView) StartParallelSequence() { v.sequence.startParallelSequence() }

// EndParallelSequence ends a branch. With continueNumbering the main
// sequence resumes after the branch; otherwise it resets to where the
// branch started, ready for the next branch.
func (v *DynamicView) EndParallelSequence(continueNumbering bool) error {
	return v.sequence.endParallelSequence(continueNumbering)
}

// Subsequence runs fn inside a subsequence.
func (v *DynamicView) Subsequence(fn func() error) error {
	v.StartSubsequence()
	err := fn()
	if endErr := v.EndSubsequence(); err == nil {
		err = endErr
	}
	return err
}

// ParallelSequence runs fn inside a parallel sequence.
func (v *DynamicView) ParallelSequence(continueNumbering bool, fn func() error) error {
	v.StartParallelSequence()
	err := fn()
	if endErr := v.EndParallelSequence(continueNumbering); err == nil {
		err = endErr
	}
	return err
}

func (v *DynamicView) checkElementCanBeAdded(e model.Element) error {
	if model.IsNil(e) {
		return fmt.Errorf("%w: %s", ErrElementNotInModel, describe(e))
	}
	if !e.Kind().IsStatic() {
		return fmt.Errorf("%w: only people, software systems, containers and components can be added to dynamic views", ErrElementNotPermitted)
	}
	if e.Kind() == model.KindPerson {
		return nil
	}
	switch scope := v.element.(type) {
	case *model.SoftwareSystem:
		if e.ID() == scope.ID() {
			return fmt.Errorf("%w: %s is already the scope of this view and cannot be added to it", ErrElementNotPermitted, e.Name())
		}
		if e.Kind() == model.KindComponent {
			return fmt.Errorf("%w: components can't be added to a dynamic view when the scope is a software system", ErrElementNotPermitted)
		}
		return v.checkParentAndChildrenNotInView(e)
	case *model.Container:
		if e.ID() == scope.ID() || e.ID() == scope.SoftwareSystem().ID() {
			return fmt.Errorf("%w: %s is already the scope of this view and cannot be added to it", ErrElementNotPermitted, e.Name())
		}
		return v.checkParentAndChildrenNotInView(e)
	default:
		if e.Kind() != model.KindSoftwareSystem {
			return fmt.Errorf("%w: only people and software systems can be added to this dynamic view", ErrElementNotPermitted)
		}
	}
	return nil
}

func (v *DynamicView) findRelationship(source, destination model.Element, description, technology string) (*model.Relationship, bool, error) {
	techOK := func(r *model.Relationship) bool { return technology == "" || r.Technology() == technology }

	var forward []*model.Relationship
	for _, r := range source.Relationships() {
		if r.DestinationID() == destination.ID() && techOK(r) {
			forward = append(forward, r)
		}
	}
	if description != "" {
		for _, r := range forward {
			if r.Description() == description {
				return r, false, nil
			}
		}
	}
	switch len(forward) {
	case 0:
	case 1:
		return forward[0], false, nil
	default:
		return nil, false, v.ambiguous(source, destination, description, technology, len(forward))
	}

	var backward []*model.Relationship
	for _, r := range destination.Relationships() {
		if r.DestinationID() == source.ID() && techOK(r) {
			backward = append(backward, r)
		}
	}
	switch len(backward) {
	case 0:
	case 1:
		return backward[0], true, nil
	default:
		return nil, false, v.ambiguous(destination, source, description, technology, len(backward))
	}

	if technology != "" {
		return nil, false, fmt.Errorf("%w: a relationship between %s and %s with technology '%s' does not exist in the model",
			ErrRelationshipNotFound, source.Name(), destination.Name(), technology)
	}
	return nil, false, fmt.Errorf("%w: a relationship between %s and %s does not exist in the model",
		ErrRelationshipNotFound, source.Name(), destination.Name())
}

func (v *DynamicView) ambiguous(source, destination model.Element, description, technology string, n int) error {
	return fmt.Errorf("%w: %d relationships from %s to %s match description '%s' and technology '%s'; specify a description or technology that matches exactly one",
		ErrAmbiguousRelationship, n, source.Name(), destination.Name(), description, technology)
}
