// Package view projects a model onto diagrams. A View holds element and
// relationship wrappers keyed by id; it never owns model items and only
// contains elements registered with its model.
//
// Views are created through a ViewSet, which enforces unique keys.
package view

import (
	"fmt"
	"slices"

	"github.com/Benny93/c4-go/model"
)

// Type names the kind of a view.
type Type string

// View types.
const (
	TypeSystemLandscape Type = "SystemLandscape"
	TypeSystemContext   Type = "SystemContext"
	TypeContainer       Type = "Container"
	TypeComponent       Type = "Component"
	TypeDeployment      Type = "Deployment"
	TypeDynamic         Type = "Dynamic"
)

// ElementView places an element on a view.
type ElementView struct {
	element model.Element
	X       int
	Y       int
}

// Element returns the wrapped element.
func (ev *ElementView) Element() model.Element { return ev.element }

// ID returns the id of the wrapped element.
func (ev *ElementView) ID() string { return ev.element.ID() }

// Vertex is a bend point on a relationship line.
type Vertex struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Routing algorithms for relationship lines.
const (
	RoutingDirect     = "Direct"
	RoutingCurved     = "Curved"
	RoutingOrthogonal = "Orthogonal"
)

// RelationshipView places a relationship on a view, with optional
// per-view overrides.
type RelationshipView struct {
	relationship *model.Relationship
	// Description overrides the relationship description on this view.
	Description string
	// Order is the interaction order on dynamic views, e.g. "1.2".
	Order string
	// Response marks an interaction drawn against the relationship's
	// direction.
	Response bool
	Vertices []Vertex
	Routing  string
	// Position of the description along the line, 0-100.
	Position *int
}

// Relationship returns the wrapped relationship.
func (rv *RelationshipView) Relationship() *model.Relationship { return rv.relationship }

// ID returns the id of the wrapped relationship.
func (rv *RelationshipView) ID() string { return rv.relationship.ID() }

func (rv *RelationshipView) copyLayoutInformationFrom(src *RelationshipView) {
	rv.Vertices = slices.Clone(src.Vertices)
	rv.Routing = src.Routing
	if src.Position != nil {
		p := *src.Position
		rv.Position = &p
	}
}

// AutomaticLayout asks the renderer to lay the view out.
type AutomaticLayout struct {
	RankDirection  string `json:"rankDirection" yaml:"rankDirection"`
	RankSeparation int    `json:"rankSeparation" yaml:"rankSeparation"`
	NodeSeparation int    `json:"nodeSeparation" yaml:"nodeSeparation"`
	EdgeSeparation int    `json:"edgeSeparation" yaml:"edgeSeparation"`
	Vertices       bool   `json:"vertices" yaml:"vertices"`
}

// Rank directions.
const (
	RankTopBottom = "TopBottom"
	RankBottomTop = "BottomTop"
	RankLeftRight = "LeftRight"
	RankRightLeft = "RightLeft"
)

// View is implemented by every diagram type except filtered views.
type View interface {
	Key() string
	Type() Type
	Name() string
	Description() string
	Title() string
	SetTitle(title string)
	PaperSize() string
	SetPaperSize(size string)
	AutomaticLayout() *AutomaticLayout
	SetAutomaticLayout(layout *AutomaticLayout)
	// SoftwareSystem returns the software system in scope, or nil.
	SoftwareSystem() *model.SoftwareSystem
	Model() *model.Model
	ViewSet() *ViewSet
	ElementViews() []*ElementView
	RelationshipViews() []*RelationshipView
	ElementView(e model.Element) *ElementView
	IsElementInView(e model.Element) bool
	IsRelationshipInView(r *model.Relationship) bool
	Animations() []Animation

	// RestoreElement adds an element without permission checks or
	// relationship expansion, for hydration from a document.
	RestoreElement(e model.Element, x, y int) (*ElementView, error)
	// RestoreRelationship adds a relationship view as stored in a document.
	RestoreRelationship(r *model.Relationship) (*RelationshipView, error)
	// RestoreAnimation appends a stored animation step.
	RestoreAnimation(a Animation)

	base() *viewBase
}

type viewBase struct {
	key             string
	description     string
	title           string
	paperSize       string
	automaticLayout *AutomaticLayout
	model           *model.Model
	softwareSystem  *model.SoftwareSystem
	viewSet         *ViewSet

	elementViews      []*ElementView
	elementIndex      map[string]*ElementView
	relationshipViews []*RelationshipView
	animations        []Animation

	// allowDuplicateRelationships lets a relationship appear more than once
	// (dynamic views show the same relationship at several orders).
	allowDuplicateRelationships bool
}

func newViewBase(vs *ViewSet, key, description string, system *model.SoftwareSystem) viewBase {
	return viewBase{
		key:            key,
		description:    description,
		model:          vs.model,
		softwareSystem: system,
		viewSet:        vs,
		elementIndex:   make(map[string]*ElementView),
	}
}

func (v *viewBase) base() *viewBase { return v }

// Key returns the unique key.
func (v *viewBase) Key() string { return v.key }

// Description returns the description.
func (v *viewBase) Description() string { return v.description }

// Title returns the title, empty when the renderer should derive one.
func (v *viewBase) Title() string { return v.title }

// SetTitle sets the title.
func (v *viewBase) SetTitle(title string) { v.title = title }

// PaperSize returns the paper size name.
func (v *viewBase) PaperSize() string { return v.paperSize }

// SetPaperSize sets the paper size name, e.g. "A4_Landscape".
func (v *viewBase) SetPaperSize(size string) { v.paperSize = size }

// AutomaticLayout returns the automatic layout settings, or nil.
func (v *viewBase) AutomaticLayout() *AutomaticLayout { return v.automaticLayout }

// SetAutomaticLayout sets or clears automatic layout.
func (v *viewBase) SetAutomaticLayout(layout *AutomaticLayout) { v.automaticLayout = layout }

// EnableAutomaticLayout turns on automatic layout with the usual
// separations.
func (v *viewBase) EnableAutomaticLayout(rankDirection string) {
	if rankDirection == "" {
		rankDirection = RankTopBottom
	}
	v.automaticLayout = &AutomaticLayout{
		RankDirection:  rankDirection,
		RankSeparation: 300,
		NodeSeparation: 600,
		EdgeSeparation: 200,
	}
}

// SoftwareSystem returns the software system in scope, or nil.
func (v *viewBase) SoftwareSystem() *model.SoftwareSystem { return v.softwareSystem }

// Model returns the model the view projects.
func (v *viewBase) Model() *model.Model { return v.model }

// ViewSet returns the owning view set.
func (v *viewBase) ViewSet() *ViewSet {
	if v.viewSet == nil {
		panic("view: view " + v.key + " is not part of a view set")
	}
	return v.viewSet
}

// ElementViews returns the element views in insertion order.
func (v *viewBase) ElementViews() []*ElementView { return slices.Clone(v.elementViews) }

// RelationshipViews returns the relationship views in insertion order.
func (v *viewBase) RelationshipViews() []*RelationshipView {
	return slices.Clone(v.relationshipViews)
}

// Animations returns the animation steps.
func (v *viewBase) Animations() []Animation {
	out := make([]Animation, len(v.animations))
	for i, a := range v.animations {
		out[i] = a.clone()
	}
	return out
}

// ElementView returns the wrapper for e, or nil.
func (v *viewBase) ElementView(e model.Element) *ElementView {
	if model.IsNil(e) {
		return nil
	}
	return v.elementIndex[e.ID()]
}

// IsElementInView reports whether e is on the view.
func (v *viewBase) IsElementInView(e model.Element) bool {
	return v.ElementView(e) != nil
}

// IsRelationshipInView reports whether r is on the view.
func (v *viewBase) IsRelationshipInView(r *model.Relationship) bool {
	return r != nil && v.relationshipView(r.ID()) != nil
}

func (v *viewBase) relationshipView(id string) *RelationshipView {
	for _, rv := range v.relationshipViews {
		if rv.relationship.ID() == id {
			return rv
		}
	}
	return nil
}

// RestoreElement adds e at the given position.
func (v *viewBase) RestoreElement(e model.Element, x, y int) (*ElementView, error) {
	ev, err := v.addElement(e, false)
	if err != nil {
		return nil, err
	}
	ev.X, ev.Y = x, y
	return ev, nil
}

// RestoreRelationship adds r even when its endpoints are not yet placed.
func (v *viewBase) RestoreRelationship(r *model.Relationship) (*RelationshipView, error) {
	if r == nil || v.model.GetRelationship(r.ID()) != r {
		return nil, fmt.Errorf("%w: relationship %v", ErrElementNotInModel, r)
	}
	if !v.allowDuplicateRelationships {
		if rv := v.relationshipView(r.ID()); rv != nil {
			return rv, nil
		}
	}
	rv := &RelationshipView{relationship: r}
	v.relationshipViews = append(v.relationshipViews, rv)
	return rv, nil
}

// RestoreAnimation appends a stored animation step.
func (v *viewBase) RestoreAnimation(a Animation) {
	v.animations = append(v.animations, a.clone())
}

// addElement places e on the view. Adding an element twice returns the
// existing wrapper. With addRelationships set, relationships between e and
// elements already on the view are added too.
func (v *viewBase) addElement(e model.Element, addRelationships bool) (*ElementView, error) {
	if !v.model.Contains(e) {
		return nil, fmt.Errorf("%w: %s", ErrElementNotInModel, describe(e))
	}
	ev, ok := v.elementIndex[e.ID()]
	if !ok {
		ev = &ElementView{element: e}
		v.elementIndex[e.ID()] = ev
		v.elementViews = append(v.elementViews, ev)
	}
	if addRelationships {
		v.addRelationshipsOf(e)
	}
	return ev, nil
}

// addRelationshipsOf adds every relationship of e whose other end is on
// the view.
func (v *viewBase) addRelationshipsOf(e model.Element) {
	for _, r := range e.Relationships() {
		if v.IsElementInView(r.Destination()) {
			v.addRelationship(r)
		}
	}
	for _, r := range afferent(e) {
		if v.IsElementInView(r.Source()) {
			v.addRelationship(r)
		}
	}
}

// addRelationship adds r when both endpoints are on the view. It returns
// nil otherwise.
func (v *viewBase) addRelationship(r *model.Relationship) *RelationshipView {
	if !v.IsElementInView(r.Source()) || !v.IsElementInView(r.Destination()) {
		return nil
	}
	if rv := v.relationshipView(r.ID()); rv != nil {
		return rv
	}
	rv := &RelationshipView{relationship: r}
	v.relationshipViews = append(v.relationshipViews, rv)
	return rv
}

// removeElement drops e and every relationship view touching it.
func (v *viewBase) removeElement(e model.Element) {
	if model.IsNil(e) {
		return
	}
	id := e.ID()
	if _, ok := v.elementIndex[id]; !ok {
		return
	}
	delete(v.elementIndex, id)
	v.elementViews = slices.DeleteFunc(v.elementViews, func(ev *ElementView) bool {
		return ev.ID() == id
	})
	v.relationshipViews = slices.DeleteFunc(v.relationshipViews, func(rv *RelationshipView) bool {
		return rv.relationship.SourceID() == id || rv.relationship.DestinationID() == id
	})
}

// RemoveRelationship drops r from the view.
func (v *viewBase) RemoveRelationship(r *model.Relationship) {
	if r == nil {
		return
	}
	v.relationshipViews = slices.DeleteFunc(v.relationshipViews, func(rv *RelationshipView) bool {
		return rv.relationship.ID() == r.ID()
	})
}

// checkParentAndChildrenNotInView rejects e when its parent or one of its
// children is already on the view.
func (v *viewBase) checkParentAndChildrenNotInView(e model.Element) error {
	if p := e.Parent(); p != nil && v.IsElementInView(p) {
		return fmt.Errorf("%w: a parent of %s is already in this view", ErrElementNotPermitted, e.Name())
	}
	for _, c := range e.ChildElements() {
		if v.IsElementInView(c) {
			return fmt.Errorf("%w: a child of %s is already in this view", ErrElementNotPermitted, e.Name())
		}
	}
	return nil
}

func (v *viewBase) copyLayoutInformationFrom(src *viewBase) {
	if v.paperSize == "" {
		v.paperSize = src.paperSize
	}
	for _, sev := range src.elementViews {
		if dev := v.elementIndex[sev.ID()]; dev != nil {
			dev.X, dev.Y = sev.X, sev.Y
		}
	}
	for _, srv := range src.relationshipViews {
		if drv := v.findRelationshipView(srv); drv != nil {
			drv.copyLayoutInformationFrom(srv)
		}
	}
}

// findRelationshipView matches by relationship id and, where the same
// relationship can appear more than once, by order.
func (v *viewBase) findRelationshipView(src *RelationshipView) *RelationshipView {
	for _, rv := range v.relationshipViews {
		if rv.relationship.ID() != src.relationship.ID() {
			continue
		}
		if v.allowDuplicateRelationships && rv.Order != src.Order {
			continue
		}
		return rv
	}
	return nil
}

type afferentSource interface {
	AfferentRelationships() []*model.Relationship
}

func afferent(e model.Element) []*model.Relationship {
	if a, ok := e.(afferentSource); ok {
		return a.AfferentRelationships()
	}
	return nil
}

func describe(e model.Element) string {
	if model.IsNil(e) {
		return "<nil>"
	}
	return fmt.Sprintf("%s '%s' (id %s)", e.Kind(), e.Name(), e.ID())
}
