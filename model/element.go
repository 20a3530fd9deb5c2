package model

import (
	"reflect"
	"strings"
)

// Kind identifies the concrete type of an Element.
type Kind string

// Element kinds.
const (
	KindPerson                 Kind = "Person"
	KindSoftwareSystem         Kind = "SoftwareSystem"
	KindContainer              Kind = "Container"
	KindComponent              Kind = "Component"
	KindDeploymentNode         Kind = "DeploymentNode"
	KindInfrastructureNode     Kind = "InfrastructureNode"
	KindContainerInstance      Kind = "ContainerInstance"
	KindSoftwareSystemInstance Kind = "SoftwareSystemInstance"
)

// IsStatic reports whether the kind belongs to the static structure
// (people, software systems, containers and components).
func (k Kind) IsStatic() bool {
	switch k {
	case KindPerson, KindSoftwareSystem, KindContainer, KindComponent:
		return true
	}
	return false
}

// IsDeployment reports whether the kind belongs to the deployment model.
func (k Kind) IsDeployment() bool {
	return !k.IsStatic()
}

// Location says whether a person or software system sits inside or
// outside the enterprise.
type Location string

// Locations.
const (
	LocationUnspecified Location = "Unspecified"
	LocationInternal    Location = "Internal"
	LocationExternal    Location = "External"
)

// ParseLocation maps a wire value to a Location, defaulting to unspecified.
func ParseLocation(s string) Location {
	switch Location(s) {
	case LocationInternal:
		return LocationInternal
	case LocationExternal:
		return LocationExternal
	}
	return LocationUnspecified
}

// Element is a named node of the architecture graph. The set of
// implementations is closed: Person, SoftwareSystem, Container, Component,
// DeploymentNode, InfrastructureNode, ContainerInstance and
// SoftwareSystemInstance.
type Element interface {
	ID() string
	Name() string
	Description() string
	URL() string
	Tags() []string
	HasTag(tag string) bool
	Properties() map[string]string
	Kind() Kind
	// Parent returns the containing element, or nil for top-level elements.
	Parent() Element
	// Model returns the model the element is registered with.
	Model() *Model
	// Relationships returns the outbound relationships in insertion order.
	Relationships() []*Relationship
	// ChildElements returns the directly contained elements.
	ChildElements() []Element
	// CanonicalName returns a path uniquely naming the element in its model.
	CanonicalName() string

	base() *elementBase
}

// elementBase is embedded by every element type.
type elementBase struct {
	modelItem
	name        string
	description string
	url         string
	model       *Model

	// relationships mirrors the model's source index; only the model
	// appends to it.
	relationships []*Relationship
}

func newElementBase(m *Model, id, name string, cfg *elementConfig, tags ...string) elementBase {
	eb := elementBase{
		modelItem:   newModelItem(id, tags...),
		name:        name,
		description: cfg.description,
		url:         cfg.url,
		model:       m,
	}
	eb.tags.Add(cfg.tags...)
	for k, v := range cfg.properties {
		eb.SetProperty(k, v)
	}
	return eb
}

func (e *elementBase) base() *elementBase { return e }

// IsNil reports whether e is nil or holds a nil pointer, such as a
// (*Person)(nil) passed where an Element is expected.
func IsNil(e Element) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Name returns the element name.
func (e *elementBase) Name() string { return e.name }

// Description returns the element description.
func (e *elementBase) Description() string { return e.description }

// SetDescription replaces the description.
func (e *elementBase) SetDescription(d string) { e.description = d }

// URL returns the element URL.
func (e *elementBase) URL() string { return e.url }

// SetURL replaces the URL.
func (e *elementBase) SetURL(u string) { e.url = u }

// Model returns the owning model. Elements can only be created through a
// Model, so the back-reference is always set.
func (e *elementBase) Model() *Model {
	if e.model == nil {
		panic("model: element " + e.id + " is not registered with a model")
	}
	return e.model
}

// Relationships returns the outbound relationships in insertion order.
func (e *elementBase) Relationships() []*Relationship {
	out := make([]*Relationship, len(e.relationships))
	copy(out, e.relationships)
	return out
}

// EfferentRelationships returns the relationships where this element is
// the source.
func (e *elementBase) EfferentRelationships() []*Relationship {
	return e.Relationships()
}

// AfferentRelationships returns the relationships where this element is
// the destination.
func (e *elementBase) AfferentRelationships() []*Relationship {
	return e.Model().afferentOf(e.id)
}

// HasEfferentRelationshipWith reports whether any outbound relationship
// ends at destination.
func (e *elementBase) HasEfferentRelationshipWith(destination Element) bool {
	return e.EfferentRelationshipWith(destination, nil) != nil
}

// EfferentRelationshipWith returns the first outbound relationship to
// destination, optionally restricted by description.
func (e *elementBase) EfferentRelationshipWith(destination Element, description *string) *Relationship {
	if IsNil(destination) {
		return nil
	}
	for _, r := range e.relationships {
		if r.destination.ID() != destination.ID() {
			continue
		}
		if description != nil && r.description != *description {
			continue
		}
		return r
	}
	return nil
}

func canonicalName(parent Element, name string) string {
	name = strings.ReplaceAll(name, "/", "")
	if parent == nil {
		return "/" + name
	}
	return parent.CanonicalName() + "/" + name
}

// groupable is embedded by elements that may be drawn inside a named group.
type groupable struct {
	group string
}

// Group returns the group name, empty when ungrouped.
func (g *groupable) Group() string { return g.group }

// SetGroup sets the group. Surrounding whitespace is trimmed and an empty
// value removes the element from its group.
func (g *groupable) SetGroup(group string) { g.group = strings.TrimSpace(group) }

// isAncestorOf reports whether a is a strict ancestor of e.
func isAncestorOf(a, e Element) bool {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.ID() == a.ID() {
			return true
		}
	}
	return false
}

// IsChildOf reports whether e is nested (at any depth) inside ancestor.
func IsChildOf(e, ancestor Element) bool {
	return isAncestorOf(ancestor, e)
}
