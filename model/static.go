package model

// Person is a user of a software system: an actor, role or persona.
type Person struct {
	elementBase
	groupable
	location Location
}

// Kind returns KindPerson.
func (p *Person) Kind() Kind { return KindPerson }

// Parent returns nil; people are top-level.
func (p *Person) Parent() Element { return nil }

// ChildElements returns nil; people have no children.
func (p *Person) ChildElements() []Element { return nil }

// CanonicalName returns "/<name>".
func (p *Person) CanonicalName() string { return canonicalName(nil, p.name) }

// Location returns whether the person is internal or external.
func (p *Person) Location() Location { return p.location }

// SetLocation sets the location.
func (p *Person) SetLocation(l Location) { p.location = l }

// Uses adds a relationship from this person to destination.
func (p *Person) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return p.Model().AddRelationship(p, destination, description, opts...)
}

// Delivers adds a relationship from this person to another person.
func (p *Person) Delivers(destination *Person, description string, opts ...RelationshipOption) (*Relationship, error) {
	return p.Model().AddRelationship(p, destination, description, opts...)
}

// InteractsWith adds a relationship from this person to another person.
func (p *Person) InteractsWith(destination *Person, description string, opts ...RelationshipOption) (*Relationship, error) {
	return p.Model().AddRelationship(p, destination, description, opts...)
}

// SoftwareSystem is the highest level of abstraction: something that
// delivers value to its users.
type SoftwareSystem struct {
	elementBase
	groupable
	location   Location
	containers []*Container
}

// Kind returns KindSoftwareSystem.
func (s *SoftwareSystem) Kind() Kind { return KindSoftwareSystem }

// Parent returns nil; software systems are top-level.
func (s *SoftwareSystem) Parent() Element { return nil }

// ChildElements returns the containers.
func (s *SoftwareSystem) ChildElements() []Element {
	out := make([]Element, 0, len(s.containers))
	for _, c := range s.containers {
		out = append(out, c)
	}
	return out
}

// CanonicalName returns "/<name>".
func (s *SoftwareSystem) CanonicalName() string { return canonicalName(nil, s.name) }

// Location returns whether the system is internal or external.
func (s *SoftwareSystem) Location() Location { return s.location }

// SetLocation sets the location.
func (s *SoftwareSystem) SetLocation(l Location) { s.location = l }

// Containers returns the containers in insertion order.
func (s *SoftwareSystem) Containers() []*Container {
	out := make([]*Container, len(s.containers))
	copy(out, s.containers)
	return out
}

// ContainerWithName returns the named container, or nil.
func (s *SoftwareSystem) ContainerWithName(name string) *Container {
	for _, c := range s.containers {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AddContainer creates a container inside this system.
func (s *SoftwareSystem) AddContainer(name string, opts ...ElementOption) (*Container, error) {
	return s.Model().AddContainer(s, name, opts...)
}

// Uses adds a relationship from this system to destination.
func (s *SoftwareSystem) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return s.Model().AddRelationship(s, destination, description, opts...)
}

// Delivers adds a relationship from this system to a person.
func (s *SoftwareSystem) Delivers(destination *Person, description string, opts ...RelationshipOption) (*Relationship, error) {
	return s.Model().AddRelationship(s, destination, description, opts...)
}

// Container is an application or data store inside a software system.
type Container struct {
	elementBase
	groupable
	technology string
	parent     *SoftwareSystem
	components []*Component
}

// Kind returns KindContainer.
func (c *Container) Kind() Kind { return KindContainer }

// Parent returns the software system.
func (c *Container) Parent() Element { return c.parent }

// SoftwareSystem returns the owning software system.
func (c *Container) SoftwareSystem() *SoftwareSystem { return c.parent }

// ChildElements returns the components.
func (c *Container) ChildElements() []Element {
	out := make([]Element, 0, len(c.components))
	for _, comp := range c.components {
		out = append(out, comp)
	}
	return out
}

// CanonicalName returns "/<system>/<container>".
func (c *Container) CanonicalName() string { return canonicalName(c.parent, c.name) }

// Technology returns the implementation technology.
func (c *Container) Technology() string { return c.technology }

// SetTechnology sets the technology.
func (c *Container) SetTechnology(t string) { c.technology = t }

// Components returns the components in insertion order.
func (c *Container) Components() []*Component {
	out := make([]*Component, len(c.components))
	copy(out, c.components)
	return out
}

// ComponentWithName returns the named component, or nil.
func (c *Container) ComponentWithName(name string) *Component {
	for _, comp := range c.components {
		if comp.name == name {
			return comp
		}
	}
	return nil
}

// AddComponent creates a component inside this container.
func (c *Container) AddComponent(name string, opts ...ElementOption) (*Component, error) {
	return c.Model().AddComponent(c, name, opts...)
}

// Uses adds a relationship from this container to destination.
func (c *Container) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return c.Model().AddRelationship(c, destination, description, opts...)
}

// Delivers adds a relationship from this container to a person.
func (c *Container) Delivers(destination *Person, description string, opts ...RelationshipOption) (*Relationship, error) {
	return c.Model().AddRelationship(c, destination, description, opts...)
}

// Component is a grouping of related functionality inside a container.
type Component struct {
	elementBase
	groupable
	technology string
	size       int64
	parent     *Container
}

// Kind returns KindComponent.
func (c *Component) Kind() Kind { return KindComponent }

// Parent returns the container.
func (c *Component) Parent() Element { return c.parent }

// Container returns the owning container.
func (c *Component) Container() *Container { return c.parent }

// ChildElements returns nil.
func (c *Component) ChildElements() []Element { return nil }

// CanonicalName returns "/<system>/<container>/<component>".
func (c *Component) CanonicalName() string { return canonicalName(c.parent, c.name) }

// Technology returns the implementation technology.
func (c *Component) Technology() string { return c.technology }

// SetTechnology sets the technology.
func (c *Component) SetTechnology(t string) { c.technology = t }

// Size returns the component size in bytes, zero when unknown.
func (c *Component) Size() int64 { return c.size }

// Uses adds a relationship from this component to destination.
func (c *Component) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return c.Model().AddRelationship(c, destination, description, opts...)
}

// Delivers adds a relationship from this component to a person.
func (c *Component) Delivers(destination *Person, description string, opts ...RelationshipOption) (*Relationship, error) {
	return c.Model().AddRelationship(c, destination, description, opts...)
}
