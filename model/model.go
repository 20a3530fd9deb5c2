// Package model provides the C4 architecture model: people, software
// systems, containers, components, the deployment tree and the
// relationships between them.
//
// A Model is the single authority for identity. Every element and
// relationship is created through it (directly or through element
// convenience methods such as Uses and AddContainer) so that ids are
// assigned once, never reused, and shared between elements and
// relationships. Each element's outbound relationships mirror the model's
// relationship index.
//
// A Model is not safe for concurrent mutation; it is built by one owner
// and then serialized.
package model

import (
	"fmt"
	"log/slog"
	"slices"
)

// Model is the root aggregate of the architecture graph.
type Model struct {
	enterprise      string
	idGenerator     IDGenerator
	impliedStrategy ImpliedRelationshipStrategy
	logger          *slog.Logger

	people          []*Person
	softwareSystems []*SoftwareSystem
	deploymentNodes []*DeploymentNode

	elementsByID      map[string]Element
	elements          []Element
	relationshipsByID map[string]*Relationship
	relationships     []*Relationship

	// afferent indexes relationships by destination id.
	afferent map[string][]*Relationship
}

// NewModel creates an empty model. Without options it issues sequential
// integer ids and creates no implied relationships.
func NewModel(opts ...Option) *Model {
	m := &Model{
		idGenerator:       NewSequentialIntegerIDGenerator(),
		impliedStrategy:   IgnoreImpliedRelationships,
		logger:            slog.New(slog.DiscardHandler),
		elementsByID:      make(map[string]Element),
		relationshipsByID: make(map[string]*Relationship),
		afferent:          make(map[string][]*Relationship),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enterprise returns the enterprise name, if any.
func (m *Model) Enterprise() string { return m.enterprise }

// SetEnterprise names the enterprise.
func (m *Model) SetEnterprise(name string) { m.enterprise = name }

// ImpliedRelationshipStrategy returns the active strategy.
func (m *Model) ImpliedRelationshipStrategy() ImpliedRelationshipStrategy {
	return m.impliedStrategy
}

// SetImpliedRelationshipStrategy replaces the strategy. A nil strategy
// disables implied relationships.
func (m *Model) SetImpliedRelationshipStrategy(s ImpliedRelationshipStrategy) {
	if s == nil {
		s = IgnoreImpliedRelationships
	}
	m.impliedStrategy = s
}

// IsEmpty reports whether the model has no people, software systems or
// deployment nodes.
func (m *Model) IsEmpty() bool {
	return len(m.people) == 0 && len(m.softwareSystems) == 0 && len(m.deploymentNodes) == 0
}

// People returns the people in insertion order.
func (m *Model) People() []*Person { return slices.Clone(m.people) }

// SoftwareSystems returns the software systems in insertion order.
func (m *Model) SoftwareSystems() []*SoftwareSystem { return slices.Clone(m.softwareSystems) }

// DeploymentNodes returns the top-level deployment nodes in insertion order.
func (m *Model) DeploymentNodes() []*DeploymentNode { return slices.Clone(m.deploymentNodes) }

// Elements returns every registered element in registration order.
func (m *Model) Elements() []Element { return slices.Clone(m.elements) }

// Relationships returns every registered relationship in registration
// order.
func (m *Model) Relationships() []*Relationship { return slices.Clone(m.relationships) }

// GetElement returns the element with id, or nil.
func (m *Model) GetElement(id string) Element {
	return m.elementsByID[id]
}

// GetRelationship returns the relationship with id, or nil.
func (m *Model) GetRelationship(id string) *Relationship {
	return m.relationshipsByID[id]
}

// Contains reports whether e is registered with this model. Membership is
// decided by id, and the element must belong to this model.
func (m *Model) Contains(e Element) bool {
	if IsNil(e) {
		return false
	}
	registered, ok := m.elementsByID[e.ID()]
	return ok && registered.base().model == m && e.base().model == m
}

// GetPersonWithName returns the named person, or nil.
func (m *Model) GetPersonWithName(name string) *Person {
	for _, p := range m.people {
		if p.name == name {
			return p
		}
	}
	return nil
}

// GetSoftwareSystemWithName returns the named software system, or nil.
func (m *Model) GetSoftwareSystemWithName(name string) *SoftwareSystem {
	for _, s := range m.softwareSystems {
		if s.name == name {
			return s
		}
	}
	return nil
}

// GetDeploymentNodeWithName returns the named top-level node in
// environment, or nil.
func (m *Model) GetDeploymentNodeWithName(name, environment string) *DeploymentNode {
	for _, d := range m.deploymentNodes {
		if d.name == name && d.environment == environment {
			return d
		}
	}
	return nil
}

// GetElementWithCanonicalName returns the element whose canonical name
// matches, or nil.
func (m *Model) GetElementWithCanonicalName(name string) Element {
	for _, e := range m.elements {
		if e.CanonicalName() == name {
			return e
		}
	}
	return nil
}

// Environments returns the distinct deployment environments in first-seen
// order.
func (m *Model) Environments() []string {
	var out []string
	for _, d := range m.deploymentNodes {
		if !slices.Contains(out, d.environment) {
			out = append(out, d.environment)
		}
	}
	return out
}

// ElementInstances returns the container and software system instances
// deployed in environment.
func (m *Model) ElementInstances(environment string) []Instance {
	var out []Instance
	for _, e := range m.elements {
		if inst, ok := e.(Instance); ok && inst.Environment() == environment {
			out = append(out, inst)
		}
	}
	return out
}

// AddPerson creates a person. Names are unique among people.
func (m *Model) AddPerson(name string, opts ...ElementOption) (*Person, error) {
	if m.GetPersonWithName(name) != nil {
		return nil, fmt.Errorf("%w: a person with the name '%s' already exists in the model", ErrDuplicateName, name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding person '%s': %w", name, err)
	}
	p := &Person{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagPerson),
		location:    cfg.location,
	}
	p.SetGroup(cfg.group)
	m.people = append(m.people, p)
	m.registerElement(p)
	return p, nil
}

// AddSoftwareSystem creates a software system. Names are unique among
// software systems.
func (m *Model) AddSoftwareSystem(name string, opts ...ElementOption) (*SoftwareSystem, error) {
	if m.GetSoftwareSystemWithName(name) != nil {
		return nil, fmt.Errorf("%w: a software system with the name '%s' already exists in the model", ErrDuplicateName, name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding software system '%s': %w", name, err)
	}
	s := &SoftwareSystem{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagSoftwareSystem),
		location:    cfg.location,
	}
	s.SetGroup(cfg.group)
	m.softwareSystems = append(m.softwareSystems, s)
	m.registerElement(s)
	return s, nil
}

// AddContainer creates a container inside system. Names are unique within
// the system.
func (m *Model) AddContainer(system *SoftwareSystem, name string, opts ...ElementOption) (*Container, error) {
	if system == nil || !m.Contains(system) {
		return nil, fmt.Errorf("%w: software system for container '%s'", ErrNotInModel, name)
	}
	if system.ContainerWithName(name) != nil {
		return nil, fmt.Errorf("%w: a container with the name '%s' already exists in software system '%s'", ErrDuplicateName, name, system.name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding container '%s': %w", name, err)
	}
	c := &Container{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagContainer),
		technology:  cfg.technology,
		parent:      system,
	}
	c.SetGroup(cfg.group)
	system.containers = append(system.containers, c)
	m.registerElement(c)
	return c, nil
}

// AddComponent creates a component inside container. Names are unique
// within the container.
func (m *Model) AddComponent(container *Container, name string, opts ...ElementOption) (*Component, error) {
	if container == nil || !m.Contains(container) {
		return nil, fmt.Errorf("%w: container for component '%s'", ErrNotInModel, name)
	}
	if container.ComponentWithName(name) != nil {
		return nil, fmt.Errorf("%w: a component with the name '%s' already exists in container '%s'", ErrDuplicateName, name, container.name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding component '%s': %w", name, err)
	}
	c := &Component{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagComponent),
		technology:  cfg.technology,
		size:        cfg.size,
		parent:      container,
	}
	c.SetGroup(cfg.group)
	container.components = append(container.components, c)
	m.registerElement(c)
	return c, nil
}

// AddDeploymentNode creates a top-level deployment node. The environment
// defaults to DefaultDeploymentEnvironment; names are unique per
// environment.
func (m *Model) AddDeploymentNode(name string, opts ...ElementOption) (*DeploymentNode, error) {
	cfg := newElementConfig(opts)
	if cfg.environment == "" {
		cfg.environment = DefaultDeploymentEnvironment
	}
	if m.GetDeploymentNodeWithName(name, cfg.environment) != nil {
		return nil, fmt.Errorf("%w: a top-level deployment node with the name '%s' already exists in environment '%s'", ErrDuplicateName, name, cfg.environment)
	}
	d, err := m.newDeploymentNode(nil, name, cfg)
	if err != nil {
		return nil, err
	}
	m.deploymentNodes = append(m.deploymentNodes, d)
	m.registerElement(d)
	return d, nil
}

// AddChildDeploymentNode creates a node nested in parent. The child takes
// the parent's environment; naming a different one is an error.
func (m *Model) AddChildDeploymentNode(parent *DeploymentNode, name string, opts ...ElementOption) (*DeploymentNode, error) {
	if parent == nil || !m.Contains(parent) {
		return nil, fmt.Errorf("%w: parent deployment node for '%s'", ErrNotInModel, name)
	}
	cfg := newElementConfig(opts)
	if cfg.environment == "" {
		cfg.environment = parent.environment
	}
	if cfg.environment != parent.environment {
		return nil, fmt.Errorf("%w: deployment node '%s' is in environment '%s' but its parent '%s' is in '%s'",
			ErrEnvironmentMismatch, name, cfg.environment, parent.name, parent.environment)
	}
	if parent.ChildWithName(name) != nil {
		return nil, fmt.Errorf("%w: a deployment node with the name '%s' already exists in node '%s'", ErrDuplicateName, name, parent.name)
	}
	d, err := m.newDeploymentNode(parent, name, cfg)
	if err != nil {
		return nil, err
	}
	parent.children = append(parent.children, d)
	m.registerElement(d)
	return d, nil
}

func (m *Model) newDeploymentNode(parent *DeploymentNode, name string, cfg *elementConfig) (*DeploymentNode, error) {
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding deployment node '%s': %w", name, err)
	}
	instances := cfg.instances
	if instances < 1 {
		instances = 1
	}
	return &DeploymentNode{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagDeploymentNode),
		environment: cfg.environment,
		technology:  cfg.technology,
		instances:   instances,
		parent:      parent,
	}, nil
}

// AddInfrastructureNode creates an infrastructure node on node. Names are
// unique within the node.
func (m *Model) AddInfrastructureNode(node *DeploymentNode, name string, opts ...ElementOption) (*InfrastructureNode, error) {
	if node == nil || !m.Contains(node) {
		return nil, fmt.Errorf("%w: deployment node for infrastructure node '%s'", ErrNotInModel, name)
	}
	for _, n := range node.infrastructureNodes {
		if n.name == name {
			return nil, fmt.Errorf("%w: an infrastructure node with the name '%s' already exists in node '%s'", ErrDuplicateName, name, node.name)
		}
	}
	cfg := newElementConfig(opts)
	if cfg.environment != "" && cfg.environment != node.environment {
		return nil, fmt.Errorf("%w: infrastructure node '%s' is in environment '%s' but node '%s' is in '%s'",
			ErrEnvironmentMismatch, name, cfg.environment, node.name, node.environment)
	}
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding infrastructure node '%s': %w", name, err)
	}
	n := &InfrastructureNode{
		elementBase: newElementBase(m, id, name, cfg, TagElement, TagInfrastructureNode),
		environment: node.environment,
		technology:  cfg.technology,
		parent:      node,
	}
	node.infrastructureNodes = append(node.infrastructureNodes, n)
	m.registerElement(n)
	return n, nil
}

// AddContainerInstance deploys container to node. Unless WithInstanceID is
// given, the instance id is one more than the highest existing instance of
// container on node. With replicate set, relationships are mirrored from
// the container onto instances in the same environment; if that fails the
// instance and its replicas are removed again.
func (m *Model) AddContainerInstance(node *DeploymentNode, container *Container, replicate bool, opts ...ElementOption) (*ContainerInstance, error) {
	if node == nil || !m.Contains(node) {
		return nil, fmt.Errorf("%w: deployment node for container instance", ErrNotInModel)
	}
	if container == nil || !m.Contains(container) {
		return nil, fmt.Errorf("%w: container deployed to node '%s'", ErrNotInModel, node.name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding instance of container '%s': %w", container.name, err)
	}
	instanceID := cfg.instanceID
	if instanceID < 1 {
		instanceID = 1
		for _, ci := range node.containerInstances {
			if ci.container == container && ci.instanceID >= instanceID {
				instanceID = ci.instanceID + 1
			}
		}
	}
	ci := &ContainerInstance{
		instanceBase: instanceBase{
			elementBase: newElementBase(m, id, "", cfg, TagContainerInstance),
			instanceID:  instanceID,
			environment: node.environment,
			parent:      node,
		},
		container: container,
	}
	node.containerInstances = append(node.containerInstances, ci)
	m.registerElement(ci)
	if replicate {
		if err := ci.ReplicateElementRelationships(); err != nil {
			m.discardElement(ci)
			node.containerInstances = slices.DeleteFunc(node.containerInstances, func(x *ContainerInstance) bool { return x == ci })
			return nil, fmt.Errorf("replicating relationships of '%s': %w", container.name, err)
		}
	}
	return ci, nil
}

// AddSoftwareSystemInstance deploys system to node. Instance ids and
// replication follow AddContainerInstance.
func (m *Model) AddSoftwareSystemInstance(node *DeploymentNode, system *SoftwareSystem, replicate bool, opts ...ElementOption) (*SoftwareSystemInstance, error) {
	if node == nil || !m.Contains(node) {
		return nil, fmt.Errorf("%w: deployment node for software system instance", ErrNotInModel)
	}
	if system == nil || !m.Contains(system) {
		return nil, fmt.Errorf("%w: software system deployed to node '%s'", ErrNotInModel, node.name)
	}
	cfg := newElementConfig(opts)
	id, err := m.reserveID(cfg.id)
	if err != nil {
		return nil, fmt.Errorf("adding instance of software system '%s': %w", system.name, err)
	}
	instanceID := cfg.instanceID
	if instanceID < 1 {
		instanceID = 1
		for _, si := range node.softwareSystemInstances {
			if si.softwareSystem == system && si.instanceID >= instanceID {
				instanceID = si.instanceID + 1
			}
		}
	}
	si := &SoftwareSystemInstance{
		instanceBase: instanceBase{
			elementBase: newElementBase(m, id, "", cfg, TagSoftwareSystemInstance),
			instanceID:  instanceID,
			environment: node.environment,
			parent:      node,
		},
		softwareSystem: system,
	}
	node.softwareSystemInstances = append(node.softwareSystemInstances, si)
	m.registerElement(si)
	if replicate {
		if err := si.ReplicateElementRelationships(); err != nil {
			m.discardElement(si)
			node.softwareSystemInstances = slices.DeleteFunc(node.softwareSystemInstances, func(x *SoftwareSystemInstance) bool { return x == si })
			return nil, fmt.Errorf("replicating relationships of '%s': %w", system.name, err)
		}
	}
	return si, nil
}

// AddRelationship creates and registers a relationship from source to
// destination, then runs the implied relationship strategy unless
// WithoutImpliedRelationships is given.
func (m *Model) AddRelationship(source, destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	cfg := &relationshipConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := newRelationship(source, destination, description, cfg)
	return m.RegisterRelationship(r, !cfg.skipImplied)
}

// RegisterRelationship adds a pre-built relationship. Registering a
// relationship that is already registered is a no-op returning it. The
// source and destination must belong to this model and the id, when set,
// must not be used by any element or other relationship.
func (m *Model) RegisterRelationship(r *Relationship, createImplied bool) (*Relationship, error) {
	if r == nil || IsNil(r.source) || IsNil(r.destination) {
		return nil, fmt.Errorf("%w: relationship needs a source and a destination", ErrInvalidRelationship)
	}
	if r.registered {
		if existing := m.relationshipsByID[r.id]; existing == r {
			return r, nil
		}
		return nil, fmt.Errorf("%w: relationship %s (%s) belongs to another model", ErrInvalidRelationship, r.id, r)
	}
	if !m.Contains(r.source) {
		return nil, fmt.Errorf("%w: source '%s' of relationship %s", ErrNotInModel, r.source.Name(), r)
	}
	if !m.Contains(r.destination) {
		return nil, fmt.Errorf("%w: destination '%s' of relationship %s", ErrNotInModel, r.destination.Name(), r)
	}
	id, err := m.reserveID(r.id)
	if err != nil {
		return nil, fmt.Errorf("adding relationship %s: %w", r, err)
	}
	r.id = id
	r.registered = true

	src := r.source.base()
	src.relationships = append(src.relationships, r)
	m.relationshipsByID[id] = r
	m.relationships = append(m.relationships, r)
	m.afferent[r.destination.ID()] = append(m.afferent[r.destination.ID()], r)

	if createImplied && m.impliedStrategy != nil {
		if err := m.impliedStrategy.CreateImpliedRelationships(m, r); err != nil {
			return r, fmt.Errorf("creating implied relationships for %s: %w", r, err)
		}
	}
	return r, nil
}

// reserveID validates an explicit id or generates a fresh one. It does not
// touch the indices.
func (m *Model) reserveID(id string) (string, error) {
	if id == "" {
		for {
			id = m.idGenerator.GenerateID()
			if !m.idTaken(id) {
				return id, nil
			}
		}
	}
	if e, ok := m.elementsByID[id]; ok {
		return "", fmt.Errorf("%w: id %s is already used by %s '%s'", ErrDuplicateID, id, e.Kind(), e.Name())
	}
	if r, ok := m.relationshipsByID[id]; ok {
		return "", fmt.Errorf("%w: id %s is already used by relationship %s", ErrDuplicateID, id, r)
	}
	m.idGenerator.Found(id)
	return id, nil
}

func (m *Model) idTaken(id string) bool {
	_, e := m.elementsByID[id]
	_, r := m.relationshipsByID[id]
	return e || r
}

func (m *Model) registerElement(e Element) {
	m.elementsByID[e.ID()] = e
	m.elements = append(m.elements, e)
	m.logger.Debug("element registered", slog.String("id", e.ID()), slog.String("kind", string(e.Kind())), slog.String("name", e.Name()))
}

// discardElement undoes registerElement for e together with every
// relationship that starts or ends at it. Parent slices are left to the
// caller.
func (m *Model) discardElement(e Element) {
	id := e.ID()
	touches := func(r *Relationship) bool { return r.source.ID() == id || r.destination.ID() == id }
	for _, r := range m.relationships {
		if !touches(r) {
			continue
		}
		delete(m.relationshipsByID, r.id)
		src := r.source.base()
		src.relationships = slices.DeleteFunc(src.relationships, func(x *Relationship) bool { return x == r })
		dst := r.destination.ID()
		m.afferent[dst] = slices.DeleteFunc(m.afferent[dst], func(x *Relationship) bool { return x == r })
		if len(m.afferent[dst]) == 0 {
			delete(m.afferent, dst)
		}
	}
	m.relationships = slices.DeleteFunc(m.relationships, touches)
	delete(m.elementsByID, id)
	m.elements = slices.DeleteFunc(m.elements, func(x Element) bool { return x.ID() == id })
}

func (m *Model) afferentOf(id string) []*Relationship {
	return slices.Clone(m.afferent[id])
}
