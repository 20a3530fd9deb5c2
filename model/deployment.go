package model

import (
	"maps"
	"strconv"
)

// DefaultDeploymentEnvironment is used when a top-level deployment node
// does not name its environment.
const DefaultDeploymentEnvironment = "Default"

// DeploymentNode is a piece of infrastructure (physical, virtualized or
// containerized) that hosts element instances. Nodes nest.
type DeploymentNode struct {
	elementBase
	environment string
	technology  string
	instances   int
	parent      *DeploymentNode

	children                []*DeploymentNode
	infrastructureNodes     []*InfrastructureNode
	containerInstances      []*ContainerInstance
	softwareSystemInstances []*SoftwareSystemInstance
}

// Kind returns KindDeploymentNode.
func (d *DeploymentNode) Kind() Kind { return KindDeploymentNode }

// Parent returns the parent node, or nil for top-level nodes.
func (d *DeploymentNode) Parent() Element {
	if d.parent == nil {
		return nil
	}
	return d.parent
}

// ParentNode returns the parent node, or nil.
func (d *DeploymentNode) ParentNode() *DeploymentNode { return d.parent }

// ChildElements returns child nodes, infrastructure nodes, container
// instances and software system instances, in that order.
func (d *DeploymentNode) ChildElements() []Element {
	out := make([]Element, 0, len(d.children)+len(d.infrastructureNodes)+len(d.containerInstances)+len(d.softwareSystemInstances))
	for _, c := range d.children {
		out = append(out, c)
	}
	for _, n := range d.infrastructureNodes {
		out = append(out, n)
	}
	for _, ci := range d.containerInstances {
		out = append(out, ci)
	}
	for _, si := range d.softwareSystemInstances {
		out = append(out, si)
	}
	return out
}

// CanonicalName returns "/Deployment/<environment>/<node>/...".
func (d *DeploymentNode) CanonicalName() string {
	if d.parent == nil {
		return "/Deployment/" + d.environment + canonicalName(nil, d.name)
	}
	return canonicalName(d.parent, d.name)
}

// Environment returns the deployment environment.
func (d *DeploymentNode) Environment() string { return d.environment }

// Technology returns the node technology.
func (d *DeploymentNode) Technology() string { return d.technology }

// SetTechnology sets the node technology.
func (d *DeploymentNode) SetTechnology(t string) { d.technology = t }

// Instances returns how many copies of this node exist.
func (d *DeploymentNode) Instances() int { return d.instances }

// SetInstances sets how many copies of this node exist.
func (d *DeploymentNode) SetInstances(n int) { d.instances = n }

// Children returns the child deployment nodes.
func (d *DeploymentNode) Children() []*DeploymentNode {
	out := make([]*DeploymentNode, len(d.children))
	copy(out, d.children)
	return out
}

// ChildWithName returns the named child node, or nil.
func (d *DeploymentNode) ChildWithName(name string) *DeploymentNode {
	for _, c := range d.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// InfrastructureNodes returns the infrastructure nodes.
func (d *DeploymentNode) InfrastructureNodes() []*InfrastructureNode {
	out := make([]*InfrastructureNode, len(d.infrastructureNodes))
	copy(out, d.infrastructureNodes)
	return out
}

// ContainerInstances returns the container instances.
func (d *DeploymentNode) ContainerInstances() []*ContainerInstance {
	out := make([]*ContainerInstance, len(d.containerInstances))
	copy(out, d.containerInstances)
	return out
}

// SoftwareSystemInstances returns the software system instances.
func (d *DeploymentNode) SoftwareSystemInstances() []*SoftwareSystemInstance {
	out := make([]*SoftwareSystemInstance, len(d.softwareSystemInstances))
	copy(out, d.softwareSystemInstances)
	return out
}

// HasDeployedContent reports whether this node or any descendant hosts an
// element instance or an infrastructure node.
func (d *DeploymentNode) HasDeployedContent() bool {
	if len(d.infrastructureNodes) > 0 || len(d.containerInstances) > 0 || len(d.softwareSystemInstances) > 0 {
		return true
	}
	for _, c := range d.children {
		if c.HasDeployedContent() {
			return true
		}
	}
	return false
}

// AddDeploymentNode creates a child node in the same environment.
func (d *DeploymentNode) AddDeploymentNode(name string, opts ...ElementOption) (*DeploymentNode, error) {
	return d.Model().AddChildDeploymentNode(d, name, opts...)
}

// AddInfrastructureNode creates an infrastructure node on this node.
func (d *DeploymentNode) AddInfrastructureNode(name string, opts ...ElementOption) (*InfrastructureNode, error) {
	return d.Model().AddInfrastructureNode(d, name, opts...)
}

// AddContainer deploys an instance of container to this node. With
// replicate set, the container's relationships are mirrored onto
// instances in the same environment.
func (d *DeploymentNode) AddContainer(container *Container, replicate bool) (*ContainerInstance, error) {
	return d.Model().AddContainerInstance(d, container, replicate)
}

// AddSoftwareSystem deploys an instance of system to this node.
func (d *DeploymentNode) AddSoftwareSystem(system *SoftwareSystem, replicate bool) (*SoftwareSystemInstance, error) {
	return d.Model().AddSoftwareSystemInstance(d, system, replicate)
}

// Uses adds a relationship from this node to destination.
func (d *DeploymentNode) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return d.Model().AddRelationship(d, destination, description, opts...)
}

// InfrastructureNode is a piece of infrastructure that does not host
// software: a load balancer, firewall or DNS service.
type InfrastructureNode struct {
	elementBase
	environment string
	technology  string
	parent      *DeploymentNode
}

// Kind returns KindInfrastructureNode.
func (n *InfrastructureNode) Kind() Kind { return KindInfrastructureNode }

// Parent returns the deployment node.
func (n *InfrastructureNode) Parent() Element { return n.parent }

// DeploymentNode returns the hosting node.
func (n *InfrastructureNode) DeploymentNode() *DeploymentNode { return n.parent }

// ChildElements returns nil.
func (n *InfrastructureNode) ChildElements() []Element { return nil }

// CanonicalName returns the node path followed by the name.
func (n *InfrastructureNode) CanonicalName() string { return canonicalName(n.parent, n.name) }

// Environment returns the deployment environment.
func (n *InfrastructureNode) Environment() string { return n.environment }

// Technology returns the technology.
func (n *InfrastructureNode) Technology() string { return n.technology }

// SetTechnology sets the technology.
func (n *InfrastructureNode) SetTechnology(t string) { n.technology = t }

// Uses adds a relationship from this infrastructure node to destination.
func (n *InfrastructureNode) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return n.Model().AddRelationship(n, destination, description, opts...)
}

// HealthCheck is an HTTP endpoint polled to check an instance is healthy.
type HealthCheck struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	// Interval is the polling interval in seconds.
	Interval int `json:"interval" yaml:"interval"`
	// Timeout is the timeout in milliseconds.
	Timeout int               `json:"timeout" yaml:"timeout"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Health check defaults.
const (
	DefaultHealthCheckInterval = 30
	DefaultHealthCheckTimeout  = 5000
)

// Instance is a deployed occurrence of a container or software system.
type Instance interface {
	Element
	// InstanceID is 1-based and unique per deployment node and element.
	InstanceID() int
	Environment() string
	// InstanceOf returns the deployed container or software system.
	InstanceOf() Element
	DeploymentNode() *DeploymentNode
	HealthChecks() []HealthCheck
	// ReplicateElementRelationships mirrors the underlying element's
	// relationships onto other instances in the same environment.
	ReplicateElementRelationships() error
}

type instanceBase struct {
	elementBase
	instanceID   int
	environment  string
	parent       *DeploymentNode
	healthChecks []HealthCheck
}

// InstanceID returns the instance number.
func (i *instanceBase) InstanceID() int { return i.instanceID }

// Environment returns the deployment environment.
func (i *instanceBase) Environment() string { return i.environment }

// DeploymentNode returns the hosting node.
func (i *instanceBase) DeploymentNode() *DeploymentNode { return i.parent }

// ChildElements returns nil.
func (i *instanceBase) ChildElements() []Element { return nil }

// HealthChecks returns the health checks.
func (i *instanceBase) HealthChecks() []HealthCheck {
	out := make([]HealthCheck, len(i.healthChecks))
	copy(out, i.healthChecks)
	return out
}

// AddHealthCheck registers an HTTP health check. Non-positive interval and
// non-positive timeout fall back to the defaults.
func (i *instanceBase) AddHealthCheck(name, url string, interval, timeout int) HealthCheck {
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}
	if timeout <= 0 {
		timeout = DefaultHealthCheckTimeout
	}
	hc := HealthCheck{Name: name, URL: url, Interval: interval, Timeout: timeout}
	i.healthChecks = append(i.healthChecks, hc)
	return hc
}

// RestoreHealthCheck appends hc as stored in a document.
func (i *instanceBase) RestoreHealthCheck(hc HealthCheck) {
	hc.Headers = maps.Clone(hc.Headers)
	i.healthChecks = append(i.healthChecks, hc)
}

func instanceCanonicalName(parent *DeploymentNode, name string, instanceID int) string {
	return canonicalName(parent, name) + "[" + strconv.Itoa(instanceID) + "]"
}

// ContainerInstance is a container deployed to a deployment node.
type ContainerInstance struct {
	instanceBase
	container *Container
}

// Kind returns KindContainerInstance.
func (ci *ContainerInstance) Kind() Kind { return KindContainerInstance }

// Name returns the container name.
func (ci *ContainerInstance) Name() string { return ci.container.Name() }

// Parent returns the deployment node.
func (ci *ContainerInstance) Parent() Element { return ci.parent }

// Container returns the deployed container.
func (ci *ContainerInstance) Container() *Container { return ci.container }

// InstanceOf returns the deployed container.
func (ci *ContainerInstance) InstanceOf() Element { return ci.container }

// CanonicalName returns the node path followed by "<container>[<n>]".
func (ci *ContainerInstance) CanonicalName() string {
	return instanceCanonicalName(ci.parent, ci.container.Name(), ci.instanceID)
}

// ReplicateElementRelationships mirrors the container's relationships.
func (ci *ContainerInstance) ReplicateElementRelationships() error {
	return ci.Model().replicateElementRelationships(ci)
}

// Uses adds a relationship from this instance to destination.
func (ci *ContainerInstance) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return ci.Model().AddRelationship(ci, destination, description, opts...)
}

// SoftwareSystemInstance is a software system deployed to a deployment
// node.
type SoftwareSystemInstance struct {
	instanceBase
	softwareSystem *SoftwareSystem
}

// Kind returns KindSoftwareSystemInstance.
func (si *SoftwareSystemInstance) Kind() Kind { return KindSoftwareSystemInstance }

// Name returns the software system name.
func (si *SoftwareSystemInstance) Name() string { return si.softwareSystem.Name() }

// Parent returns the deployment node.
func (si *SoftwareSystemInstance) Parent() Element { return si.parent }

// SoftwareSystem returns the deployed software system.
func (si *SoftwareSystemInstance) SoftwareSystem() *SoftwareSystem { return si.softwareSystem }

// InstanceOf returns the deployed software system.
func (si *SoftwareSystemInstance) InstanceOf() Element { return si.softwareSystem }

// CanonicalName returns the node path followed by "<system>[<n>]".
func (si *SoftwareSystemInstance) CanonicalName() string {
	return instanceCanonicalName(si.parent, si.softwareSystem.Name(), si.instanceID)
}

// ReplicateElementRelationships mirrors the software system's
// relationships.
func (si *SoftwareSystemInstance) ReplicateElementRelationships() error {
	return si.Model().replicateElementRelationships(si)
}

// Uses adds a relationship from this instance to destination.
func (si *SoftwareSystemInstance) Uses(destination Element, description string, opts ...RelationshipOption) (*Relationship, error) {
	return si.Model().AddRelationship(si, destination, description, opts...)
}
