package model

import (
	"log/slog"
	"maps"
)

type elementConfig struct {
	id          string
	description string
	url         string
	technology  string
	group       string
	environment string
	location    Location
	tags        []string
	properties  map[string]string
	instances   int
	instanceID  int
	size        int64
}

func newElementConfig(opts []ElementOption) *elementConfig {
	cfg := &elementConfig{location: LocationUnspecified, instances: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ElementOption configures an element at creation. Options that do not
// apply to an element kind (technology on a person, say) are ignored.
type ElementOption func(*elementConfig)

// WithID uses an explicit identifier instead of a generated one.
func WithID(id string) ElementOption {
	return func(c *elementConfig) { c.id = id }
}

// WithDescription sets the description.
func WithDescription(d string) ElementOption {
	return func(c *elementConfig) { c.description = d }
}

// WithURL sets the URL.
func WithURL(u string) ElementOption {
	return func(c *elementConfig) { c.url = u }
}

// WithTags adds tags after the built-in ones.
func WithTags(tags ...string) ElementOption {
	return func(c *elementConfig) { c.tags = append(c.tags, tags...) }
}

// WithProperties merges properties.
func WithProperties(props map[string]string) ElementOption {
	return func(c *elementConfig) {
		if c.properties == nil {
			c.properties = make(map[string]string)
		}
		maps.Copy(c.properties, props)
	}
}

// WithProperty sets a single property.
func WithProperty(key, value string) ElementOption {
	return WithProperties(map[string]string{key: value})
}

// WithGroup places the element in a named group.
func WithGroup(group string) ElementOption {
	return func(c *elementConfig) { c.group = group }
}

// WithTechnology sets the technology of containers, components and
// deployment elements.
func WithTechnology(t string) ElementOption {
	return func(c *elementConfig) { c.technology = t }
}

// WithLocation sets the location of people and software systems.
func WithLocation(l Location) ElementOption {
	return func(c *elementConfig) { c.location = l }
}

// WithEnvironment sets the deployment environment of a deployment node or
// infrastructure node.
func WithEnvironment(env string) ElementOption {
	return func(c *elementConfig) { c.environment = env }
}

// WithInstances sets the number of instances of a deployment node.
func WithInstances(n int) ElementOption {
	return func(c *elementConfig) { c.instances = n }
}

// WithInstanceID fixes the instance number of a container or software
// system instance instead of allocating the next free one.
func WithInstanceID(n int) ElementOption {
	return func(c *elementConfig) { c.instanceID = n }
}

// WithSize sets the size of a component in bytes.
func WithSize(n int64) ElementOption {
	return func(c *elementConfig) { c.size = n }
}

type relationshipConfig struct {
	id                   string
	technology           string
	interactionStyle     InteractionStyle
	linkedRelationshipID string
	tags                 []string
	properties           map[string]string
	skipImplied          bool
}

// RelationshipOption configures a relationship at creation.
type RelationshipOption func(*relationshipConfig)

// WithRelationshipID uses an explicit identifier.
func WithRelationshipID(id string) RelationshipOption {
	return func(c *relationshipConfig) { c.id = id }
}

// WithRelationshipTechnology sets the technology.
func WithRelationshipTechnology(t string) RelationshipOption {
	return func(c *relationshipConfig) { c.technology = t }
}

// WithInteractionStyle sets the interaction style. The default is
// synchronous.
func WithInteractionStyle(s InteractionStyle) RelationshipOption {
	return func(c *relationshipConfig) { c.interactionStyle = s }
}

// WithRelationshipTags adds tags after the built-in ones.
func WithRelationshipTags(tags ...string) RelationshipOption {
	return func(c *relationshipConfig) { c.tags = append(c.tags, tags...) }
}

// WithRelationshipProperties merges properties.
func WithRelationshipProperties(props map[string]string) RelationshipOption {
	return func(c *relationshipConfig) {
		if c.properties == nil {
			c.properties = make(map[string]string)
		}
		maps.Copy(c.properties, props)
	}
}

// WithLinkedRelationshipID records the relationship this one was derived
// from.
func WithLinkedRelationshipID(id string) RelationshipOption {
	return func(c *relationshipConfig) { c.linkedRelationshipID = id }
}

// WithoutImpliedRelationships stops the model's implied relationship
// strategy from running for this relationship.
func WithoutImpliedRelationships() RelationshipOption {
	return func(c *relationshipConfig) { c.skipImplied = true }
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator replaces the default sequential integer generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Model) { m.idGenerator = g }
}

// WithImpliedRelationshipStrategy sets the strategy run after every
// relationship registration.
func WithImpliedRelationshipStrategy(s ImpliedRelationshipStrategy) Option {
	return func(m *Model) { m.impliedStrategy = s }
}

// WithLogger sets the logger used for debug events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEnterprise names the enterprise the model describes.
func WithEnterprise(name string) Option {
	return func(m *Model) { m.enterprise = name }
}
