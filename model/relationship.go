package model

// InteractionStyle describes whether a relationship is a blocking call or
// a message.
type InteractionStyle string

// Interaction styles.
const (
	Synchronous  InteractionStyle = "Synchronous"
	Asynchronous InteractionStyle = "Asynchronous"
)

// ParseInteractionStyle maps a wire value to an InteractionStyle,
// defaulting to synchronous.
func ParseInteractionStyle(s string) InteractionStyle {
	if InteractionStyle(s) == Asynchronous {
		return Asynchronous
	}
	return Synchronous
}

func (s InteractionStyle) tag() string {
	if s == Asynchronous {
		return TagAsynchronous
	}
	return TagSynchronous
}

// Relationship is a directed, described edge between two elements.
type Relationship struct {
	modelItem
	source               Element
	destination          Element
	description          string
	technology           string
	interactionStyle     InteractionStyle
	linkedRelationshipID string

	registered bool
}

// NewRelationship builds an unregistered relationship. Pass it to
// Model.RegisterRelationship to add it to a model.
func NewRelationship(source, destination Element, description string, opts ...RelationshipOption) *Relationship {
	cfg := &relationshipConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newRelationship(source, destination, description, cfg)
}

func newRelationship(source, destination Element, description string, cfg *relationshipConfig) *Relationship {
	style := cfg.interactionStyle
	if style == "" {
		style = Synchronous
	}
	r := &Relationship{
		modelItem:            newModelItem(cfg.id, TagRelationship, style.tag()),
		source:               source,
		destination:          destination,
		description:          description,
		technology:           cfg.technology,
		interactionStyle:     style,
		linkedRelationshipID: cfg.linkedRelationshipID,
	}
	r.tags.Add(cfg.tags...)
	for k, v := range cfg.properties {
		r.SetProperty(k, v)
	}
	return r
}

// Source returns the source element.
func (r *Relationship) Source() Element { return r.source }

// Destination returns the destination element.
func (r *Relationship) Destination() Element { return r.destination }

// SourceID returns the id of the source element.
func (r *Relationship) SourceID() string { return r.source.ID() }

// DestinationID returns the id of the destination element.
func (r *Relationship) DestinationID() string { return r.destination.ID() }

// Description returns the description.
func (r *Relationship) Description() string { return r.description }

// SetDescription replaces the description.
func (r *Relationship) SetDescription(d string) { r.description = d }

// Technology returns the technology.
func (r *Relationship) Technology() string { return r.technology }

// SetTechnology replaces the technology.
func (r *Relationship) SetTechnology(t string) { r.technology = t }

// InteractionStyle returns the interaction style.
func (r *Relationship) InteractionStyle() InteractionStyle { return r.interactionStyle }

// SetInteractionStyle changes the style and swaps the matching tag.
func (r *Relationship) SetInteractionStyle(s InteractionStyle) {
	if s == "" {
		s = Synchronous
	}
	r.tags.Remove(r.interactionStyle.tag())
	r.interactionStyle = s
	r.tags.Add(s.tag())
}

// LinkedRelationshipID returns the id of the relationship this one was
// implied from or replicated from, if any.
func (r *Relationship) LinkedRelationshipID() string { return r.linkedRelationshipID }

// String renders "source -> destination (description)" for messages.
func (r *Relationship) String() string {
	s := "<nil>"
	if !IsNil(r.source) {
		s = r.source.Name()
	}
	d := "<nil>"
	if !IsNil(r.destination) {
		d = r.destination.Name()
	}
	if r.description == "" {
		return s + " -> " + d
	}
	return s + " -> " + d + " (" + r.description + ")"
}
