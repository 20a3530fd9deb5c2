package model

import (
	"maps"
	"sort"
)

// Perspective is an architectural perspective (security, operations, ...)
// attached to an element or relationship.
type Perspective struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// modelItem holds the state shared by elements and relationships.
type modelItem struct {
	id           string
	tags         *TagSet
	properties   map[string]string
	perspectives []Perspective
}

func newModelItem(id string, tags ...string) modelItem {
	return modelItem{
		id:         id,
		tags:       NewTagSet(tags...),
		properties: make(map[string]string),
	}
}

// ID returns the identifier, unique across all elements and relationships
// of a model.
func (mi *modelItem) ID() string { return mi.id }

// Tags returns the tags in insertion order.
func (mi *modelItem) Tags() []string { return mi.tags.Slice() }

// TagString returns the comma-joined tags.
func (mi *modelItem) TagString() string { return mi.tags.String() }

// HasTag reports whether the item carries tag.
func (mi *modelItem) HasTag(tag string) bool { return mi.tags.Has(tag) }

// AddTags appends tags, keeping the existing order.
func (mi *modelItem) AddTags(tags ...string) { mi.tags.Add(tags...) }

// RemoveTag removes a tag and reports whether it was present.
func (mi *modelItem) RemoveTag(tag string) bool { return mi.tags.Remove(tag) }

// SetTags replaces all tags, including the built-in ones.
func (mi *modelItem) SetTags(tags ...string) {
	mi.tags.Clear()
	mi.tags.Add(tags...)
}

// Properties returns a copy of the properties.
func (mi *modelItem) Properties() map[string]string {
	return maps.Clone(mi.properties)
}

// Property returns a single property value.
func (mi *modelItem) Property(key string) (string, bool) {
	v, ok := mi.properties[key]
	return v, ok
}

// SetProperty sets a property. Empty keys are ignored.
func (mi *modelItem) SetProperty(key, value string) {
	if key == "" {
		return
	}
	mi.properties[key] = value
}

// Perspectives returns the perspectives sorted by name.
func (mi *modelItem) Perspectives() []Perspective {
	out := make([]Perspective, len(mi.perspectives))
	copy(out, mi.perspectives)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddPerspective adds or replaces the perspective with the given name.
func (mi *modelItem) AddPerspective(name, description string) {
	if name == "" {
		return
	}
	for i := range mi.perspectives {
		if mi.perspectives[i].Name == name {
			mi.perspectives[i].Description = description
			return
		}
	}
	mi.perspectives = append(mi.perspectives, Perspective{Name: name, Description: description})
}
