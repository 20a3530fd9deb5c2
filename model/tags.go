package model

import "strings"

// Built-in tags applied by the model.
const (
	TagElement                = "Element"
	TagRelationship           = "Relationship"
	TagPerson                 = "Person"
	TagSoftwareSystem         = "Software System"
	TagContainer              = "Container"
	TagComponent              = "Component"
	TagDeploymentNode         = "Deployment Node"
	TagInfrastructureNode     = "Infrastructure Node"
	TagContainerInstance      = "Container Instance"
	TagSoftwareSystemInstance = "Software System Instance"
	TagSynchronous            = "Synchronous"
	TagAsynchronous           = "Asynchronous"
)

// TagSet is an ordered set of tags. Insertion order is kept because it
// decides styling precedence.
type TagSet struct {
	order []string
	index map[string]struct{}
}

// NewTagSet creates a tag set holding tags in the given order.
func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{index: make(map[string]struct{})}
	ts.Add(tags...)
	return ts
}

// ParseTags splits a comma-joined tag string.
func ParseTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Add appends tags not yet present. Blank tags are skipped.
func (ts *TagSet) Add(tags ...string) {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := ts.index[t]; ok {
			continue
		}
		ts.index[t] = struct{}{}
		ts.order = append(ts.order, t)
	}
}

// Remove drops a tag and reports whether it was present.
func (ts *TagSet) Remove(tag string) bool {
	if _, ok := ts.index[tag]; !ok {
		return false
	}
	delete(ts.index, tag)
	for i, t := range ts.order {
		if t == tag {
			ts.order = append(ts.order[:i], ts.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether tag is in the set.
func (ts *TagSet) Has(tag string) bool {
	_, ok := ts.index[tag]
	return ok
}

// Clear removes every tag.
func (ts *TagSet) Clear() {
	ts.order = nil
	ts.index = make(map[string]struct{})
}

// Len returns the number of tags.
func (ts *TagSet) Len() int { return len(ts.order) }

// Slice returns a copy of the tags in insertion order.
func (ts *TagSet) Slice() []string {
	out := make([]string, len(ts.order))
	copy(out, ts.order)
	return out
}

// String joins the tags with commas, the wire representation.
func (ts *TagSet) String() string {
	return strings.Join(ts.order, ",")
}
