package view

import (
	"slices"

	"github.com/Benny93/c4-go/model"
)

// FilterMode decides whether a filtered view keeps or drops the tagged
// items of its base view.
type FilterMode string

// Filter modes.
const (
	FilterInclude FilterMode = "Include"
	FilterExclude FilterMode = "Exclude"
)

// FilteredView is a static view restricted by tags. It has no layout of
// its own; renderers apply the filter to the base view.
type FilteredView struct {
	key         string
	description string
	baseViewKey string
	mode        FilterMode
	tags        []string
	viewSet     *ViewSet
}

// Key returns the unique key.
func (f *FilteredView) Key() string { return f.key }

// Description returns the description.
func (f *FilteredView) Description() string { return f.description }

// BaseViewKey returns the key of the filtered static view.
func (f *FilteredView) BaseViewKey() string { return f.baseViewKey }

// BaseView resolves the base view, or returns nil.
func (f *FilteredView) BaseView() View { return f.viewSet.GetView(f.baseViewKey) }

// Mode returns the filter mode.
func (f *FilteredView) Mode() FilterMode { return f.mode }

// Tags returns the filter tags.
func (f *FilteredView) Tags() []string { return slices.Clone(f.tags) }

// Matches reports whether a model item with the given tags passes the
// filter.
func (f *FilteredView) Matches(tags []string) bool {
	hit := false
	for _, t := range f.tags {
		if slices.Contains(tags, t) {
			hit = true
			break
		}
	}
	if f.mode == FilterExclude {
		return !hit
	}
	return hit
}

// Elements returns the base view's elements that pass the filter.
func (f *FilteredView) Elements() []model.Element {
	base := f.BaseView()
	if base == nil {
		return nil
	}
	var out []model.Element
	for _, ev := range base.ElementViews() {
		if f.Matches(ev.Element().Tags()) {
			out = append(out, ev.Element())
		}
	}
	return out
}

// Relationships returns the base view's relationships that pass the
// filter and whose ends both pass it.
func (f *FilteredView) Relationships() []*model.Relationship {
	base := f.BaseView()
	if base == nil {
		return nil
	}
	var out []*model.Relationship
	for _, rv := range base.RelationshipViews() {
		r := rv.Relationship()
		if f.Matches(r.Tags()) && f.Matches(r.Source().Tags()) && f.Matches(r.Destination().Tags()) {
			out = append(out, r)
		}
	}
	return out
}
