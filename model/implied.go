package model

import "log/slog"

// ImpliedRelationshipStrategy derives ancestor-level relationships after a
// relationship is registered.
type ImpliedRelationshipStrategy interface {
	CreateImpliedRelationships(m *Model, r *Relationship) error
}

// ImpliedRelationshipStrategyFunc adapts a function to
// ImpliedRelationshipStrategy.
type ImpliedRelationshipStrategyFunc func(m *Model, r *Relationship) error

// CreateImpliedRelationships calls f.
func (f ImpliedRelationshipStrategyFunc) CreateImpliedRelationships(m *Model, r *Relationship) error {
	return f(m, r)
}

var (
	// IgnoreImpliedRelationships never creates implied relationships.
	IgnoreImpliedRelationships ImpliedRelationshipStrategy = ImpliedRelationshipStrategyFunc(
		func(*Model, *Relationship) error { return nil },
	)

	// CreateImpliedRelationshipsUnlessAnyExist creates a relationship
	// between every valid pair of ancestors unless the ancestor source
	// already has any relationship to the ancestor destination.
	CreateImpliedRelationshipsUnlessAnyExist ImpliedRelationshipStrategy = ImpliedRelationshipStrategyFunc(
		func(m *Model, r *Relationship) error {
			return createImpliedRelationships(m, r, func(s, d Element) bool {
				return s.base().HasEfferentRelationshipWith(d)
			})
		},
	)

	// CreateImpliedRelationshipsUnlessSameExists creates a relationship
	// between every valid pair of ancestors unless the ancestor source
	// already has a relationship to the ancestor destination with the same
	// description.
	CreateImpliedRelationshipsUnlessSameExists ImpliedRelationshipStrategy = ImpliedRelationshipStrategyFunc(
		func(m *Model, r *Relationship) error {
			return createImpliedRelationships(m, r, func(s, d Element) bool {
				return s.base().EfferentRelationshipWith(d, &r.description) != nil
			})
		},
	)
)

// createImpliedRelationships walks source ancestors (outer) and
// destination ancestors (inner) and clones r onto each allowed pair for
// which exists reports false.
func createImpliedRelationships(m *Model, r *Relationship, exists func(s, d Element) bool) error {
	source, destination := r.source, r.destination
	for _, s := range ancestors(source) {
		for _, d := range ancestors(destination) {
			if s.ID() == source.ID() && d.ID() == destination.ID() {
				continue
			}
			if !impliedRelationshipIsAllowed(s, d) || exists(s, d) {
				continue
			}
			implied, err := m.AddRelationship(s, d, r.description,
				WithRelationshipTechnology(r.technology),
				WithInteractionStyle(r.interactionStyle),
				WithRelationshipTags(r.Tags()...),
				WithRelationshipProperties(r.properties),
				WithLinkedRelationshipID(r.id),
				WithoutImpliedRelationships(),
			)
			if err != nil {
				return err
			}
			m.logger.Debug("implied relationship created",
				slog.String("id", implied.id),
				slog.String("source", s.Name()),
				slog.String("destination", d.Name()),
				slog.String("linked", r.id))
		}
	}
	return nil
}

// ancestors returns e followed by its parents, stopping at (and including)
// the nearest software system.
func ancestors(e Element) []Element {
	out := []Element{e}
	for cur := e; cur.Kind() != KindSoftwareSystem; {
		cur = cur.Parent()
		if cur == nil {
			break
		}
		out = append(out, cur)
	}
	return out
}

func impliedRelationshipIsAllowed(s, d Element) bool {
	if s.ID() == d.ID() {
		return false
	}
	return !isAncestorOf(s, d) && !isAncestorOf(d, s)
}
