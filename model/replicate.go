package model

import "log/slog"

// replicateElementRelationships mirrors the relationships between inst's
// underlying element and the elements of every other instance in the same
// environment, in both directions. A relationship already replicated
// between the same two instances is not added again.
func (m *Model) replicateElementRelationships(inst Instance) error {
	element := inst.InstanceOf()
	for _, other := range m.ElementInstances(inst.Environment()) {
		if other.ID() == inst.ID() {
			continue
		}
		otherElement := other.InstanceOf()

		for _, r := range element.Relationships() {
			if r.destination.ID() != otherElement.ID() {
				continue
			}
			if err := m.replicate(r, inst, other); err != nil {
				return err
			}
		}
		for _, r := range otherElement.Relationships() {
			if r.destination.ID() != element.ID() {
				continue
			}
			if err := m.replicate(r, other, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Model) replicate(original *Relationship, source, destination Instance) error {
	for _, existing := range source.Relationships() {
		if existing.destination.ID() == destination.ID() && existing.linkedRelationshipID == original.id {
			return nil
		}
	}
	r, err := m.AddRelationship(source, destination, original.description,
		WithRelationshipTechnology(original.technology),
		WithInteractionStyle(original.interactionStyle),
		WithLinkedRelationshipID(original.id),
		WithoutImpliedRelationships(),
	)
	if err != nil {
		return err
	}
	r.SetTags()
	m.logger.Debug("relationship replicated",
		slog.String("id", r.id),
		slog.String("source", source.CanonicalName()),
		slog.String("destination", destination.CanonicalName()),
		slog.String("linked", original.id))
	return nil
}
