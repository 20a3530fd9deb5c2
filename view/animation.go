package view

import (
	"fmt"
	"slices"

	"github.com/Benny93/c4-go/model"
)

// Animation is one step of a view's animation: the elements and
// relationships that appear at this step.
type Animation struct {
	Order         int      `json:"order" yaml:"order"`
	Elements      []string `json:"elements,omitempty" yaml:"elements,omitempty"`
	Relationships []string `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

func (a Animation) clone() Animation {
	return Animation{
		Order:         a.Order,
		Elements:      slices.Clone(a.Elements),
		Relationships: slices.Clone(a.Relationships),
	}
}

// addAnimationStep appends a step showing elements not shown by an
// earlier step. Deployment elements bring their enclosing deployment
// nodes with them. Relationships join the step once both of their ends
// have appeared.
func (v *viewBase) addAnimationStep(elements []model.Element) error {
	if len(elements) == 0 {
		return fmt.Errorf("%w: one or more elements must be specified", ErrEmptyAnimation)
	}

	claimed := make(map[string]bool)
	for _, a := range v.animations {
		for _, id := range a.Elements {
			claimed[id] = true
		}
	}

	var stepElements []string
	inStep := make(map[string]bool)
	claim := func(e model.Element) {
		id := e.ID()
		if claimed[id] || inStep[id] || !v.IsElementInView(e) {
			return
		}
		inStep[id] = true
		stepElements = append(stepElements, id)
	}
	for _, e := range elements {
		if model.IsNil(e) || !v.IsElementInView(e) {
			continue
		}
		claim(e)
		if e.Kind().IsDeployment() {
			for p := e.Parent(); p != nil; p = p.Parent() {
				claim(p)
			}
		}
	}
	if len(stepElements) == 0 {
		return fmt.Errorf("%w: none of the specified elements exist in this view or they were animated already", ErrEmptyAnimation)
	}

	var stepRelationships []string
	seen := make(map[string]bool)
	for _, rv := range v.relationshipViews {
		src, dst := rv.relationship.SourceID(), rv.relationship.DestinationID()
		shown := func(id string) bool { return claimed[id] || inStep[id] }
		if (inStep[src] && shown(dst)) || (inStep[dst] && shown(src)) {
			if !seen[rv.ID()] {
				seen[rv.ID()] = true
				stepRelationships = append(stepRelationships, rv.ID())
			}
		}
	}

	v.animations = append(v.animations, Animation{
		Order:         len(v.animations) + 1,
		Elements:      stepElements,
		Relationships: stepRelationships,
	})
	return nil
}
