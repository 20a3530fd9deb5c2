package view

import (
	"fmt"

	"github.com/Benny93/c4-go/model"
)

// StaticView is the common base of system landscape, system context,
// container and component views.
type StaticView struct {
	viewBase
	viewType Type
	// permits rejects elements that cannot appear on this kind of view.
	permits func(e model.Element) error
	// neighbourKinds are used by AddNearestNeighbours when no kinds are
	// given.
	neighbourKinds []model.Kind
}

// Type returns the view type.
func (v *StaticView) Type() Type { return v.viewType }

// Name returns a display name derived from the scope.
func (v *StaticView) Name() string {
	switch v.viewType {
	case TypeSystemLandscape:
		return "System Landscape"
	case TypeSystemContext:
		return "System Context for " + v.softwareSystem.Name()
	case TypeContainer:
		return "Container View for " + v.softwareSystem.Name()
	}
	return v.key
}

// Add places e on the view. With addRelationships set, relationships to
// elements already on the view are shown too.
func (v *StaticView) Add(e model.Element, addRelationships bool) error {
	if model.IsNil(e) {
		return fmt.Errorf("%w: %s", ErrElementNotInModel, describe(e))
	}
	if err := v.permits(e); err != nil {
		return err
	}
	_, err := v.addElement(e, addRelationships)
	return err
}

// Remove takes e and its relationship views off the view.
func (v *StaticView) Remove(e model.Element) {
	v.removeElement(e)
}

// AddAllPeople adds every person in the model.
func (v *StaticView) AddAllPeople() error {
	for _, p := range v.model.People() {
		if v.permits(p) != nil {
			continue
		}
		if _, err := v.addElement(p, true); err != nil {
			return err
		}
	}
	return nil
}

// AddAllSoftwareSystems adds every software system the view permits.
func (v *StaticView) AddAllSoftwareSystems() error {
	for _, s := range v.model.SoftwareSystems() {
		if v.permits(s) != nil {
			continue
		}
		if _, err := v.addElement(s, true); err != nil {
			return err
		}
	}
	return nil
}

// AddNearestNeighbours adds e and every element of the given kinds
// directly connected to it, with their relationships. Without kinds the
// view's default neighbour kinds are used.
func (v *StaticView) AddNearestNeighbours(e model.Element, kinds ...model.Kind) error {
	if err := v.Add(e, true); err != nil {
		return err
	}
	if len(kinds) == 0 {
		kinds = v.neighbourKinds
	}
	for _, kind := range kinds {
		for _, r := range v.model.Relationships() {
			var neighbour model.Element
			switch {
			case r.Source().ID() == e.ID() && r.Destination().Kind() == kind:
				neighbour = r.Destination()
			case r.Destination().ID() == e.ID() && r.Source().Kind() == kind:
				neighbour = r.Source()
			default:
				continue
			}
			if v.permits(neighbour) != nil {
				continue
			}
			if _, err := v.addElement(neighbour, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddAnimation appends an animation step showing elements that have not
// appeared in an earlier step.
func (v *StaticView) AddAnimation(elements ...model.Element) error {
	return v.addAnimationStep(elements)
}

func permitPeopleAndSoftwareSystems(e model.Element) error {
	switch e.Kind() {
	case model.KindPerson, model.KindSoftwareSystem:
		return nil
	}
	return fmt.Errorf("%w: only people and software systems can be added to this view, not %s", ErrElementNotPermitted, describe(e))
}

// SystemLandscapeView shows the people and software systems of the
// enterprise.
type SystemLandscapeView struct {
	StaticView
	EnterpriseBoundaryVisible bool
}

func newSystemLandscapeView(vs *ViewSet, key, description string) *SystemLandscapeView {
	v := &SystemLandscapeView{EnterpriseBoundaryVisible: true}
	v.StaticView = StaticView{
		viewBase:       newViewBase(vs, key, description, nil),
		viewType:       TypeSystemLandscape,
		permits:        permitPeopleAndSoftwareSystems,
		neighbourKinds: []model.Kind{model.KindSoftwareSystem, model.KindPerson},
	}
	return v
}

// AddAllElements adds every software system and person.
func (v *SystemLandscapeView) AddAllElements() error {
	if err := v.AddAllSoftwareSystems(); err != nil {
		return err
	}
	return v.AddAllPeople()
}

// SystemContextView shows a software system with its users and the
// systems it depends on.
type SystemContextView struct {
	StaticView
	EnterpriseBoundaryVisible bool
}

func newSystemContextView(vs *ViewSet, system *model.SoftwareSystem, key, description string) (*SystemContextView, error) {
	v := &SystemContextView{EnterpriseBoundaryVisible: true}
	v.StaticView = StaticView{
		viewBase:       newViewBase(vs, key, description, system),
		viewType:       TypeSystemContext,
		permits:        permitPeopleAndSoftwareSystems,
		neighbourKinds: []model.Kind{model.KindSoftwareSystem, model.KindPerson},
	}
	if _, err := v.addElement(system, true); err != nil {
		return nil, err
	}
	return v, nil
}

// AddAllElements adds every software system and person.
func (v *SystemContextView) AddAllElements() error {
	if err := v.AddAllSoftwareSystems(); err != nil {
		return err
	}
	return v.AddAllPeople()
}

// ContainerView shows the containers of a software system.
type ContainerView struct {
	StaticView
	ExternalSoftwareSystemBoundariesVisible bool
}

func newContainerView(vs *ViewSet, system *model.SoftwareSystem, key, description string) *ContainerView {
	v := &ContainerView{ExternalSoftwareSystemBoundariesVisible: true}
	v.StaticView = StaticView{
		viewBase:       newViewBase(vs, key, description, system),
		viewType:       TypeContainer,
		neighbourKinds: []model.Kind{model.KindSoftwareSystem, model.KindPerson, model.KindContainer},
	}
	v.permits = func(e model.Element) error {
		switch e.Kind() {
		case model.KindPerson:
			return nil
		case model.KindSoftwareSystem:
			if e.ID() == system.ID() {
				return fmt.Errorf("%w: %s is already the scope of this view", ErrElementNotPermitted, e.Name())
			}
		case model.KindContainer:
		default:
			return fmt.Errorf("%w: only people, software systems and containers can be added to a container view, not %s", ErrElementNotPermitted, describe(e))
		}
		return v.checkParentAndChildrenNotInView(e)
	}
	return v
}

// AddAllContainers adds the containers of the software system in scope.
func (v *ContainerView) AddAllContainers() error {
	for _, c := range v.softwareSystem.Containers() {
		if err := v.Add(c, true); err != nil {
			return err
		}
	}
	return nil
}

// AddAllElements adds all people, other software systems and the
// containers in scope.
func (v *ContainerView) AddAllElements() error {
	if err := v.AddAllPeople(); err != nil {
		return err
	}
	if err := v.AddAllSoftwareSystems(); err != nil {
		return err
	}
	return v.AddAllContainers()
}

// ComponentView shows the components of a container.
type ComponentView struct {
	StaticView
	container                          *model.Container
	ExternalContainerBoundariesVisible bool
}

func newComponentView(vs *ViewSet, container *model.Container, key, description string) *ComponentView {
	v := &ComponentView{container: container, ExternalContainerBoundariesVisible: true}
	v.StaticView = StaticView{
		viewBase:       newViewBase(vs, key, description, container.SoftwareSystem()),
		viewType:       TypeComponent,
		neighbourKinds: []model.Kind{model.KindSoftwareSystem, model.KindPerson, model.KindContainer, model.KindComponent},
	}
	v.permits = func(e model.Element) error {
		switch e.Kind() {
		case model.KindPerson:
			return nil
		case model.KindSoftwareSystem:
			if e.ID() == container.SoftwareSystem().ID() {
				return fmt.Errorf("%w: %s is already the scope of this view", ErrElementNotPermitted, e.Name())
			}
		case model.KindContainer:
			if e.ID() == container.ID() {
				return fmt.Errorf("%w: %s is already the scope of this view", ErrElementNotPermitted, e.Name())
			}
		case model.KindComponent:
		default:
			return fmt.Errorf("%w: only people, software systems, containers and components can be added to a component view, not %s", ErrElementNotPermitted, describe(e))
		}
		return v.checkParentAndChildrenNotInView(e)
	}
	return v
}

// Container returns the container in scope.
func (v *ComponentView) Container() *model.Container { return v.container }

// Name returns "<system> - <container> - Components".
func (v *ComponentView) Name() string {
	return v.softwareSystem.Name() + " - " + v.container.Name() + " - Components"
}

// AddAllContainers adds the other containers of the software system.
func (v *ComponentView) AddAllContainers() error {
	for _, c := range v.softwareSystem.Containers() {
		if v.permits(c) != nil {
			continue
		}
		if _, err := v.addElement(c, true); err != nil {
			return err
		}
	}
	return nil
}

// AddAllComponents adds the components of the container in scope.
func (v *ComponentView) AddAllComponents() error {
	for _, c := range v.container.Components() {
		if err := v.Add(c, true); err != nil {
			return err
		}
	}
	return nil
}

// AddAllElements adds people, software systems, containers and the
// components in scope.
func (v *ComponentView) AddAllElements() error {
	if err := v.AddAllPeople(); err != nil {
		return err
	}
	if err := v.AddAllSoftwareSystems(); err != nil {
		return err
	}
	if err := v.AddAllContainers(); err != nil {
		return err
	}
	return v.AddAllComponents()
}
