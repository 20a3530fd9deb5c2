package view

import (
	"fmt"

	"github.com/Benny93/c4-go/model"
)

// ViewSet owns the views of a workspace.
type ViewSet struct {
	model *model.Model

	systemLandscapeViews []*SystemLandscapeView
	systemContextViews   []*SystemContextView
	containerViews       []*ContainerView
	componentViews       []*ComponentView
	deploymentViews      []*DeploymentView
	dynamicViews         []*DynamicView
	filteredViews        []*FilteredView
}

// NewViewSet creates an empty view set over m.
func NewViewSet(m *model.Model) *ViewSet {
	return &ViewSet{model: m}
}

// Model returns the model the views project.
func (vs *ViewSet) Model() *model.Model { return vs.model }

// IsEmpty reports whether there are no views.
func (vs *ViewSet) IsEmpty() bool {
	return len(vs.Views()) == 0 && len(vs.filteredViews) == 0
}

// CreateSystemLandscapeView adds a system landscape view.
func (vs *ViewSet) CreateSystemLandscapeView(key, description string) (*SystemLandscapeView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	v := newSystemLandscapeView(vs, key, description)
	vs.systemLandscapeViews = append(vs.systemLandscapeViews, v)
	return v, nil
}

// CreateSystemContextView adds a system context view of system. The system
// is placed on the view.
func (vs *ViewSet) CreateSystemContextView(system *model.SoftwareSystem, key, description string) (*SystemContextView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	if system == nil {
		return nil, fmt.Errorf("%w: a system context view needs a software system", ErrElementNotInModel)
	}
	v, err := newSystemContextView(vs, system, key, description)
	if err != nil {
		return nil, err
	}
	vs.systemContextViews = append(vs.systemContextViews, v)
	return v, nil
}

// CreateContainerView adds a container view of system.
func (vs *ViewSet) CreateContainerView(system *model.SoftwareSystem, key, description string) (*ContainerView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	if system == nil {
		return nil, fmt.Errorf("%w: a container view needs a software system", ErrElementNotInModel)
	}
	if !vs.model.Contains(system) {
		return nil, fmt.Errorf("%w: %s", ErrElementNotInModel, describe(system))
	}
	v := newContainerView(vs, system, key, description)
	vs.containerViews = append(vs.containerViews, v)
	return v, nil
}

// CreateComponentView adds a component view of container.
func (vs *ViewSet) CreateComponentView(container *model.Container, key, description string) (*ComponentView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("%w: a component view needs a container", ErrElementNotInModel)
	}
	if !vs.model.Contains(container) {
		return nil, fmt.Errorf("%w: %s", ErrElementNotInModel, describe(container))
	}
	v := newComponentView(vs, container, key, description)
	vs.componentViews = append(vs.componentViews, v)
	return v, nil
}

// CreateDeploymentView adds a deployment view.
func (vs *ViewSet) CreateDeploymentView(key, description string, opts ...DeploymentViewOption) (*DeploymentView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	v := newDeploymentView(vs, key, description, opts...)
	if v.softwareSystem != nil && !vs.model.Contains(v.softwareSystem) {
		return nil, fmt.Errorf("%w: %s", ErrElementNotInModel, describe(v.softwareSystem))
	}
	vs.deploymentViews = append(vs.deploymentViews, v)
	return v, nil
}

// CreateDynamicView adds a dynamic view scoped to a software system, a
// container, or nothing (scope nil).
func (vs *ViewSet) CreateDynamicView(scope model.Element, key, description string) (*DynamicView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	v, err := newDynamicView(vs, scope, key, description)
	if err != nil {
		return nil, err
	}
	vs.dynamicViews = append(vs.dynamicViews, v)
	return v, nil
}

// CreateFilteredView adds a tag filter over the static view with key
// baseViewKey.
func (vs *ViewSet) CreateFilteredView(baseViewKey, key, description string, mode FilterMode, tags ...string) (*FilteredView, error) {
	if err := vs.ensureKeyIsSpecificAndUnique(key); err != nil {
		return nil, err
	}
	base := vs.GetView(baseViewKey)
	if base == nil {
		return nil, fmt.Errorf("%w: no view with key '%s' to filter", ErrInvalidKey, baseViewKey)
	}
	if _, ok := base.(staticView); !ok {
		return nil, fmt.Errorf("%w: only static views can be filtered, '%s' is a %s view", ErrElementNotPermitted, baseViewKey, base.Type())
	}
	if mode == "" {
		mode = FilterInclude
	}
	f := &FilteredView{
		key:         key,
		description: description,
		baseViewKey: baseViewKey,
		mode:        mode,
		tags:        append([]string(nil), tags...),
		viewSet:     vs,
	}
	vs.filteredViews = append(vs.filteredViews, f)
	return f, nil
}

type staticView interface {
	AddNearestNeighbours(e model.Element, kinds ...model.Kind) error
}

// SystemLandscapeViews returns the system landscape views.
func (vs *ViewSet) SystemLandscapeViews() []*SystemLandscapeView {
	return append([]*SystemLandscapeView(nil), vs.systemLandscapeViews...)
}

// SystemContextViews returns the system context views.
func (vs *ViewSet) SystemContextViews() []*SystemContextView {
	return append([]*SystemContextView(nil), vs.systemContextViews...)
}

// ContainerViews returns the container views.
func (vs *ViewSet) ContainerViews() []*ContainerView {
	return append([]*ContainerView(nil), vs.containerViews...)
}

// ComponentViews returns the component views.
func (vs *ViewSet) ComponentViews() []*ComponentView {
	return append([]*ComponentView(nil), vs.componentViews...)
}

// DeploymentViews returns the deployment views.
func (vs *ViewSet) DeploymentViews() []*DeploymentView {
	return append([]*DeploymentView(nil), vs.deploymentViews...)
}

// DynamicViews returns the dynamic views.
func (vs *ViewSet) DynamicViews() []*DynamicView {
	return append([]*DynamicView(nil), vs.dynamicViews...)
}

// FilteredViews returns the filtered views.
func (vs *ViewSet) FilteredViews() []*FilteredView {
	return append([]*FilteredView(nil), vs.filteredViews...)
}

// Views returns every non-filtered view, grouped by type.
func (vs *ViewSet) Views() []View {
	var out []View
	for _, v := range vs.systemLandscapeViews {
		out = append(out, v)
	}
	for _, v := range vs.systemContextViews {
		out = append(out, v)
	}
	for _, v := range vs.containerViews {
		out = append(out, v)
	}
	for _, v := range vs.componentViews {
		out = append(out, v)
	}
	for _, v := range vs.deploymentViews {
		out = append(out, v)
	}
	for _, v := range vs.dynamicViews {
		out = append(out, v)
	}
	return out
}

// GetView returns the non-filtered view with key, or nil.
func (vs *ViewSet) GetView(key string) View {
	for _, v := range vs.Views() {
		if v.Key() == key {
			return v
		}
	}
	return nil
}

// GetFilteredView returns the filtered view with key, or nil.
func (vs *ViewSet) GetFilteredView(key string) *FilteredView {
	for _, f := range vs.filteredViews {
		if f.key == key {
			return f
		}
	}
	return nil
}

// CopyLayoutInformationFrom copies element positions, relationship
// vertices and paper sizes from views in src with the same key and type.
func (vs *ViewSet) CopyLayoutInformationFrom(src *ViewSet) {
	if src == nil {
		return
	}
	for _, sv := range src.Views() {
		dv := vs.GetView(sv.Key())
		if dv == nil || dv.Type() != sv.Type() {
			continue
		}
		dv.base().copyLayoutInformationFrom(sv.base())
	}
}

func (vs *ViewSet) ensureKeyIsSpecificAndUnique(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if vs.GetView(key) != nil || vs.GetFilteredView(key) != nil {
		return fmt.Errorf("%w: a view with key '%s' already exists", ErrDuplicateKey, key)
	}
	return nil
}
