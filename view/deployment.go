package view

import (
	"fmt"

	"github.com/Benny93/c4-go/model"
)

// DeploymentView shows how instances map onto deployment nodes in one
// environment, optionally limited to one software system.
type DeploymentView struct {
	viewBase
	environment string
}

// DeploymentViewOption configures a deployment view at creation.
type DeploymentViewOption func(*DeploymentView)

// ForSoftwareSystem limits the view to container instances of system.
func ForSoftwareSystem(system *model.SoftwareSystem) DeploymentViewOption {
	return func(v *DeploymentView) { v.softwareSystem = system }
}

// InEnvironment limits the view to one deployment environment.
func InEnvironment(environment string) DeploymentViewOption {
	return func(v *DeploymentView) { v.environment = environment }
}

func newDeploymentView(vs *ViewSet, key, description string, opts ...DeploymentViewOption) *DeploymentView {
	v := &DeploymentView{viewBase: newViewBase(vs, key, description, nil)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Type returns TypeDeployment.
func (v *DeploymentView) Type() Type { return TypeDeployment }

// Environment returns the environment in scope, empty for all.
func (v *DeploymentView) Environment() string { return v.environment }

// Name returns "Deployment", "<system> - Deployment", with " - <env>"
// appended when an environment is set.
func (v *DeploymentView) Name() string {
	name := "Deployment"
	if v.softwareSystem != nil {
		name = v.softwareSystem.Name() + " - Deployment"
	}
	if v.environment != "" {
		name += " - " + v.environment
	}
	return name
}

// AddAllDeploymentNodes adds every top-level node of the view's
// environment. Nodes without deployed content are skipped.
func (v *DeploymentView) AddAllDeploymentNodes() error {
	for _, node := range v.model.DeploymentNodes() {
		if v.environment != "" && node.Environment() != v.environment {
			continue
		}
		if err := v.Add(node, true); err != nil {
			return err
		}
	}
	return nil
}

// AddDefaultElements adds all deployment nodes.
func (v *DeploymentView) AddDefaultElements() error {
	return v.AddAllDeploymentNodes()
}

// Add places node, its deployed content and its ancestors on the view. A
// node whose subtree hosts no instances or infrastructure nodes is not
// added.
func (v *DeploymentView) Add(node *model.DeploymentNode, addRelationships bool) error {
	if node == nil || !v.model.Contains(node) {
		return fmt.Errorf("%w: deployment node", ErrElementNotInModel)
	}
	if v.environment != "" && node.Environment() != v.environment {
		return fmt.Errorf("%w: deployment node '%s' is in environment '%s', not '%s'",
			ErrElementNotPermitted, node.Name(), node.Environment(), v.environment)
	}
	added, err := v.addNodeChildren(node, addRelationships)
	if err != nil || !added {
		return err
	}
	for p := node.ParentNode(); p != nil; p = p.ParentNode() {
		if _, err := v.addElement(p, addRelationships); err != nil {
			return err
		}
	}
	return nil
}

// addNodeChildren adds the deployed content below node and, when there is
// any, node itself.
func (v *DeploymentView) addNodeChildren(node *model.DeploymentNode, addRelationships bool) (bool, error) {
	hasContent := false
	for _, si := range node.SoftwareSystemInstances() {
		if _, err := v.addElement(si, addRelationships); err != nil {
			return false, err
		}
		hasContent = true
	}
	for _, ci := range node.ContainerInstances() {
		if v.softwareSystem != nil && ci.Container().SoftwareSystem().ID() != v.softwareSystem.ID() {
			continue
		}
		if _, err := v.addElement(ci, addRelationships); err != nil {
			return false, err
		}
		hasContent = true
	}
	for _, in := range node.InfrastructureNodes() {
		if _, err := v.addElement(in, addRelationships); err != nil {
			return false, err
		}
		hasContent = true
	}
	for _, child := range node.Children() {
		childHasContent, err := v.addNodeChildren(child, addRelationships)
		if err != nil {
			return false, err
		}
		hasContent = hasContent || childHasContent
	}
	if hasContent {
		if _, err := v.addElement(node, addRelationships); err != nil {
			return false, err
		}
	}
	return hasContent, nil
}

// AddRelationship shows r when both of its ends are on the view.
func (v *DeploymentView) AddRelationship(r *model.Relationship) (*RelationshipView, error) {
	if r == nil || v.model.GetRelationship(r.ID()) != r {
		return nil, fmt.Errorf("%w: relationship", ErrElementNotInModel)
	}
	return v.addRelationship(r), nil
}

// Remove takes e off the view. Removing a deployment node also removes
// everything nested in it.
func (v *DeploymentView) Remove(e model.Element) {
	if model.IsNil(e) {
		return
	}
	if node, ok := e.(*model.DeploymentNode); ok {
		for _, child := range node.ChildElements() {
			v.Remove(child)
		}
	}
	v.removeElement(e)
}

// AddAnimation appends an animation step. Instances and infrastructure
// nodes bring their enclosing deployment nodes into the step.
func (v *DeploymentView) AddAnimation(elements ...model.Element) error {
	return v.addAnimationStep(elements)
}
