package workspace

import (
	"github.com/Benny93/c4-go/model"
)

// Summary counts the contents of a workspace.
type Summary struct {
	Name                    string   `json:"name" yaml:"name"`
	People                  int      `json:"people" yaml:"people"`
	SoftwareSystems         int      `json:"softwareSystems" yaml:"softwareSystems"`
	Containers              int      `json:"containers" yaml:"containers"`
	Components              int      `json:"components" yaml:"components"`
	DeploymentNodes         int      `json:"deploymentNodes" yaml:"deploymentNodes"`
	InfrastructureNodes     int      `json:"infrastructureNodes" yaml:"infrastructureNodes"`
	ContainerInstances      int      `json:"containerInstances" yaml:"containerInstances"`
	SoftwareSystemInstances int      `json:"softwareSystemInstances" yaml:"softwareSystemInstances"`
	Relationships           int      `json:"relationships" yaml:"relationships"`
	Views                   int      `json:"views" yaml:"views"`
	Environments            []string `json:"environments,omitempty" yaml:"environments,omitempty"`
}

// Summarize counts the elements, relationships and views of w.
func (w *Workspace) Summarize() Summary {
	s := Summary{
		Name:          w.Name,
		Relationships: len(w.Model.Relationships()),
		Views:         len(w.Views.Views()) + len(w.Views.FilteredViews()),
		Environments:  w.Model.Environments(),
	}
	for _, e := range w.Model.Elements() {
		switch e.Kind() {
		case model.KindPerson:
			s.People++
		case model.KindSoftwareSystem:
			s.SoftwareSystems++
		case model.KindContainer:
			s.Containers++
		case model.KindComponent:
			s.Components++
		case model.KindDeploymentNode:
			s.DeploymentNodes++
		case model.KindInfrastructureNode:
			s.InfrastructureNodes++
		case model.KindContainerInstance:
			s.ContainerInstances++
		case model.KindSoftwareSystemInstance:
			s.SoftwareSystemInstances++
		}
	}
	return s
}
