package workspace

import (
	"time"

	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
)

// The document types below mirror the Structurizr workspace JSON schema.
// Tags on elements and relationships are comma-joined strings; filtered
// view tags are arrays.

type workspaceDoc struct {
	ID                int64      `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string     `json:"name" yaml:"name"`
	Description       string     `json:"description,omitempty" yaml:"description,omitempty"`
	Version           string     `json:"version,omitempty" yaml:"version,omitempty"`
	Revision          int64      `json:"revision,omitempty" yaml:"revision,omitempty"`
	Thumbnail         string     `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	LastModifiedDate  *time.Time `json:"lastModifiedDate,omitempty" yaml:"lastModifiedDate,omitempty"`
	LastModifiedUser  string     `json:"lastModifiedUser,omitempty" yaml:"lastModifiedUser,omitempty"`
	LastModifiedAgent string     `json:"lastModifiedAgent,omitempty" yaml:"lastModifiedAgent,omitempty"`
	Model             modelDoc   `json:"model" yaml:"model"`
	Views             viewsDoc   `json:"views" yaml:"views"`
}

type enterpriseDoc struct {
	Name string `json:"name" yaml:"name"`
}

type modelDoc struct {
	Enterprise      *enterpriseDoc      `json:"enterprise,omitempty" yaml:"enterprise,omitempty"`
	People          []personDoc         `json:"people,omitempty" yaml:"people,omitempty"`
	SoftwareSystems []softwareSystemDoc `json:"softwareSystems,omitempty" yaml:"softwareSystems,omitempty"`
	DeploymentNodes []deploymentNodeDoc `json:"deploymentNodes,omitempty" yaml:"deploymentNodes,omitempty"`
}

type elementDoc struct {
	ID            string              `json:"id" yaml:"id"`
	Name          string              `json:"name,omitempty" yaml:"name,omitempty"`
	Description   string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	URL           string              `json:"url,omitempty" yaml:"url,omitempty"`
	Properties    map[string]string   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Perspectives  []model.Perspective `json:"perspectives,omitempty" yaml:"perspectives,omitempty"`
	Relationships []relationshipDoc   `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

type personDoc struct {
	elementDoc `yaml:",inline"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
}

type softwareSystemDoc struct {
	elementDoc `yaml:",inline"`
	Location   string         `json:"location,omitempty" yaml:"location,omitempty"`
	Group      string         `json:"group,omitempty" yaml:"group,omitempty"`
	Containers []containerDoc `json:"containers,omitempty" yaml:"containers,omitempty"`
}

type containerDoc struct {
	elementDoc `yaml:",inline"`
	Technology string         `json:"technology,omitempty" yaml:"technology,omitempty"`
	Group      string         `json:"group,omitempty" yaml:"group,omitempty"`
	Components []componentDoc `json:"components,omitempty" yaml:"components,omitempty"`
}

type componentDoc struct {
	elementDoc `yaml:",inline"`
	Technology string `json:"technology,omitempty" yaml:"technology,omitempty"`
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
	Size       int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

type deploymentNodeDoc struct {
	elementDoc              `yaml:",inline"`
	Environment             string                      `json:"environment,omitempty" yaml:"environment,omitempty"`
	Technology              string                      `json:"technology,omitempty" yaml:"technology,omitempty"`
	Instances               int                         `json:"instances,omitempty" yaml:"instances,omitempty"`
	Children                []deploymentNodeDoc         `json:"children,omitempty" yaml:"children,omitempty"`
	InfrastructureNodes     []infrastructureNodeDoc     `json:"infrastructureNodes,omitempty" yaml:"infrastructureNodes,omitempty"`
	ContainerInstances      []containerInstanceDoc      `json:"containerInstances,omitempty" yaml:"containerInstances,omitempty"`
	SoftwareSystemInstances []softwareSystemInstanceDoc `json:"softwareSystemInstances,omitempty" yaml:"softwareSystemInstances,omitempty"`
}

type infrastructureNodeDoc struct {
	elementDoc  `yaml:",inline"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Technology  string `json:"technology,omitempty" yaml:"technology,omitempty"`
}

type containerInstanceDoc struct {
	elementDoc   `yaml:",inline"`
	Environment  string              `json:"environment,omitempty" yaml:"environment,omitempty"`
	InstanceID   int                 `json:"instanceId" yaml:"instanceId"`
	ContainerID  string              `json:"containerId" yaml:"containerId"`
	HealthChecks []model.HealthCheck `json:"healthChecks,omitempty" yaml:"healthChecks,omitempty"`
}

type softwareSystemInstanceDoc struct {
	elementDoc       `yaml:",inline"`
	Environment      string              `json:"environment,omitempty" yaml:"environment,omitempty"`
	InstanceID       int                 `json:"instanceId" yaml:"instanceId"`
	SoftwareSystemID string              `json:"softwareSystemId" yaml:"softwareSystemId"`
	HealthChecks     []model.HealthCheck `json:"healthChecks,omitempty" yaml:"healthChecks,omitempty"`
}

type relationshipDoc struct {
	ID                   string              `json:"id" yaml:"id"`
	Description          string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags                 string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Properties           map[string]string   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Perspectives         []model.Perspective `json:"perspectives,omitempty" yaml:"perspectives,omitempty"`
	SourceID             string              `json:"sourceId" yaml:"sourceId"`
	DestinationID        string              `json:"destinationId" yaml:"destinationId"`
	Technology           string              `json:"technology,omitempty" yaml:"technology,omitempty"`
	InteractionStyle     string              `json:"interactionStyle,omitempty" yaml:"interactionStyle,omitempty"`
	LinkedRelationshipID string              `json:"linkedRelationshipId,omitempty" yaml:"linkedRelationshipId,omitempty"`
}

type viewsDoc struct {
	SystemLandscapeViews []viewDoc         `json:"systemLandscapeViews,omitempty" yaml:"systemLandscapeViews,omitempty"`
	SystemContextViews   []viewDoc         `json:"systemContextViews,omitempty" yaml:"systemContextViews,omitempty"`
	ContainerViews       []viewDoc         `json:"containerViews,omitempty" yaml:"containerViews,omitempty"`
	ComponentViews       []viewDoc         `json:"componentViews,omitempty" yaml:"componentViews,omitempty"`
	DeploymentViews      []viewDoc         `json:"deploymentViews,omitempty" yaml:"deploymentViews,omitempty"`
	DynamicViews         []viewDoc         `json:"dynamicViews,omitempty" yaml:"dynamicViews,omitempty"`
	FilteredViews        []filteredViewDoc `json:"filteredViews,omitempty" yaml:"filteredViews,omitempty"`

	// Configuration carries styles, branding and terminology untouched.
	Configuration map[string]any `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// viewDoc covers every view type; fields that do not apply stay empty.
type viewDoc struct {
	Key              string                `json:"key" yaml:"key"`
	Description      string                `json:"description,omitempty" yaml:"description,omitempty"`
	Title            string                `json:"title,omitempty" yaml:"title,omitempty"`
	PaperSize        string                `json:"paperSize,omitempty" yaml:"paperSize,omitempty"`
	SoftwareSystemID string                `json:"softwareSystemId,omitempty" yaml:"softwareSystemId,omitempty"`
	ContainerID      string                `json:"containerId,omitempty" yaml:"containerId,omitempty"`
	ElementID        string                `json:"elementId,omitempty" yaml:"elementId,omitempty"`
	Environment      string                `json:"environment,omitempty" yaml:"environment,omitempty"`
	AutomaticLayout  *view.AutomaticLayout `json:"automaticLayout,omitempty" yaml:"automaticLayout,omitempty"`
	Elements         []elementViewDoc      `json:"elements,omitempty" yaml:"elements,omitempty"`
	Relationships    []relationshipViewDoc `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Animations       []view.Animation      `json:"animations,omitempty" yaml:"animations,omitempty"`

	EnterpriseBoundaryVisible               *bool `json:"enterpriseBoundaryVisible,omitempty" yaml:"enterpriseBoundaryVisible,omitempty"`
	ExternalSoftwareSystemBoundariesVisible *bool `json:"externalSoftwareSystemBoundariesVisible,omitempty" yaml:"externalSoftwareSystemBoundariesVisible,omitempty"`
	ExternalContainerBoundariesVisible      *bool `json:"externalContainerBoundariesVisible,omitempty" yaml:"externalContainerBoundariesVisible,omitempty"`
}

type elementViewDoc struct {
	ID string `json:"id" yaml:"id"`
	X  int    `json:"x" yaml:"x"`
	Y  int    `json:"y" yaml:"y"`
}

type relationshipViewDoc struct {
	ID          string        `json:"id" yaml:"id"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Order       string        `json:"order,omitempty" yaml:"order,omitempty"`
	Response    bool          `json:"response,omitempty" yaml:"response,omitempty"`
	Vertices    []view.Vertex `json:"vertices,omitempty" yaml:"vertices,omitempty"`
	Routing     string        `json:"routing,omitempty" yaml:"routing,omitempty"`
	Position    *int          `json:"position,omitempty" yaml:"position,omitempty"`
}

type filteredViewDoc struct {
	Key         string   `json:"key" yaml:"key"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	BaseViewKey string   `json:"baseViewKey" yaml:"baseViewKey"`
	Mode        string   `json:"mode" yaml:"mode"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
