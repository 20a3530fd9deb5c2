package workspace

import (
	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
)

// item is satisfied by every element and relationship.
type item interface {
	TagString() string
	SetTags(tags ...string)
	Perspectives() []model.Perspective
	AddPerspective(name, description string)
}

type grouped interface {
	Group() string
}

func encodeWorkspace(w *Workspace) *workspaceDoc {
	doc := &workspaceDoc{
		ID:                w.ID,
		Name:              w.Name,
		Description:       w.Description,
		Version:           w.Version,
		Revision:          w.Revision,
		Thumbnail:         w.Thumbnail,
		LastModifiedUser:  w.LastModifiedUser,
		LastModifiedAgent: w.LastModifiedAgent,
		Model:             encodeModel(w.Model),
		Views:             encodeViews(w.Views),
	}
	if !w.LastModifiedDate.IsZero() {
		t := w.LastModifiedDate.UTC()
		doc.LastModifiedDate = &t
	}
	doc.Views.Configuration = w.Configuration
	return doc
}

func encodeModel(m *model.Model) modelDoc {
	var doc modelDoc
	if m.Enterprise() != "" {
		doc.Enterprise = &enterpriseDoc{Name: m.Enterprise()}
	}
	for _, p := range m.People() {
		doc.People = append(doc.People, personDoc{
			elementDoc: encodeElement(p),
			Location:   encodeLocation(p.Location()),
			Group:      p.Group(),
		})
	}
	for _, s := range m.SoftwareSystems() {
		sd := softwareSystemDoc{
			elementDoc: encodeElement(s),
			Location:   encodeLocation(s.Location()),
			Group:      s.Group(),
		}
		for _, c := range s.Containers() {
			cd := containerDoc{
				elementDoc: encodeElement(c),
				Technology: c.Technology(),
				Group:      c.Group(),
			}
			for _, comp := range c.Components() {
				cd.Components = append(cd.Components, componentDoc{
					elementDoc: encodeElement(comp),
					Technology: comp.Technology(),
					Group:      comp.Group(),
					Size:       comp.Size(),
				})
			}
			sd.Containers = append(sd.Containers, cd)
		}
		doc.SoftwareSystems = append(doc.SoftwareSystems, sd)
	}
	for _, n := range m.DeploymentNodes() {
		doc.DeploymentNodes = append(doc.DeploymentNodes, encodeDeploymentNode(n))
	}
	return doc
}

func encodeDeploymentNode(n *model.DeploymentNode) deploymentNodeDoc {
	doc := deploymentNodeDoc{
		elementDoc:  encodeElement(n),
		Environment: n.Environment(),
		Technology:  n.Technology(),
		Instances:   n.Instances(),
	}
	for _, child := range n.Children() {
		doc.Children = append(doc.Children, encodeDeploymentNode(child))
	}
	for _, in := range n.InfrastructureNodes() {
		doc.InfrastructureNodes = append(doc.InfrastructureNodes, infrastructureNodeDoc{
			elementDoc:  encodeElement(in),
			Environment: in.Environment(),
			Technology:  in.Technology(),
		})
	}
	for _, ci := range n.ContainerInstances() {
		doc.ContainerInstances = append(doc.ContainerInstances, containerInstanceDoc{
			elementDoc:   encodeElement(ci),
			Environment:  ci.Environment(),
			InstanceID:   ci.InstanceID(),
			ContainerID:  ci.Container().ID(),
			HealthChecks: ci.HealthChecks(),
		})
	}
	for _, si := range n.SoftwareSystemInstances() {
		doc.SoftwareSystemInstances = append(doc.SoftwareSystemInstances, softwareSystemInstanceDoc{
			elementDoc:       encodeElement(si),
			Environment:      si.Environment(),
			InstanceID:       si.InstanceID(),
			SoftwareSystemID: si.SoftwareSystem().ID(),
			HealthChecks:     si.HealthChecks(),
		})
	}
	return doc
}

func encodeElement(e model.Element) elementDoc {
	doc := elementDoc{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		URL:         e.URL(),
		Properties:  e.Properties(),
	}
	if it, ok := e.(item); ok {
		doc.Tags = it.TagString()
		doc.Perspectives = it.Perspectives()
	}
	if len(doc.Properties) == 0 {
		doc.Properties = nil
	}
	for _, r := range e.Relationships() {
		doc.Relationships = append(doc.Relationships, encodeRelationship(r))
	}
	return doc
}

func encodeRelationship(r *model.Relationship) relationshipDoc {
	doc := relationshipDoc{
		ID:                   r.ID(),
		Description:          r.Description(),
		Tags:                 r.TagString(),
		Properties:           r.Properties(),
		Perspectives:         r.Perspectives(),
		SourceID:             r.SourceID(),
		DestinationID:        r.DestinationID(),
		Technology:           r.Technology(),
		InteractionStyle:     string(r.InteractionStyle()),
		LinkedRelationshipID: r.LinkedRelationshipID(),
	}
	if len(doc.Properties) == 0 {
		doc.Properties = nil
	}
	return doc
}

func encodeLocation(l model.Location) string {
	if l == model.LocationUnspecified {
		return ""
	}
	return string(l)
}

func encodeViews(vs *view.ViewSet) viewsDoc {
	var doc viewsDoc
	for _, v := range vs.SystemLandscapeViews() {
		vd := encodeView(v)
		vd.EnterpriseBoundaryVisible = &v.EnterpriseBoundaryVisible
		doc.SystemLandscapeViews = append(doc.SystemLandscapeViews, vd)
	}
	for _, v := range vs.SystemContextViews() {
		vd := encodeView(v)
		vd.EnterpriseBoundaryVisible = &v.EnterpriseBoundaryVisible
		doc.SystemContextViews = append(doc.SystemContextViews, vd)
	}
	for _, v := range vs.ContainerViews() {
		vd := encodeView(v)
		vd.ExternalSoftwareSystemBoundariesVisible = &v.ExternalSoftwareSystemBoundariesVisible
		doc.ContainerViews = append(doc.ContainerViews, vd)
	}
	for _, v := range vs.ComponentViews() {
		vd := encodeView(v)
		vd.ContainerID = v.Container().ID()
		vd.ExternalContainerBoundariesVisible = &v.ExternalContainerBoundariesVisible
		doc.ComponentViews = append(doc.ComponentViews, vd)
	}
	for _, v := range vs.DeploymentViews() {
		vd := encodeView(v)
		vd.Environment = v.Environment()
		doc.DeploymentViews = append(doc.DeploymentViews, vd)
	}
	for _, v := range vs.DynamicViews() {
		vd := encodeView(v)
		if scope := v.Element(); scope != nil {
			vd.ElementID = scope.ID()
		}
		doc.DynamicViews = append(doc.DynamicViews, vd)
	}
	for _, f := range vs.FilteredViews() {
		doc.FilteredViews = append(doc.FilteredViews, filteredViewDoc{
			Key:         f.Key(),
			Description: f.Description(),
			BaseViewKey: f.BaseViewKey(),
			Mode:        string(f.Mode()),
			Tags:        f.Tags(),
		})
	}
	return doc
}

func encodeView(v view.View) viewDoc {
	doc := viewDoc{
		Key:             v.Key(),
		Description:     v.Description(),
		Title:           v.Title(),
		PaperSize:       v.PaperSize(),
		AutomaticLayout: v.AutomaticLayout(),
		Animations:      v.Animations(),
	}
	if s := v.SoftwareSystem(); s != nil {
		doc.SoftwareSystemID = s.ID()
	}
	for _, ev := range v.ElementViews() {
		doc.Elements = append(doc.Elements, elementViewDoc{ID: ev.ID(), X: ev.X, Y: ev.Y})
	}
	for _, rv := range v.RelationshipViews() {
		doc.Relationships = append(doc.Relationships, relationshipViewDoc{
			ID:          rv.ID(),
			Description: rv.Description,
			Order:       rv.Order,
			Response:    rv.Response,
			Vertices:    rv.Vertices,
			Routing:     rv.Routing,
			Position:    rv.Position,
		})
	}
	return doc
}
